package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/oracle"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/recommend"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/service"
)

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, recommend.ErrInvalidFilter),
		errors.Is(err, recommend.ErrInvalidPage),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, oracle.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError traduce los errores del dominio a códigos HTTP. Los 5xx se registran.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("error interno")
		msg = "internal error"
	} else if status == http.StatusServiceUnavailable {
		logging.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("oráculo no disponible")
	}
	writeJSON(w, status, errorResponse{Detail: msg})
}

// queryInt lee un entero opcional del query string.
func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", errBadRequest, key, v)
	}
	return n, nil
}

func pathInt(r *http.Request, key string) (int, error) {
	v := chi.URLParam(r, key)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", errBadRequest, key, v)
	}
	return n, nil
}
