package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/service"
)

type RatingHandler struct {
	svc *service.RatingService
}

func NewRatingHandler(s *service.RatingService) *RatingHandler { return &RatingHandler{svc: s} }

type ratingRequest struct {
	MovieID int     `json:"movieId"`
	Rating  float64 `json:"rating"`
}

// ratingFromRequest lee movieId y rating del query string o, si no vienen, del body JSON.
func ratingFromRequest(r *http.Request) (ratingRequest, error) {
	q := r.URL.Query()
	if q.Get("movieId") != "" || q.Get("rating") != "" {
		movieID, err := strconv.Atoi(q.Get("movieId"))
		if err != nil {
			return ratingRequest{}, fmt.Errorf("%w: movieId=%q", errBadRequest, q.Get("movieId"))
		}
		rating, err := strconv.ParseFloat(q.Get("rating"), 64)
		if err != nil {
			return ratingRequest{}, fmt.Errorf("%w: rating=%q", errBadRequest, q.Get("rating"))
		}
		return ratingRequest{MovieID: movieID, Rating: rating}, nil
	}

	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ratingRequest{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return req, nil
}

// @Summary Calificar película
// @Description Guarda el rating (0.5 a 5.0) y borra las recomendaciones cacheadas del usuario
// @Tags ratings
// @Accept json
// @Produce json
// @Param userId path int true "userId"
// @Param movieId query int false "movieId"
// @Param rating query number false "rating"
// @Param body body ratingRequest false "rating"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /user/{userId}/rate [post]
func (h *RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := ratingFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Rate(r.Context(), userID, req.MovieID, req.Rating); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Calificación guardada",
		"userId":  userID,
		"movieId": req.MovieID,
		"rating":  req.Rating,
	})
}
