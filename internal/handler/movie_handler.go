// internal/handler/movie_handler.go
package handler

import (
	"net/http"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/service"
)

type MovieHandler struct {
	svc *service.MovieService
}

func NewMovieHandler(s *service.MovieService) *MovieHandler { return &MovieHandler{svc: s} }

// @Summary Listar películas
// @Tags movies
// @Produce json
// @Param limit query int false "límite (default: 100)"
// @Success 200 {array} models.Movie
// @Router /movies [get]
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		writeError(w, r, err)
		return
	}
	movies, err := h.svc.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// @Summary Películas más populares
// @Description Por cantidad de ratings, para usuarios nuevos
// @Tags movies
// @Produce json
// @Param n query int false "cantidad (default: 20)"
// @Success 200 {array} models.Movie
// @Router /popular-movies [get]
func (h *MovieHandler) Popular(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "n", 20)
	if err != nil {
		writeError(w, r, err)
		return
	}
	movies, err := h.svc.Popular(r.Context(), n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}
