package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler { return &UserHandler{svc: s} }

// @Summary Listar usuarios
// @Tags users
// @Produce json
// @Param limit query int false "límite (default: 300)"
// @Success 200 {array} models.User
// @Router /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 300)
	if err != nil {
		writeError(w, r, err)
		return
	}
	users, err := h.svc.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// newUserRequest: ratings es una lista de objetos {"movieId": rating}.
type newUserRequest struct {
	Username string               `json:"username"`
	Ratings  []map[string]float64 `json:"ratings"`
}

type newUserResponse struct {
	UserID     int    `json:"userId"`
	Username   string `json:"username"`
	NumRatings int    `json:"num_ratings"`
}

// @Summary Crear usuario
// @Description Crea un usuario con id = máximo + 1 y sus ratings iniciales
// @Tags users
// @Accept json
// @Produce json
// @Param body body newUserRequest true "usuario y ratings"
// @Success 201 {object} newUserResponse
// @Failure 400 {object} errorResponse
// @Router /users/new [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req newUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	ratings := make(map[int]float64)
	for _, entry := range req.Ratings {
		for k, v := range entry {
			movieID, err := strconv.Atoi(k)
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: movieId %q is not an integer", errBadRequest, k))
				return
			}
			ratings[movieID] = v
		}
	}

	u, err := h.svc.Create(r.Context(), req.Username, ratings)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newUserResponse{UserID: u.UserID, Username: u.Username, NumRatings: len(req.Ratings)})
}

// @Summary Historial de ratings del usuario
// @Tags users
// @Produce json
// @Param userId path int true "userId"
// @Success 200 {array} models.UserRating
// @Failure 404 {object} errorResponse
// @Router /user/{userId}/ratings [get]
func (h *UserHandler) Ratings(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.svc.Ratings(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
