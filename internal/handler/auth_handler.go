package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: s}
}

type loginRequest struct {
	UserID int `json:"userId"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// userIDFromLogin acepta JSON {"userId": N} o un formulario con userId.
func userIDFromLogin(r *http.Request) (int, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return 0, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return req.UserID, nil
	}
	v := r.FormValue("userId")
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: userId=%q is not an integer", errBadRequest, v)
	}
	return id, nil
}

// @Summary Login
// @Description Abre sesión con el userId; devuelve un JWT y lo deja en la cookie token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "usuario"
// @Success 200 {object} loginResponse
// @Failure 404 {object} errorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromLogin(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, u, err := h.svc.Login(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(service.TokenTTL.Seconds()),
	})
	writeJSON(w, http.StatusOK, loginResponse{Token: token, UserID: u.UserID, Username: u.Username, Role: u.Role})
}

// @Summary Logout
// @Description Cierra la sesión y borra las recomendaciones cacheadas del usuario
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if err := h.svc.Logout(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: TokenCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{"message": "Sesión cerrada", "userId": userID})
}
