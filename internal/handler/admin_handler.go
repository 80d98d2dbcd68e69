package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/service"
)

// AdminHandler expone endpoints de mantenimiento de la caché de recomendaciones.
type AdminHandler struct {
	svc     *service.RecommendService
	backend string
}

// NewAdminHandler crea el handler; backend es "memory" o "redis".
func NewAdminHandler(svc *service.RecommendService, backend string) *AdminHandler {
	return &AdminHandler{svc: svc, backend: backend}
}

type cacheStats struct {
	Backend string `json:"backend"`
	Entries int    `json:"entries"`
}

// @Summary Estado de la caché
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} cacheStats
// @Failure 403 {object} errorResponse
// @Router /admin/cache/stats [get]
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.CacheSize(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cacheStats{Backend: h.backend, Entries: n})
}

// @Summary Invalidar la caché de un usuario
// @Description Borra todas las listas cacheadas del usuario (ambos tipos, todos los filtros)
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param userId path int true "userId"
// @Success 200 {object} map[string]any
// @Failure 403 {object} errorResponse
// @Router /admin/cache/users/{userId}/invalidate [post]
func (h *AdminHandler) PostInvalidate(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	removed, err := h.svc.InvalidateUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"userId": userID, "removed": removed})
}

// MountAdminRoutes monta las rutas de admin; el router ya debe traer JWTAuth y AdminOnly.
func MountAdminRoutes(r chi.Router, h *AdminHandler) {
	r.Route("/admin/cache", func(r chi.Router) {
		r.Get("/stats", h.GetStats)
		r.Post("/users/{userId}/invalidate", h.PostInvalidate)
	})
}
