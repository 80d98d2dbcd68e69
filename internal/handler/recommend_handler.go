package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/recommend"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/service"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

type recRequest struct {
	kind   models.OracleKind
	userID int
	filter string
	limit  int
	offset int
}

// parseRecRequest lee la ruta y el query string. limit por defecto 9, offset 0.
func parseRecRequest(r *http.Request) (recRequest, error) {
	var req recRequest
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		return req, fmt.Errorf("%w: recommender %q", recommend.ErrNotFound, chi.URLParam(r, "kind"))
	}
	userID, err := pathInt(r, "userId")
	if err != nil {
		return req, err
	}
	limit, err := queryInt(r, "limit", 9)
	if err != nil {
		return req, err
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		return req, err
	}
	return recRequest{
		kind:   kind,
		userID: userID,
		filter: r.URL.Query().Get("filter_ratings"),
		limit:  limit,
		offset: offset,
	}, nil
}

// @Summary Recomendaciones para un usuario
// @Description Lista rankeada por rating predicho (desc) y movieId (asc), paginada
// @Tags recommend
// @Produce json
// @Param userId path int true "userId"
// @Param kind path string true "user o item"
// @Param limit query int false "tamaño de página (default: 9)"
// @Param offset query int false "desplazamiento (default: 0)"
// @Param filter_ratings query string false "buckets separados por coma, p. ej. 4,5"
// @Success 200 {object} models.Page
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /user/{userId}/recommendations/{kind} [get]
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	req, err := parseRecRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.svc.GetRecommendations(r.Context(), req.kind, req.userID, req.filter, req.offset, req.limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones por WebSocket
// @Description Envía un mensaje start y luego recommendations o error
// @Tags recommend
// @Produce json
// @Param userId path int true "userId"
// @Param kind path string true "user o item"
// @Param limit query int false "tamaño de página (default: 9)"
// @Param offset query int false "desplazamiento (default: 0)"
// @Param filter_ratings query string false "buckets separados por coma"
// @Success 101 {object} map[string]any
// @Router /user/{userId}/ws/recommendations/{kind} [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	req, err := parseRecRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("no se pudo abrir WebSocket")
		return
	}
	defer conn.Close()

	_ = conn.WriteJSON(map[string]any{
		"type":   "start",
		"msg":    "Conexión WS abierta, iniciando cálculo…",
		"userId": req.userID,
		"kind":   req.kind,
	})

	page, err := h.svc.GetRecommendations(r.Context(), req.kind, req.userID, req.filter, req.offset, req.limit)
	if err != nil {
		_ = conn.WriteJSON(map[string]any{
			"type":   "error",
			"status": statusFor(err),
			"error":  err.Error(),
		})
		return
	}

	_ = conn.WriteJSON(map[string]any{
		"type":        "recommendations",
		"userId":      req.userID,
		"kind":        req.kind,
		"page":        page,
		"generatedAt": time.Now(),
	})
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
