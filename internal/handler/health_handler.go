package handler

import (
	"net/http"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/oracle"
)

type HealthHandler struct {
	oracles *oracle.Registry
}

func NewHealthHandler(reg *oracle.Registry) *HealthHandler { return &HealthHandler{oracles: reg} }

type healthResponse struct {
	Status  string            `json:"status"`
	Oracles map[string]string `json:"oracles"`
}

// @Summary Healthcheck
// @Description status=ok si la API responde; oracles indica qué modelos están disponibles
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Oracles: make(map[string]string)}
	for _, kind := range []models.OracleKind{models.KindUser, models.KindItem} {
		if _, err := h.oracles.Get(kind); err != nil {
			resp.Oracles[string(kind)] = err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Oracles[string(kind)] = "ok"
	}
	writeJSON(w, http.StatusOK, resp)
}
