package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/quitanda/services"
)

// StatsHandler expõe os contadores agregados do marketplace.
type StatsHandler struct {
	Engine *services.MarketplaceEngine
}

// NewStatsHandler cria uma nova instância do handler de estatísticas.
func NewStatsHandler(engine *services.MarketplaceEngine) *StatsHandler {
	return &StatsHandler{Engine: engine}
}

// GetStats devolve o snapshot atual dos contadores.
// GET /stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Engine.Stats())
}
