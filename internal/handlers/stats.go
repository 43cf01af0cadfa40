package handlers

import (
	"net/http"

	"meetingnotes/internal/service"
)

// StatsHandler serves catalog statistics.
type StatsHandler struct {
	catalog service.CatalogService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(catalog service.CatalogService) *StatsHandler {
	return &StatsHandler{catalog: catalog}
}

// ServeHTTP handles GET /api/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.catalog.Stats(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to compute stats")
		return
	}
	writeJSON(w, ctx, http.StatusOK, stats)
}
