package handlers

import (
	"net/http"

	"github.com/jpereira88/pipecrm/internal/infra/database"
)

type DashboardHandler struct {
	Analytics *database.AnalyticsRepository
}

func NewDashboardHandler(analytics *database.AnalyticsRepository) *DashboardHandler {
	return &DashboardHandler{Analytics: analytics}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.DashboardStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) SalesChart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.Analytics.SalesChart(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}
