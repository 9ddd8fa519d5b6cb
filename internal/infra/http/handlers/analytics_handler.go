package handlers

import (
	"net/http"

	"github.com/jpereira88/pipecrm/internal/infra/database"
)

type AnalyticsHandler struct {
	Analytics *database.AnalyticsRepository
	Leads     *database.LeadRepository
}

func NewAnalyticsHandler(analytics *database.AnalyticsRepository, leads *database.LeadRepository) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: analytics, Leads: leads}
}

func (h *AnalyticsHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	chart, err := h.Analytics.SalesSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

// LeadFunnel reports lead counts per status, feeding the funnel widget.
func (h *AnalyticsHandler) LeadFunnel(w http.ResponseWriter, r *http.Request) {
	funnel, err := h.Leads.FunnelCounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, funnel)
}

func (h *AnalyticsHandler) TopReps(w http.ResponseWriter, r *http.Request) {
	reps, err := h.Analytics.TopReps(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reps)
}

func (h *AnalyticsHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Analytics.TopProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}
