package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agencydesk/billing-app/internal/httpx"
	"github.com/agencydesk/billing-app/internal/services"
)

type StatsHandler struct {
	Analytics *services.AnalyticsAggregator
}

func NewStatsHandler(analytics *services.AnalyticsAggregator) *StatsHandler {
	return &StatsHandler{Analytics: analytics}
}

// Revenue: GET /stats/revenue
func (h *StatsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.RevenueStats()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_compute_stats", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

// Advanced: GET /stats/advanced
func (h *StatsHandler) Advanced(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.AdvancedStats()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_compute_stats", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

// TopClients: GET /stats/top-clients?n=5
func (h *StatsHandler) TopClients(w http.ResponseWriter, r *http.Request) {
	n := 5
	if v := r.URL.Query().Get("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			n = parsed
		}
	}
	clients, err := h.Analytics.TopClients(n)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_compute_stats", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": clients})
}

// Report: GET /stats/report?from=2026-01-01&to=2026-03-31
func (h *StatsHandler) Report(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_from", nil)
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_to", nil)
		return
	}
	if to.Before(from) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_range", nil)
		return
	}
	// include the whole "to" day
	report, err := h.Analytics.ReportData(from, to.AddDate(0, 0, 1).Add(-time.Nanosecond))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_build_report", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
