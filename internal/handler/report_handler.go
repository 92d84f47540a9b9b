package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bakepos/server/internal/service"
)

func reportWindow(r *http.Request) (service.Window, time.Time, bool) {
	switch w := service.Window(r.URL.Query().Get("window")); w {
	case service.WindowAll, service.WindowDaily, service.WindowWeekly, service.WindowMonthly, service.WindowYearly:
		ref := time.Now()
		if raw := r.URL.Query().Get("date"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return w, ref, false
			}
			ref = parsed
		}
		return w, ref, true
	default:
		return "", time.Time{}, false
	}
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	window, ref, ok := reportWindow(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid window or date")
		return
	}

	orders, err := h.reports.Orders(r.Context(), window, ref)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.reports.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SalesReport(w http.ResponseWriter, r *http.Request) {
	window, ref, ok := reportWindow(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid window or date")
		return
	}

	report, err := h.reports.Sales(r.Context(), window, ref)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	window, ref, ok := reportWindow(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid window or date")
		return
	}

	summary, err := h.reports.Summary(r.Context(), window, ref)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) Income(w http.ResponseWriter, r *http.Request) {
	total, err := h.reports.Income(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"totalIncome": total})
}
