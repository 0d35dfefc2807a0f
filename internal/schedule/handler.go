package schedule

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/anvita-clinic/booking-api/internal/observability/metrics"
	"github.com/anvita-clinic/booking-api/pkg/logging"
)

// Handler serves the calendar-availability and slot-check endpoints.
type Handler struct {
	calc    *Calculator
	guard   *ConflictGuard
	logger  *logging.Logger
	metrics *metrics.BookingMetrics
	now     func() time.Time
}

// NewHandler creates a schedule handler.
func NewHandler(calc *Calculator, guard *ConflictGuard, logger *logging.Logger, m *metrics.BookingMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		calc:    calc,
		guard:   guard,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// GetAvailability handles GET /api/calendar?date=YYYY-MM-DD&days=N.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date parameter required", http.StatusBadRequest)
		return
	}

	days := 1
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil {
			http.Error(w, "days must be an integer", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	availability, err := h.calc.ComputeRange(r.Context(), date, days, h.now())
	if err != nil {
		http.Error(w, "invalid date format, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	mode := "live"
	if availability.Degraded {
		mode = "degraded"
	}
	h.metrics.ObserveAvailability(mode)
	h.logger.Info("availability computed", "start_date", date, "days", availability.Days, "mode", mode)

	writeJSON(w, http.StatusOK, availability)
}

// CheckSlot handles GET /api/calendar/check?date=YYYY-MM-DD&slot=LABEL.
func (h *Handler) CheckSlot(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	slot := r.URL.Query().Get("slot")
	if date == "" || slot == "" {
		http.Error(w, "date and slot parameters required", http.StatusBadRequest)
		return
	}

	check, err := h.guard.CheckSlot(r.Context(), date, slot)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := "available"
	switch {
	case check.Fallback:
		result = "fallback"
	case !check.Available:
		result = "busy"
	}
	h.metrics.ObserveSlotCheck(result)
	h.logger.Info("slot checked", "date", date, "slot", slot, "result", result)

	writeJSON(w, http.StatusOK, check)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
