package booking

import (
	"encoding/json"
	"net/http"

	"github.com/anvita-clinic/booking-api/pkg/logging"
)

// Handler exposes the post-payment booking endpoint.
type Handler struct {
	reconciler *Reconciler
	logger     *logging.Logger
}

// NewHandler creates the booking HTTP handler.
func NewHandler(reconciler *Reconciler, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{reconciler: reconciler, logger: logger}
}

// Create handles POST /api/book. The request arrives after payment, so
// the response always carries the transaction id and any ids created
// along the way, even when the overall booking failed.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	outcome, err := h.reconciler.Reconcile(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	switch {
	case outcome.Conflict:
		writeJSON(w, http.StatusConflict, outcome)
	case !outcome.Success:
		writeJSON(w, http.StatusInternalServerError, outcome)
	default:
		writeJSON(w, http.StatusOK, outcome)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
