package payments

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/anvita-clinic/booking-api/pkg/logging"
)

// Handler exposes the payment configuration and order endpoints.
type Handler struct {
	logger *logging.Logger
}

// NewHandler creates the payments HTTP handler.
func NewHandler(logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{logger: logger}
}

// GetConfig handles GET /api/payment/config. Country comes from the
// ?country= query parameter (set by the frontend from its geo lookup)
// with the visitor's timezone as a fallback signal.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	timezone := r.URL.Query().Get("tz")
	cfg := ConfigFor(country, timezone)
	writeJSON(w, http.StatusOK, cfg)
}

// CreateOrder handles POST /api/payment/order. Real capture happens on
// the frontend against the provider SDKs; this endpoint issues a mock
// order reference so the booking flow can be exercised end to end
// without provider credentials.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Currency string `json:"currency"`
		Amount   int64  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	orderID := "order_" + uuid.NewString()
	h.logger.Info("mock payment order created", "order_id", orderID, "currency", req.Currency, "amount", req.Amount)
	writeJSON(w, http.StatusOK, map[string]string{
		"orderId":      orderID,
		"clientSecret": "mock_secret",
		"status":       "succeeded",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
