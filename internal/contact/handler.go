package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anvita-clinic/booking-api/internal/notify"
	"github.com/anvita-clinic/booking-api/pkg/logging"
)

// Sender forwards contact-form enquiries to the practitioner.
type Sender interface {
	SendContactMessage(ctx context.Context, m notify.ContactMessage) error
}

// Handler exposes the contact form endpoint.
type Handler struct {
	sender Sender
	logger *logging.Logger
}

// NewHandler creates the contact HTTP handler.
func NewHandler(sender Sender, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{sender: sender, logger: logger}
}

// Submit handles POST /api/contact.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and message are required"})
		return
	}

	if h.sender == nil {
		h.logger.Warn("contact message dropped, no sender configured", "name", req.Name)
		writeJSON(w, http.StatusOK, map[string]bool{"sent": false})
		return
	}

	if err := h.sender.SendContactMessage(r.Context(), notify.ContactMessage{
		Name:    req.Name,
		Phone:   req.Phone,
		Message: req.Message,
	}); err != nil {
		h.logger.Error("contact message failed", "error", err, "name", req.Name)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send message"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
