package testimonials

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anvita-clinic/booking-api/pkg/logging"
)

// Handler exposes the testimonial endpoints.
type Handler struct {
	repo      *Repository
	moderator Moderator
	logger    *logging.Logger
}

// NewHandler creates the testimonials HTTP handler. repo and moderator
// may be nil; listing degrades to an empty result and submissions skip
// moderation.
func NewHandler(repo *Repository, moderator Moderator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, moderator: moderator, logger: logger}
}

// List handles GET /api/testimonials.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeJSON(w, http.StatusOK, []Testimonial{})
		return
	}
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("testimonial list failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load testimonials"})
		return
	}
	if items == nil {
		items = []Testimonial{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Submit handles POST /api/testimonials. Moderation fails open: if the
// moderator is unreachable the testimonial is accepted, because losing
// a genuine review costs more than briefly hosting a bad one the
// practitioner can delete.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if h.moderator != nil {
		safe, err := h.moderator.Check(r.Context(), req.Text)
		if err != nil {
			h.logger.Warn("moderation unavailable, accepting testimonial", "error", err)
		} else if !safe {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "testimonial rejected by moderation"})
			return
		}
	}

	if h.repo == nil {
		h.logger.Warn("no database configured, testimonial not persisted")
		writeJSON(w, http.StatusOK, Testimonial{
			Name:      displayName(req),
			Text:      req.Text,
			Rating:    req.Rating,
			Anonymous: req.Anonymous,
		})
		return
	}

	item, err := h.repo.Insert(r.Context(), req)
	if err != nil {
		h.logger.Error("testimonial insert failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save testimonial"})
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Delete handles DELETE /api/testimonials/{id}. The route is guarded by
// admin auth middleware.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid testimonial id"})
		return
	}
	if h.repo == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "testimonial not found"})
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "testimonial not found"})
			return
		}
		h.logger.Error("testimonial delete failed", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete testimonial"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Moderate handles POST /api/moderate, exposing the verdict directly so
// the frontend can pre-check text before submission.
func (h *Handler) Moderate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	if h.moderator == nil {
		writeJSON(w, http.StatusOK, map[string]any{"safe": true, "fallback": true})
		return
	}
	safe, err := h.moderator.Check(r.Context(), req.Text)
	if err != nil {
		h.logger.Warn("moderation check failed", "error", err)
		writeJSON(w, http.StatusOK, map[string]any{"safe": true, "fallback": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"safe": safe})
}

func displayName(req SubmitRequest) string {
	if req.Anonymous {
		return "Anonymous"
	}
	return req.Name
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
