package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/anvita-clinic/booking-api/internal/booking"
	"github.com/anvita-clinic/booking-api/internal/contact"
	httpmiddleware "github.com/anvita-clinic/booking-api/internal/http/middleware"
	"github.com/anvita-clinic/booking-api/internal/payments"
	"github.com/anvita-clinic/booking-api/internal/schedule"
	"github.com/anvita-clinic/booking-api/internal/testimonials"
	"github.com/anvita-clinic/booking-api/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	ScheduleHandler     *schedule.Handler
	BookingHandler      *booking.Handler
	PaymentsHandler     *payments.Handler
	TestimonialsHandler *testimonials.Handler
	ContactHandler      *contact.Handler
	MetricsHandler      http.Handler
	AdminAuthSecret     string
	CORSAllowedOrigins  []string

	// Requests per second and burst for the write endpoints.
	WriteRateLimit float64
	WriteBurst     int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	writeRate := cfg.WriteRateLimit
	if writeRate <= 0 {
		writeRate = 2
	}
	writeBurst := cfg.WriteBurst
	if writeBurst <= 0 {
		writeBurst = 5
	}
	limitWrites := httpmiddleware.RateLimit(writeRate, writeBurst)

	r.Get("/health", healthHandler(time.Now()))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.ScheduleHandler != nil {
			api.Get("/availability", cfg.ScheduleHandler.GetAvailability)
			api.Get("/check-slot", cfg.ScheduleHandler.CheckSlot)
		}
		if cfg.BookingHandler != nil {
			api.With(limitWrites).Post("/book", cfg.BookingHandler.Create)
		}
		if cfg.PaymentsHandler != nil {
			api.Get("/payment/config", cfg.PaymentsHandler.GetConfig)
			api.Post("/payment/order", cfg.PaymentsHandler.CreateOrder)
		}
		if cfg.TestimonialsHandler != nil {
			api.Get("/testimonials", cfg.TestimonialsHandler.List)
			api.With(limitWrites).Post("/testimonials", cfg.TestimonialsHandler.Submit)
			api.With(httpmiddleware.AdminJWT(cfg.AdminAuthSecret)).
				Delete("/testimonials/{id}", cfg.TestimonialsHandler.Delete)
			api.Post("/moderate", cfg.TestimonialsHandler.Moderate)
		}
		if cfg.ContactHandler != nil {
			api.With(limitWrites).Post("/contact", cfg.ContactHandler.Submit)
		}
	})

	return r
}

func healthHandler(started time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":         "ok",
			"uptime_seconds": int64(time.Since(started).Seconds()),
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
		})
	}
}
