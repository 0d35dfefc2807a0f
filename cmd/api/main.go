package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/anvita-clinic/booking-api/cmd/mainconfig"
	"github.com/anvita-clinic/booking-api/internal/api/router"
	"github.com/anvita-clinic/booking-api/internal/booking"
	appconfig "github.com/anvita-clinic/booking-api/internal/config"
	"github.com/anvita-clinic/booking-api/internal/contact"
	"github.com/anvita-clinic/booking-api/internal/gcal"
	"github.com/anvita-clinic/booking-api/internal/notify"
	"github.com/anvita-clinic/booking-api/internal/observability/metrics"
	"github.com/anvita-clinic/booking-api/internal/payments"
	"github.com/anvita-clinic/booking-api/internal/schedule"
	"github.com/anvita-clinic/booking-api/internal/testimonials"
	"github.com/anvita-clinic/booking-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	if cfg.Env == "development" {
		logger = logging.NewText(cfg.LogLevel)
	}
	logger.Info("starting booking API server", "env", cfg.Env, "port", cfg.Port)

	ctx := context.Background()
	zone := schedule.Zone(cfg.PracticeUTCOffsetMinutes)

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	// Postgres is optional: without it bookings and testimonials are not
	// persisted but the API stays up.
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		p, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("database connection failed, persistence disabled", "error", err)
		} else {
			pool = p
			defer pool.Close()
		}
	}

	// Google Calendar is the busy-interval source. Without credentials
	// the API serves demo availability.
	calClient, err := gcal.NewClient(ctx, gcal.Config{
		ServiceAccountKey: cfg.GoogleServiceAccountKey,
		CalendarID:        cfg.GoogleCalendarID,
		Timeout:           cfg.CalendarTimeout,
	}, logger, bookingMetrics)
	if err != nil {
		logger.Error("calendar client init failed, serving demo availability", "error", err)
		calClient = nil
	}

	// The bulk availability endpoint may serve slightly stale data, so
	// it reads through the Redis cache. The pre-payment guard and the
	// booking reconciler always hit the calendar directly.
	var liveSource, bulkSource schedule.BusySource
	if calClient != nil {
		liveSource = calClient
		bulkSource = calClient
		if cfg.RedisAddr != "" {
			opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
			if cfg.RedisTLS {
				opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			}
			rdb := redis.NewClient(opts)
			bulkSource = schedule.NewCachedBusySource(calClient, rdb, cfg.AvailabilityCacheTTL, logger)
			logger.Info("availability caching enabled", "addr", cfg.RedisAddr, "ttl", cfg.AvailabilityCacheTTL)
		}
	}

	calc := schedule.NewCalculator(bulkSource, zone, logger,
		schedule.WithMaxWindowDays(cfg.BookingWindowMaxDays),
		schedule.WithHidePastSlots(cfg.HidePastSlots),
	)
	guard := schedule.NewConflictGuard(liveSource, zone, logger)

	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			sender = s
		}
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("AWS config load failed, email disabled", "error", err)
			break
		}
		if s := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			sender = s
		}
	default:
		sender = notify.NewStubEmailSender(logger)
	}
	if sender == nil {
		logger.Warn("email provider not configured, falling back to stub sender", "provider", cfg.EmailProvider)
		sender = notify.NewStubEmailSender(logger)
	}
	notifier := notify.NewService(sender, cfg.PractitionerEmail, cfg.PractitionerName, logger)

	var events booking.EventCreator
	if calClient != nil {
		events = calClient
	}
	var recorder booking.Recorder
	if pool != nil {
		recorder = booking.NewRepository(pool)
	}
	reconciler := booking.NewReconciler(liveSource, events, recorder, notifier, zone, logger, bookingMetrics)

	var moderator testimonials.Moderator
	gm, err := testimonials.NewGeminiModerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID, logger)
	if err != nil {
		logger.Error("moderation client init failed, moderation disabled", "error", err)
	} else if gm != nil {
		moderator = gm
		defer func() { _ = gm.Close() }()
	}
	var testimonialRepo *testimonials.Repository
	if pool != nil {
		testimonialRepo = testimonials.NewRepository(pool)
	}

	r := router.New(&router.Config{
		Logger:              logger,
		ScheduleHandler:     schedule.NewHandler(calc, guard, logger, bookingMetrics),
		BookingHandler:      booking.NewHandler(reconciler, logger),
		PaymentsHandler:     payments.NewHandler(logger),
		TestimonialsHandler: testimonials.NewHandler(testimonialRepo, moderator, logger),
		ContactHandler:      contact.NewHandler(notifier, logger),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
