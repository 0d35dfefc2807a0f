package gcal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/anvita-clinic/booking-api/internal/observability/metrics"
	"github.com/anvita-clinic/booking-api/internal/schedule"
	"github.com/anvita-clinic/booking-api/pkg/logging"
)

// Client talks to the practitioner's Google Calendar through a service
// account. Credentials and the target calendar are injected by the
// caller; there is no ambient/global client state.
type Client struct {
	svc        *calendar.Service
	calendarID string
	timeout    time.Duration
	logger     *logging.Logger
	metrics    *metrics.BookingMetrics
}

// Config holds the calendar integration settings.
type Config struct {
	// ServiceAccountKey is the service account JSON key document.
	ServiceAccountKey string
	CalendarID        string
	// Timeout bounds each upstream call; keep it short so callers can
	// fail fast to their fallback behavior instead of hanging.
	Timeout time.Duration
}

// NewClient builds a calendar client, or returns nil (not an error)
// when the integration is unconfigured so callers can run in demo mode.
func NewClient(ctx context.Context, cfg Config, logger *logging.Logger, m *metrics.BookingMetrics) (*Client, error) {
	if strings.TrimSpace(cfg.ServiceAccountKey) == "" || strings.TrimSpace(cfg.CalendarID) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	svc, err := calendar.NewService(ctx,
		option.WithCredentialsJSON([]byte(cfg.ServiceAccountKey)),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("gcal: create service: %w", err)
	}

	return &Client{
		svc:        svc,
		calendarID: cfg.CalendarID,
		timeout:    cfg.Timeout,
		logger:     logger,
		metrics:    m,
	}, nil
}

// BusyIntervals queries freebusy for the window and returns the busy
// periods as half-open intervals.
func (c *Client) BusyIntervals(ctx context.Context, window schedule.TimeInterval) ([]schedule.TimeInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	resp, err := c.svc.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: window.Start.Format(time.RFC3339),
		TimeMax: window.End.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: c.calendarID}},
	}).Context(ctx).Do()
	c.metrics.ObserveUpstreamLatency("freebusy", time.Since(started).Seconds())
	if err != nil {
		return nil, fmt.Errorf("gcal: freebusy query: %w", err)
	}

	cal, ok := resp.Calendars[c.calendarID]
	if !ok {
		return nil, nil
	}
	return parseBusyPeriods(cal.Busy, c.logger), nil
}

// parseBusyPeriods converts freebusy periods to intervals, dropping
// entries the upstream returned malformed.
func parseBusyPeriods(periods []*calendar.TimePeriod, logger *logging.Logger) []schedule.TimeInterval {
	intervals := make([]schedule.TimeInterval, 0, len(periods))
	for _, p := range periods {
		if p == nil {
			continue
		}
		start, err := time.Parse(time.RFC3339, p.Start)
		if err != nil {
			logger.Warn("dropping busy period with bad start", "start", p.Start, "error", err)
			continue
		}
		end, err := time.Parse(time.RFC3339, p.End)
		if err != nil {
			logger.Warn("dropping busy period with bad end", "end", p.End, "error", err)
			continue
		}
		intervals = append(intervals, schedule.TimeInterval{Start: start, End: end})
	}
	return intervals
}

// AppointmentEvent describes a calendar event for a confirmed booking.
// No attendees are attached: service accounts cannot invite guests
// without domain-wide delegation, so confirmation goes out by email.
type AppointmentEvent struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Slot          schedule.TimeInterval
	TransactionID string
}

// CreateEvent writes the appointment onto the calendar and returns the
// created event id.
func (c *Client) CreateEvent(ctx context.Context, ev AppointmentEvent) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	created, err := c.svc.Events.Insert(c.calendarID, buildEvent(ev)).Context(ctx).Do()
	c.metrics.ObserveUpstreamLatency("insert_event", time.Since(started).Seconds())
	if err != nil {
		return "", fmt.Errorf("gcal: insert event: %w", err)
	}

	c.logger.Info("calendar event created", "event_id", created.Id, "start", ev.Slot.Start)
	return created.Id, nil
}

func buildEvent(ev AppointmentEvent) *calendar.Event {
	return &calendar.Event{
		Summary: fmt.Sprintf("Appointment: %s", ev.CustomerName),
		Description: fmt.Sprintf("Customer: %s\nEmail: %s\nPhone: %s\nTransaction: %s",
			ev.CustomerName, ev.CustomerEmail, ev.CustomerPhone, ev.TransactionID),
		Start: &calendar.EventDateTime{DateTime: ev.Slot.Start.Format(time.RFC3339)},
		End:   &calendar.EventDateTime{DateTime: ev.Slot.End.Format(time.RFC3339)},
	}
}

var _ schedule.BusySource = (*Client)(nil)
