package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/anvita-clinic/booking-api/internal/gcal"
	"github.com/anvita-clinic/booking-api/internal/notify"
	"github.com/anvita-clinic/booking-api/internal/observability/metrics"
	"github.com/anvita-clinic/booking-api/internal/schedule"
	"github.com/anvita-clinic/booking-api/pkg/logging"
)

var bookingTracer = otel.Tracer("booking-api.internal.booking")

// EventCreator writes a confirmed appointment onto the calendar.
type EventCreator interface {
	CreateEvent(ctx context.Context, ev gcal.AppointmentEvent) (string, error)
}

// Recorder persists booking records.
type Recorder interface {
	Insert(ctx context.Context, rec Record) (uuid.UUID, error)
}

// Notifier sends the confirmation emails.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, c notify.BookingConfirmation) error
}

// Reconciler finalizes bookings after payment has already been
// captured. Because the customer's money is committed, most stage
// failures are recorded and reported rather than aborting the booking.
// The exceptions are a detected calendar conflict, which fails the
// booking outright, and a notification failure, which fails it because
// the confirmation email is the customer's only receipt.
type Reconciler struct {
	source   schedule.BusySource
	events   EventCreator
	repo     Recorder
	notifier Notifier
	template []schedule.TemplateEntry
	loc      *time.Location
	logger   *logging.Logger
	metrics  *metrics.BookingMetrics
}

// NewReconciler wires the booking pipeline. Any of source, events, repo
// and notifier may be nil; the corresponding stage is skipped (source
// and events) or reported as a stage error (notifier is required for
// success).
func NewReconciler(source schedule.BusySource, events EventCreator, repo Recorder, notifier Notifier, loc *time.Location, logger *logging.Logger, m *metrics.BookingMetrics) *Reconciler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Reconciler{
		source:   source,
		events:   events,
		repo:     repo,
		notifier: notifier,
		template: schedule.DefaultTemplate(),
		loc:      loc,
		logger:   logger,
		metrics:  m,
	}
}

// Reconcile runs the post-payment pipeline: conflict re-check, calendar
// event, persistence, notifications. It returns an error only for
// invalid input; every operational failure is expressed through the
// Outcome so the caller can report it alongside the transaction id.
func (r *Reconciler) Reconcile(ctx context.Context, req Request) (*Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	day, err := schedule.ParseDate(req.Date, r.loc)
	if err != nil {
		return nil, err
	}
	entry, err := schedule.EntryForLabel(r.template, req.Slot)
	if err != nil {
		return nil, err
	}

	ctx, span := bookingTracer.Start(ctx, "booking.reconcile")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.date", req.Date),
		attribute.String("booking.slot", req.Slot),
		attribute.String("booking.transaction_id", req.TransactionID),
	)

	outcome := &Outcome{TransactionID: req.TransactionID}
	slot := schedule.SlotInterval(day, entry, r.loc)

	// The definitive conflict check. The pre-payment guard fails open,
	// so a double booking can still reach this point; a conflict seen
	// here fails the booking. An unreachable calendar does not: the
	// customer has paid, so we proceed and flag the stage.
	if r.source != nil {
		busy, err := r.source.BusyIntervals(ctx, slot)
		if err != nil {
			r.logger.Error("post-payment conflict check failed, proceeding", "error", err, "transaction_id", req.TransactionID)
			r.metrics.ObserveStageFailure("availability")
			outcome.Errors = append(outcome.Errors, StageError{Stage: "availability", Message: err.Error()})
		} else if overlapsAny(busy, slot) {
			r.logger.Warn("slot taken between payment and confirmation", "date", req.Date, "slot", req.Slot, "transaction_id", req.TransactionID)
			r.metrics.ObserveBooking("conflict")
			outcome.Conflict = true
			span.SetAttributes(attribute.Bool("booking.conflict", true))
			return outcome, nil
		}
	}

	if r.events != nil {
		eventID, err := r.events.CreateEvent(ctx, gcal.AppointmentEvent{
			CustomerName:  req.Name,
			CustomerEmail: req.Email,
			CustomerPhone: req.Phone,
			Slot:          slot,
			TransactionID: req.TransactionID,
		})
		if err != nil {
			r.logger.Error("calendar event creation failed", "error", err, "transaction_id", req.TransactionID)
			r.metrics.ObserveStageFailure("calendar")
			outcome.Errors = append(outcome.Errors, StageError{Stage: "calendar", Message: err.Error()})
		} else {
			outcome.CalendarEventID = eventID
		}
	}

	if r.repo != nil {
		id, err := r.repo.Insert(ctx, Record{
			CustomerName:    req.Name,
			CustomerEmail:   req.Email,
			CustomerPhone:   req.Phone,
			AppointmentDate: req.Date,
			SlotLabel:       req.Slot,
			Currency:        req.Currency,
			Amount:          req.Amount,
			TransactionID:   req.TransactionID,
			CalendarEventID: outcome.CalendarEventID,
		})
		if err != nil {
			r.logger.Error("booking persistence failed", "error", err, "transaction_id", req.TransactionID)
			r.metrics.ObserveStageFailure("persistence")
			outcome.Errors = append(outcome.Errors, StageError{Stage: "persistence", Message: err.Error()})
		} else {
			outcome.BookingID = id.String()
		}
	}

	if r.notifier == nil {
		r.metrics.ObserveStageFailure("notification")
		outcome.Errors = append(outcome.Errors, StageError{Stage: "notification", Message: "no notifier configured"})
		r.metrics.ObserveBooking("notify_failed")
		return outcome, nil
	}
	if err := r.notifier.SendBookingConfirmation(ctx, notify.BookingConfirmation{
		CustomerName:  req.Name,
		CustomerEmail: req.Email,
		CustomerPhone: req.Phone,
		Date:          req.Date,
		Slot:          req.Slot,
		Currency:      req.Currency,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
	}); err != nil {
		r.logger.Error("booking confirmation emails failed", "error", err, "transaction_id", req.TransactionID)
		r.metrics.ObserveStageFailure("notification")
		outcome.Errors = append(outcome.Errors, StageError{Stage: "notification", Message: err.Error()})
		r.metrics.ObserveBooking("notify_failed")
		return outcome, nil
	}

	outcome.Success = true
	r.metrics.ObserveBooking("confirmed")
	r.logger.Info("booking confirmed",
		"date", req.Date,
		"slot", req.Slot,
		"transaction_id", req.TransactionID,
		"calendar_event_id", outcome.CalendarEventID,
		"booking_id", outcome.BookingID,
		"stage_errors", len(outcome.Errors),
	)
	return outcome, nil
}

func overlapsAny(busy []schedule.TimeInterval, slot schedule.TimeInterval) bool {
	for _, b := range busy {
		if !b.IsValid() {
			continue
		}
		if b.Overlaps(slot) {
			return true
		}
	}
	return false
}
