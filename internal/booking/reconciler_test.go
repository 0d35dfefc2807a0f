package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvita-clinic/booking-api/internal/gcal"
	"github.com/anvita-clinic/booking-api/internal/notify"
	"github.com/anvita-clinic/booking-api/internal/schedule"
)

var testZone = schedule.Zone(330)

type fakeBusySource struct {
	busy []schedule.TimeInterval
	err  error
}

func (f *fakeBusySource) BusyIntervals(ctx context.Context, window schedule.TimeInterval) ([]schedule.TimeInterval, error) {
	return f.busy, f.err
}

type fakeEventCreator struct {
	id   string
	err  error
	last *gcal.AppointmentEvent
}

func (f *fakeEventCreator) CreateEvent(ctx context.Context, ev gcal.AppointmentEvent) (string, error) {
	f.last = &ev
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}

type fakeRecorder struct {
	id   uuid.UUID
	err  error
	last *Record
}

func (f *fakeRecorder) Insert(ctx context.Context, rec Record) (uuid.UUID, error) {
	f.last = &rec
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return f.id, nil
}

type fakeNotifier struct {
	err  error
	last *notify.BookingConfirmation
}

func (f *fakeNotifier) SendBookingConfirmation(ctx context.Context, c notify.BookingConfirmation) error {
	f.last = &c
	return f.err
}

func validRequest() Request {
	return Request{
		Name:          "Asha Rao",
		Email:         "asha@example.com",
		Phone:         "+91 98765 43210",
		Date:          "2025-03-10",
		Slot:          "04:00 PM",
		Currency:      "INR",
		Amount:        1500,
		TransactionID: "tx_123",
	}
}

func TestReconcileHappyPath(t *testing.T) {
	source := &fakeBusySource{}
	events := &fakeEventCreator{id: "evt_1"}
	recorder := &fakeRecorder{id: uuid.New()}
	notifier := &fakeNotifier{}
	rec := NewReconciler(source, events, recorder, notifier, testZone, nil, nil)

	outcome, err := rec.Reconcile(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.False(t, outcome.Conflict)
	assert.Equal(t, "evt_1", outcome.CalendarEventID)
	assert.Equal(t, recorder.id.String(), outcome.BookingID)
	assert.Equal(t, "tx_123", outcome.TransactionID)
	assert.Empty(t, outcome.Errors)

	require.NotNil(t, events.last)
	assert.Equal(t, 16, events.last.Slot.Start.Hour())
	require.NotNil(t, recorder.last)
	assert.Equal(t, "evt_1", recorder.last.CalendarEventID)
	require.NotNil(t, notifier.last)
	assert.Equal(t, int64(1500), notifier.last.Amount)
}

func TestReconcileConflictFailsClosed(t *testing.T) {
	day, err := schedule.ParseDate("2025-03-10", testZone)
	require.NoError(t, err)
	busy := schedule.TimeInterval{
		Start: time.Date(day.Year(), day.Month(), day.Day(), 16, 30, 0, 0, testZone),
		End:   time.Date(day.Year(), day.Month(), day.Day(), 17, 30, 0, 0, testZone),
	}
	source := &fakeBusySource{busy: []schedule.TimeInterval{busy}}
	events := &fakeEventCreator{id: "evt_1"}
	notifier := &fakeNotifier{}
	rec := NewReconciler(source, events, &fakeRecorder{}, notifier, testZone, nil, nil)

	outcome, err := rec.Reconcile(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, outcome.Conflict)
	assert.False(t, outcome.Success)
	assert.Equal(t, "tx_123", outcome.TransactionID)
	// Nothing downstream runs once the conflict is detected.
	assert.Nil(t, events.last)
	assert.Nil(t, notifier.last)
}

func TestReconcileUnreachableCalendarProceeds(t *testing.T) {
	source := &fakeBusySource{err: errors.New("freebusy timeout")}
	events := &fakeEventCreator{err: errors.New("insert timeout")}
	notifier := &fakeNotifier{}
	rec := NewReconciler(source, events, &fakeRecorder{id: uuid.New()}, notifier, testZone, nil, nil)

	outcome, err := rec.Reconcile(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.False(t, outcome.Conflict)
	assert.Empty(t, outcome.CalendarEventID)
	require.Len(t, outcome.Errors, 2)
	assert.Equal(t, "availability", outcome.Errors[0].Stage)
	assert.Equal(t, "calendar", outcome.Errors[1].Stage)
	// The customer still gets their confirmation.
	assert.NotNil(t, notifier.last)
}

func TestReconcilePersistenceFailureIsNonFatal(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("connection refused")}
	notifier := &fakeNotifier{}
	rec := NewReconciler(&fakeBusySource{}, &fakeEventCreator{id: "evt_1"}, recorder, notifier, testZone, nil, nil)

	outcome, err := rec.Reconcile(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Empty(t, outcome.BookingID)
	assert.Equal(t, "evt_1", outcome.CalendarEventID)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, "persistence", outcome.Errors[0].Stage)
}

func TestReconcileNotificationFailureIsFatal(t *testing.T) {
	recorder := &fakeRecorder{id: uuid.New()}
	notifier := &fakeNotifier{err: errors.New("sendgrid 500")}
	rec := NewReconciler(&fakeBusySource{}, &fakeEventCreator{id: "evt_1"}, recorder, notifier, testZone, nil, nil)

	outcome, err := rec.Reconcile(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.False(t, outcome.Conflict)
	// The ids are preserved so the failure can be repaired by hand.
	assert.Equal(t, "evt_1", outcome.CalendarEventID)
	assert.Equal(t, recorder.id.String(), outcome.BookingID)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, "notification", outcome.Errors[0].Stage)
}

func TestReconcileWithoutOptionalDependencies(t *testing.T) {
	// No calendar, no database: demo deployments still confirm bookings
	// as long as emails go out.
	notifier := &fakeNotifier{}
	rec := NewReconciler(nil, nil, nil, notifier, testZone, nil, nil)

	outcome, err := rec.Reconcile(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Empty(t, outcome.CalendarEventID)
	assert.Empty(t, outcome.BookingID)
	assert.Empty(t, outcome.Errors)
}

func TestReconcileRejectsInvalidInput(t *testing.T) {
	rec := NewReconciler(nil, nil, nil, &fakeNotifier{}, testZone, nil, nil)

	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing name", func(r *Request) { r.Name = "" }},
		{"missing email", func(r *Request) { r.Email = "" }},
		{"missing transaction", func(r *Request) { r.TransactionID = "" }},
		{"bad date", func(r *Request) { r.Date = "10-03-2025" }},
		{"unknown slot", func(r *Request) { r.Slot = "08:00 AM" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := rec.Reconcile(context.Background(), req)
			assert.Error(t, err)
		})
	}
}

func TestReconcileTouchingBusyIntervalIsNotConflict(t *testing.T) {
	day, err := schedule.ParseDate("2025-03-10", testZone)
	require.NoError(t, err)
	// Busy until exactly 16:00; the 04:00 PM slot starts at 16:00.
	busy := schedule.TimeInterval{
		Start: time.Date(day.Year(), day.Month(), day.Day(), 15, 0, 0, 0, testZone),
		End:   time.Date(day.Year(), day.Month(), day.Day(), 16, 0, 0, 0, testZone),
	}
	rec := NewReconciler(&fakeBusySource{busy: []schedule.TimeInterval{busy}}, nil, nil, &fakeNotifier{}, testZone, nil, nil)

	outcome, err := rec.Reconcile(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.False(t, outcome.Conflict)
}
