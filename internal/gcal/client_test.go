package gcal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"

	"github.com/anvita-clinic/booking-api/internal/schedule"
	"github.com/anvita-clinic/booking-api/pkg/logging"
)

func TestNewClientUnconfiguredReturnsNil(t *testing.T) {
	client, err := NewClient(context.Background(), Config{}, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, client)

	client, err = NewClient(context.Background(), Config{CalendarID: "primary"}, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, client, "missing key must mean demo mode, not an error")
}

func TestParseBusyPeriods(t *testing.T) {
	logger := logging.Default()
	periods := []*calendar.TimePeriod{
		{Start: "2025-03-10T10:00:00+05:30", End: "2025-03-10T11:00:00+05:30"},
		{Start: "garbage", End: "2025-03-10T12:00:00+05:30"},
		{Start: "2025-03-10T13:00:00+05:30", End: ""},
		nil,
		{Start: "2025-03-10T15:00:00Z", End: "2025-03-10T16:00:00Z"},
	}

	intervals := parseBusyPeriods(periods, logger)
	require.Len(t, intervals, 2)

	want := time.Date(2025, 3, 10, 10, 0, 0, 0, time.FixedZone("", 330*60))
	assert.True(t, intervals[0].Start.Equal(want))
	assert.True(t, intervals[1].End.Equal(time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC)))
}

func TestBuildEvent(t *testing.T) {
	loc := schedule.Zone(330)
	slot := schedule.TimeInterval{
		Start: time.Date(2025, 3, 10, 16, 0, 0, 0, loc),
		End:   time.Date(2025, 3, 10, 17, 0, 0, 0, loc),
	}
	ev := buildEvent(AppointmentEvent{
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "+91 98765 43210",
		Slot:          slot,
		TransactionID: "tx_Razorpay_123",
	})

	assert.Equal(t, "Appointment: Asha Rao", ev.Summary)
	assert.Contains(t, ev.Description, "asha@example.com")
	assert.Contains(t, ev.Description, "tx_Razorpay_123")
	assert.Equal(t, "2025-03-10T16:00:00+05:30", ev.Start.DateTime)
	assert.Equal(t, "2025-03-10T17:00:00+05:30", ev.End.DateTime)
	assert.Empty(t, ev.Attendees, "service-account events must not carry attendee invites")
}
