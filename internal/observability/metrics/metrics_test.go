package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveAvailability("live")
	m.ObserveAvailability("live")
	m.ObserveAvailability("degraded")
	m.ObserveSlotCheck("available")
	m.ObserveBooking("conflict")
	m.ObserveStageFailure("calendar")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.availabilityTotal.WithLabelValues("live")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.availabilityTotal.WithLabelValues("degraded")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.slotChecksTotal.WithLabelValues("available")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bookingsTotal.WithLabelValues("conflict")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.stageFailures.WithLabelValues("calendar")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *BookingMetrics
	assert.NotPanics(t, func() {
		m.ObserveAvailability("live")
		m.ObserveSlotCheck("busy")
		m.ObserveBooking("confirmed")
		m.ObserveStageFailure("notify")
		m.ObserveUpstreamLatency("freebusy", 0.1)
	})
}
