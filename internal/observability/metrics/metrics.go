package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the availability and
// booking flows.
type BookingMetrics struct {
	availabilityTotal *prometheus.CounterVec
	slotChecksTotal   *prometheus.CounterVec
	bookingsTotal     *prometheus.CounterVec
	stageFailures     *prometheus.CounterVec
	upstreamLatency   *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "availability",
			Name:      "requests_total",
			Help:      "Availability queries served, by mode (live or degraded)",
		}, []string{"mode"}),
		slotChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "availability",
			Name:      "slot_checks_total",
			Help:      "Pre-payment single-slot checks, by result",
		}, []string{"result"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "reconcile",
			Name:      "bookings_total",
			Help:      "Booking finalizations, by outcome (confirmed, conflict, failed)",
		}, []string{"outcome"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "reconcile",
			Name:      "stage_failures_total",
			Help:      "Non-fatal and fatal stage failures during booking reconciliation",
		}, []string{"stage"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "booking",
			Subsystem: "calendar",
			Name:      "upstream_latency_seconds",
			Help:      "Latency of Google Calendar calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.slotChecksTotal, m.bookingsTotal, m.stageFailures, m.upstreamLatency)
	return m
}

func (m *BookingMetrics) ObserveAvailability(mode string) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(mode).Inc()
}

func (m *BookingMetrics) ObserveSlotCheck(result string) {
	if m == nil {
		return
	}
	m.slotChecksTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveStageFailure(stage string) {
	if m == nil {
		return
	}
	m.stageFailures.WithLabelValues(stage).Inc()
}

func (m *BookingMetrics) ObserveUpstreamLatency(op string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(op).Observe(seconds)
}
