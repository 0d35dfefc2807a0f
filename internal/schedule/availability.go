package schedule

import (
	"context"
	"time"

	"github.com/anvita-clinic/booking-api/pkg/logging"
)

// BusySource returns the busy intervals on the practitioner's calendar
// that overlap the given window. Implementations are I/O boundaries
// (Google Calendar, a cache in front of it, fakes in tests).
type BusySource interface {
	BusyIntervals(ctx context.Context, window TimeInterval) ([]TimeInterval, error)
}

// SlotStatus is one template slot's availability on a particular date.
type SlotStatus struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Availability is the result of an availability computation over a
// contiguous date range.
type Availability struct {
	StartDate string                  `json:"startDate"`
	Days      int                     `json:"days"`
	Slots     map[string][]SlotStatus `json:"availability"`
	// Degraded is set when the busy source was unreachable or not
	// configured and every slot was assumed available.
	Degraded bool `json:"demo"`
}

// Calculator computes per-slot availability from calendar busy
// intervals. It is a pure function of (template, range, busy
// intervals); the only side channel is the degraded-mode flag.
type Calculator struct {
	source        BusySource
	template      []TemplateEntry
	loc           *time.Location
	maxWindowDays int
	hidePastSlots bool
	logger        *logging.Logger
}

// CalculatorOption customizes a Calculator.
type CalculatorOption func(*Calculator)

// WithMaxWindowDays caps the range length a single request may cover.
func WithMaxWindowDays(days int) CalculatorOption {
	return func(c *Calculator) {
		if days > 0 {
			c.maxWindowDays = days
		}
	}
}

// WithHidePastSlots drops slots whose start time has already passed.
func WithHidePastSlots(hide bool) CalculatorOption {
	return func(c *Calculator) { c.hidePastSlots = hide }
}

// NewCalculator builds a Calculator. A nil source puts the calculator
// permanently in degraded mode (every slot available) — the demo
// behavior when the calendar integration is unconfigured.
func NewCalculator(source BusySource, loc *time.Location, logger *logging.Logger, opts ...CalculatorOption) *Calculator {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Calculator{
		source:        source,
		template:      DefaultTemplate(),
		loc:           loc,
		maxWindowDays: 60,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClampDays bounds a requested range length to [1, maxWindowDays].
func (c *Calculator) ClampDays(days int) int {
	if days < 1 {
		return 1
	}
	if days > c.maxWindowDays {
		return c.maxWindowDays
	}
	return days
}

// ComputeRange computes availability for `days` consecutive dates
// starting at startDate (YYYY-MM-DD). It never fails on upstream
// errors: an unreachable busy source degrades to all-available with
// the Degraded flag set, so the caller can surface demo mode.
func (c *Calculator) ComputeRange(ctx context.Context, startDate string, days int, now time.Time) (*Availability, error) {
	start, err := ParseDate(startDate, c.loc)
	if err != nil {
		return nil, err
	}
	days = c.ClampDays(days)

	result := &Availability{
		StartDate: startDate,
		Days:      days,
		Slots:     make(map[string][]SlotStatus, days),
	}

	busy, err := c.fetchBusy(ctx, start, days)
	if err != nil || c.source == nil {
		if err != nil {
			c.logger.Warn("busy-interval fetch failed, serving all slots as available", "error", err, "start_date", startDate, "days", days)
		}
		result.Degraded = true
		busy = nil
	}

	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		result.Slots[date.Format("2006-01-02")] = c.slotsForDay(date, busy, now)
	}
	return result, nil
}

func (c *Calculator) fetchBusy(ctx context.Context, start time.Time, days int) ([]TimeInterval, error) {
	if c.source == nil {
		return nil, nil
	}
	window := TimeInterval{Start: start, End: start.AddDate(0, 0, days)}
	return c.source.BusyIntervals(ctx, window)
}

func (c *Calculator) slotsForDay(date time.Time, busy []TimeInterval, now time.Time) []SlotStatus {
	slots := make([]SlotStatus, 0, len(c.template))
	for _, entry := range c.template {
		interval := SlotInterval(date, entry, c.loc)
		if c.hidePastSlots && !interval.Start.After(now) {
			continue
		}
		slots = append(slots, SlotStatus{
			Time:      entry.Label,
			Available: !anyOverlap(busy, interval),
		})
	}
	return slots
}

// anyOverlap reports whether any well-formed busy interval intersects
// the slot. Malformed upstream intervals are ignored rather than
// allowed to poison the whole day.
func anyOverlap(busy []TimeInterval, slot TimeInterval) bool {
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
