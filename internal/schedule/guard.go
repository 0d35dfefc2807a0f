package schedule

import (
	"context"
	"time"

	"github.com/anvita-clinic/booking-api/pkg/logging"
)

// SlotCheck is the result of a single-slot availability re-check.
type SlotCheck struct {
	Date      string `json:"date"`
	Slot      string `json:"slot"`
	Available bool   `json:"available"`
	// Fallback is set when the check itself failed and availability
	// was assumed. The definitive check happens at booking
	// finalization.
	Fallback bool `json:"fallback,omitempty"`
}

// ConflictGuard re-checks one slot immediately before payment to
// shrink the window between "customer viewed availability" and
// "customer pays". It fails open: a transient calendar outage must not
// block checkout.
type ConflictGuard struct {
	source   BusySource
	template []TemplateEntry
	loc      *time.Location
	logger   *logging.Logger
}

// NewConflictGuard builds a guard over the given busy source. A nil
// source always reports available (demo mode).
func NewConflictGuard(source BusySource, loc *time.Location, logger *logging.Logger) *ConflictGuard {
	if logger == nil {
		logger = logging.Default()
	}
	return &ConflictGuard{
		source:   source,
		template: DefaultTemplate(),
		loc:      loc,
		logger:   logger,
	}
}

// CheckSlot returns fresh availability for one date+label pair. Input
// errors (bad date, label not in the template) are returned to the
// caller; upstream errors are not — those degrade to available=true
// with Fallback set.
func (g *ConflictGuard) CheckSlot(ctx context.Context, date, label string) (SlotCheck, error) {
	day, err := ParseDate(date, g.loc)
	if err != nil {
		return SlotCheck{}, err
	}
	entry, err := EntryForLabel(g.template, label)
	if err != nil {
		return SlotCheck{}, err
	}

	check := SlotCheck{Date: date, Slot: label, Available: true}
	if g.source == nil {
		check.Fallback = true
		return check, nil
	}

	slot := SlotInterval(day, entry, g.loc)
	busy, err := g.source.BusyIntervals(ctx, slot)
	if err != nil {
		g.logger.Warn("pre-payment slot check failed, failing open", "error", err, "date", date, "slot", label)
		check.Fallback = true
		return check, nil
	}
	check.Available = !anyOverlap(busy, slot)
	return check, nil
}
