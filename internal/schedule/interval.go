package schedule

import "time"

// TimeInterval is a half-open [Start, End) span of absolute time.
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsValid reports whether the interval is well-formed. Zero-length and
// inverted intervals are invalid; upstream calendars occasionally emit
// both and they must never mark a slot busy.
func (iv TimeInterval) IsValid() bool {
	return !iv.Start.IsZero() && !iv.End.IsZero() && iv.Start.Before(iv.End)
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not count as overlap: a busy block ending exactly at a
// slot's start leaves the slot free.
func (iv TimeInterval) Overlaps(other TimeInterval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}
