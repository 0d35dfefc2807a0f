package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SlotDuration is the fixed length of every bookable slot.
const SlotDuration = time.Hour

// TemplateEntry is one candidate start time in the daily slot template.
type TemplateEntry struct {
	Label  string
	Hour   int
	Minute int
}

// DefaultTemplate returns the practice's fixed daily template:
// 11 hourly slots from 09:00 to 19:00 local time.
func DefaultTemplate() []TemplateEntry {
	return []TemplateEntry{
		{Label: "09:00 AM", Hour: 9},
		{Label: "10:00 AM", Hour: 10},
		{Label: "11:00 AM", Hour: 11},
		{Label: "12:00 PM", Hour: 12},
		{Label: "01:00 PM", Hour: 13},
		{Label: "02:00 PM", Hour: 14},
		{Label: "03:00 PM", Hour: 15},
		{Label: "04:00 PM", Hour: 16},
		{Label: "05:00 PM", Hour: 17},
		{Label: "06:00 PM", Hour: 18},
		{Label: "07:00 PM", Hour: 19},
	}
}

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	labelRe = regexp.MustCompile(`^(\d{1,2}):(\d{2}) (AM|PM)$`)
)

// ParseDate parses a YYYY-MM-DD calendar date in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if !dateRe.MatchString(s) {
		return time.Time{}, fmt.Errorf("schedule: invalid date %q, want YYYY-MM-DD", s)
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule: invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseSlotLabel converts a 12-hour-clock label like "04:00 PM" to a
// 24-hour clock. 12 AM maps to hour 0 and 12 PM to hour 12.
func ParseSlotLabel(label string) (hour, minute int, err error) {
	m := labelRe.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return 0, 0, fmt.Errorf("schedule: invalid slot label %q", label)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, 0, fmt.Errorf("schedule: invalid slot label %q", label)
	}
	switch m[3] {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, minute, nil
}

// Zone builds the practice's fixed time zone from a UTC offset in
// minutes. All slot intervals are constructed in this zone; the host
// machine's zone is never consulted.
func Zone(offsetMinutes int) *time.Location {
	sign := "+"
	mins := offsetMinutes
	if mins < 0 {
		sign = "-"
		mins = -mins
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, mins/60, mins%60)
	return time.FixedZone(name, offsetMinutes*60)
}

// SlotInterval constructs the absolute [start, start+SlotDuration)
// interval for a template entry on the given date.
func SlotInterval(date time.Time, entry TemplateEntry, loc *time.Location) TimeInterval {
	start := time.Date(date.Year(), date.Month(), date.Day(), entry.Hour, entry.Minute, 0, 0, loc)
	return TimeInterval{Start: start, End: start.Add(SlotDuration)}
}

// EntryForLabel resolves a slot label against the template.
func EntryForLabel(template []TemplateEntry, label string) (TemplateEntry, error) {
	hour, minute, err := ParseSlotLabel(label)
	if err != nil {
		return TemplateEntry{}, err
	}
	for _, entry := range template {
		if entry.Hour == hour && entry.Minute == minute {
			return entry, nil
		}
	}
	return TemplateEntry{}, fmt.Errorf("schedule: slot %q is not in the daily template", label)
}
