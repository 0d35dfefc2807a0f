package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplate(t *testing.T) {
	template := DefaultTemplate()
	require.Len(t, template, 11)

	assert.Equal(t, "09:00 AM", template[0].Label)
	assert.Equal(t, 9, template[0].Hour)
	assert.Equal(t, "07:00 PM", template[10].Label)
	assert.Equal(t, 19, template[10].Hour)

	// Every label must resolve back to its own entry.
	for _, entry := range template {
		hour, minute, err := ParseSlotLabel(entry.Label)
		require.NoError(t, err, "label %q", entry.Label)
		assert.Equal(t, entry.Hour, hour)
		assert.Equal(t, entry.Minute, minute)
	}
}

func TestParseSlotLabel(t *testing.T) {
	tests := []struct {
		label   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"12:00 AM", 0, 0, false},
		{"12:00 PM", 12, 0, false},
		{"01:00 PM", 13, 0, false},
		{"09:00 AM", 9, 0, false},
		{"11:30 AM", 11, 30, false},
		{"07:00 PM", 19, 0, false},
		{"7:00 PM", 19, 0, false},
		{"  04:00 PM ", 16, 0, false},
		{"25:00 PM", 0, 0, true},
		{"10:75 AM", 0, 0, true},
		{"10:00", 0, 0, true},
		{"morning", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			hour, minute, err := ParseSlotLabel(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
		})
	}
}

func TestParseDate(t *testing.T) {
	loc := Zone(330)

	d, err := ParseDate("2025-03-10", loc)
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 10, d.Day())
	assert.Equal(t, loc, d.Location())

	for _, bad := range []string{"10-03-2025", "2025/03/10", "2025-13-40", "tomorrow", ""} {
		_, err := ParseDate(bad, loc)
		assert.Error(t, err, "date %q", bad)
	}
}

func TestZone(t *testing.T) {
	ist := Zone(330)
	_, offset := time.Date(2025, 3, 10, 0, 0, 0, 0, ist).Zone()
	assert.Equal(t, 330*60, offset)
	assert.Equal(t, "UTC+05:30", ist.String())

	nyc := Zone(-300)
	_, offset = time.Date(2025, 3, 10, 0, 0, 0, 0, nyc).Zone()
	assert.Equal(t, -300*60, offset)
	assert.Equal(t, "UTC-05:00", nyc.String())
}

func TestSlotInterval(t *testing.T) {
	loc := Zone(330)
	date, err := ParseDate("2025-03-10", loc)
	require.NoError(t, err)

	iv := SlotInterval(date, TemplateEntry{Label: "04:00 PM", Hour: 16}, loc)
	assert.Equal(t, "2025-03-10T16:00:00+05:30", iv.Start.Format(time.RFC3339))
	assert.Equal(t, "2025-03-10T17:00:00+05:30", iv.End.Format(time.RFC3339))
	assert.Equal(t, SlotDuration, iv.End.Sub(iv.Start))
}

func TestEntryForLabel(t *testing.T) {
	template := DefaultTemplate()

	entry, err := EntryForLabel(template, "02:00 PM")
	require.NoError(t, err)
	assert.Equal(t, 14, entry.Hour)

	// Parseable but not in the daily template.
	_, err = EntryForLabel(template, "08:00 AM")
	assert.Error(t, err)

	_, err = EntryForLabel(template, "lunchtime")
	assert.Error(t, err)
}
