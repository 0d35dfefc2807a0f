package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSlotAvailable(t *testing.T) {
	loc := Zone(330)
	guard := NewConflictGuard(&fakeBusySource{}, loc, nil)

	check, err := guard.CheckSlot(context.Background(), "2025-03-10", "10:00 AM")
	require.NoError(t, err)
	assert.Equal(t, SlotCheck{Date: "2025-03-10", Slot: "10:00 AM", Available: true}, check)
}

func TestCheckSlotBusy(t *testing.T) {
	loc := Zone(330)
	busy := []TimeInterval{{
		Start: time.Date(2025, 3, 10, 10, 0, 0, 0, loc),
		End:   time.Date(2025, 3, 10, 11, 0, 0, 0, loc),
	}}
	guard := NewConflictGuard(&fakeBusySource{busy: busy}, loc, nil)

	check, err := guard.CheckSlot(context.Background(), "2025-03-10", "10:00 AM")
	require.NoError(t, err)
	assert.False(t, check.Available)
	assert.False(t, check.Fallback)
}

func TestCheckSlotFailsOpenOnUpstreamError(t *testing.T) {
	guard := NewConflictGuard(&fakeBusySource{err: errors.New("timeout")}, Zone(330), nil)

	check, err := guard.CheckSlot(context.Background(), "2025-03-10", "10:00 AM")
	require.NoError(t, err, "upstream failure must not block checkout")
	assert.True(t, check.Available)
	assert.True(t, check.Fallback)
}

func TestCheckSlotNilSourceFallsBack(t *testing.T) {
	guard := NewConflictGuard(nil, Zone(330), nil)

	check, err := guard.CheckSlot(context.Background(), "2025-03-10", "10:00 AM")
	require.NoError(t, err)
	assert.True(t, check.Available)
	assert.True(t, check.Fallback)
}

func TestCheckSlotRejectsBadInput(t *testing.T) {
	guard := NewConflictGuard(&fakeBusySource{}, Zone(330), nil)

	_, err := guard.CheckSlot(context.Background(), "10-03-2025", "10:00 AM")
	assert.Error(t, err)

	_, err = guard.CheckSlot(context.Background(), "2025-03-10", "08:00 AM")
	assert.Error(t, err, "label outside the daily template must be rejected")

	_, err = guard.CheckSlot(context.Background(), "2025-03-10", "whenever")
	assert.Error(t, err)
}

func TestCheckSlotQueriesOnlyTheSlotWindow(t *testing.T) {
	loc := Zone(330)
	src := &windowRecordingSource{}
	guard := NewConflictGuard(src, loc, nil)

	_, err := guard.CheckSlot(context.Background(), "2025-03-10", "04:00 PM")
	require.NoError(t, err)

	want := TimeInterval{
		Start: time.Date(2025, 3, 10, 16, 0, 0, 0, loc),
		End:   time.Date(2025, 3, 10, 17, 0, 0, 0, loc),
	}
	require.Len(t, src.windows, 1)
	assert.True(t, src.windows[0].Start.Equal(want.Start))
	assert.True(t, src.windows[0].End.Equal(want.End))
}

type windowRecordingSource struct {
	windows []TimeInterval
}

func (w *windowRecordingSource) BusyIntervals(ctx context.Context, window TimeInterval) ([]TimeInterval, error) {
	w.windows = append(w.windows, window)
	return nil, nil
}
