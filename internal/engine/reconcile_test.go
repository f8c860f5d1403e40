package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_NoOpenIntervals(t *testing.T) {
	now := ts(2025, time.June, 10, 12, 0)
	today := ts(2025, time.June, 10, 0, 0)
	closed := []Interval{
		{ID: "a", Start: ts(2025, time.June, 9, 9, 0), End: ts(2025, time.June, 9, 10, 0)},
	}
	assert.Empty(t, Reconcile(closed, today, now, 25*time.Minute))
}

func TestReconcile_FreshIntervalUntouched(t *testing.T) {
	now := ts(2025, time.June, 10, 12, 0)
	today := ts(2025, time.June, 10, 0, 0)
	open := []Interval{
		{ID: "a", Start: ts(2025, time.June, 10, 11, 50)}, // 10 minutes old
	}
	assert.Empty(t, Reconcile(open, today, now, 25*time.Minute))
}

func TestReconcile_DayBoundaryClip(t *testing.T) {
	now := ts(2025, time.June, 10, 0, 10)
	today := ts(2025, time.June, 10, 0, 0)
	open := []Interval{
		// Started yesterday, still within the duration cap.
		{ID: "a", Start: ts(2025, time.June, 9, 23, 50)},
	}
	proposals := Reconcile(open, today, now, 25*time.Minute)
	require.Len(t, proposals, 1)
	assert.Equal(t, "a", proposals[0].IntervalID)
	assert.Equal(t, today, proposals[0].End)
}

func TestReconcile_DurationCap(t *testing.T) {
	now := ts(2025, time.June, 10, 12, 0)
	today := ts(2025, time.June, 10, 0, 0)
	open := []Interval{
		{ID: "a", Start: ts(2025, time.June, 10, 9, 0)}, // 3 hours running
	}
	proposals := Reconcile(open, today, now, 25*time.Minute)
	require.Len(t, proposals, 1)
	assert.Equal(t, ts(2025, time.June, 10, 9, 25), proposals[0].End)
}

// TestReconcile_CapBeforeDayBoundary: open since
// Monday 23:00, now Tuesday 01:00, cap 25 minutes. The cap bound
// (Mon 23:25) precedes the day boundary (Tue 00:00) and wins.
func TestReconcile_CapBeforeDayBoundary(t *testing.T) {
	now := ts(2025, time.June, 10, 1, 0)   // Tuesday 01:00
	today := ts(2025, time.June, 10, 0, 0) // Tuesday local midnight
	open := []Interval{
		{ID: "a", Start: ts(2025, time.June, 9, 23, 0)}, // Monday 23:00
	}
	proposals := Reconcile(open, today, now, 25*time.Minute)
	require.Len(t, proposals, 1)
	assert.Equal(t, ts(2025, time.June, 9, 23, 25), proposals[0].End)
}

func TestReconcile_DayBoundaryBeforeCap(t *testing.T) {
	now := ts(2025, time.June, 10, 0, 10)
	today := ts(2025, time.June, 10, 0, 0)
	open := []Interval{
		// Started 23:58 Monday; cap bound 00:23 Tuesday, day bound wins.
		{ID: "a", Start: ts(2025, time.June, 9, 23, 58)},
	}
	// Duration cap also applies (12m >= 10m) but the day bound is earlier.
	proposals := Reconcile(open, today, now, 10*time.Minute)
	require.Len(t, proposals, 1)
	assert.Equal(t, today, proposals[0].End)
}

// TestReconcile_Idempotent applies the proposed ends and re-runs: the
// now-closed intervals must produce no further proposals.
func TestReconcile_Idempotent(t *testing.T) {
	now := ts(2025, time.June, 10, 12, 0)
	today := ts(2025, time.June, 10, 0, 0)
	open := []Interval{
		{ID: "a", Start: ts(2025, time.June, 9, 23, 0)},
		{ID: "b", Start: ts(2025, time.June, 10, 8, 0)},
	}
	proposals := Reconcile(open, today, now, 25*time.Minute)
	require.Len(t, proposals, 2)

	byID := map[string]time.Time{}
	for _, p := range proposals {
		byID[p.IntervalID] = p.End
	}
	for i := range open {
		if end, ok := byID[open[i].ID]; ok {
			open[i].End = end
		}
	}
	assert.Empty(t, Reconcile(open, today, now, 25*time.Minute))
}

func TestReconcile_CapDisabled(t *testing.T) {
	now := ts(2025, time.June, 10, 12, 0)
	today := ts(2025, time.June, 10, 0, 0)
	open := []Interval{
		{ID: "a", Start: ts(2025, time.June, 10, 1, 0)}, // 11 hours, same day
	}
	assert.Empty(t, Reconcile(open, today, now, 0))
}

func TestReconcile_SortedByIntervalID(t *testing.T) {
	now := ts(2025, time.June, 10, 12, 0)
	today := ts(2025, time.June, 10, 0, 0)
	open := []Interval{
		{ID: "b", Start: ts(2025, time.June, 10, 8, 0)},
		{ID: "a", Start: ts(2025, time.June, 10, 9, 0)},
	}
	proposals := Reconcile(open, today, now, 25*time.Minute)
	require.Len(t, proposals, 2)
	assert.Equal(t, "a", proposals[0].IntervalID)
	assert.Equal(t, "b", proposals[1].IntervalID)
}
