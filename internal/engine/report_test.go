package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailySeries_BuildsConsecutiveDays(t *testing.T) {
	now := ts(2025, time.June, 12, 12, 0)
	intervals := []Interval{
		{ID: "a", SubjectID: 1, Start: ts(2025, time.June, 11, 9, 0), End: ts(2025, time.June, 11, 10, 0)},
		{ID: "b", SubjectID: 1, Start: ts(2025, time.June, 12, 9, 0), End: ts(2025, time.June, 12, 11, 0)},
	}
	series := DailySeries(intervals, 3, d(2025, time.June, 12), time.UTC, now)
	require.Len(t, series, 3)

	assert.Equal(t, d(2025, time.June, 10), series[0].Date)
	assert.Equal(t, d(2025, time.June, 11), series[1].Date)
	assert.Equal(t, d(2025, time.June, 12), series[2].Date)

	assert.Equal(t, int64(0), series[0].Seconds)
	assert.Equal(t, int64(3600), series[1].Seconds)
	assert.Equal(t, int64(7200), series[2].Seconds)

	// Percent is relative to the series max, not to 24h.
	assert.Equal(t, float64(0), series[0].Percent)
	assert.Equal(t, float64(50), series[1].Percent)
	assert.Equal(t, float64(100), series[2].Percent)
}

func TestDailySeries_AllZero(t *testing.T) {
	now := ts(2025, time.June, 12, 12, 0)
	series := DailySeries(nil, 7, d(2025, time.June, 12), time.UTC, now)
	require.Len(t, series, 7)
	for _, day := range series {
		assert.Equal(t, int64(0), day.Seconds)
		assert.Equal(t, float64(0), day.Percent, "no division by a zero max")
	}
}

func TestRangeSeries_SwapsReversedRange(t *testing.T) {
	now := ts(2025, time.June, 12, 12, 0)
	series := RangeSeries(nil, d(2025, time.June, 12), d(2025, time.June, 10), time.UTC, now)
	require.Len(t, series, 3)
	assert.Equal(t, d(2025, time.June, 10), series[0].Date)
	assert.Equal(t, d(2025, time.June, 12), series[2].Date)
}

// TestRangeSeries_LocalZoneBoundaries pins the timezone contract: an
// interval late in the UTC evening belongs to the next local day in a
// zone east of UTC.
func TestRangeSeries_LocalZoneBoundaries(t *testing.T) {
	loc := mustLoc(t, "Europe/Berlin")
	now := ts(2025, time.June, 12, 12, 0)
	intervals := []Interval{
		// 23:00 UTC June 10 = 01:00 local June 11.
		{ID: "a", SubjectID: 1, Start: ts(2025, time.June, 10, 23, 0), End: ts(2025, time.June, 10, 23, 30)},
	}
	series := RangeSeries(intervals, d(2025, time.June, 10), d(2025, time.June, 11), loc, now)
	require.Len(t, series, 2)
	assert.Equal(t, int64(0), series[0].Seconds)
	assert.Equal(t, int64(1800), series[1].Seconds)
}

func TestGroupedDistribution(t *testing.T) {
	now := ts(2025, time.June, 12, 0, 0)
	start := ts(2025, time.June, 10, 0, 0)
	end := ts(2025, time.June, 11, 0, 0)
	entries := []GroupedInterval{
		{Interval: Interval{ID: "a", SubjectID: 1, Start: ts(2025, time.June, 10, 9, 0), End: ts(2025, time.June, 10, 10, 0)}, Key: "Deep Work"},
		{Interval: Interval{ID: "b", SubjectID: 2, Start: ts(2025, time.June, 10, 10, 0), End: ts(2025, time.June, 10, 13, 0)}, Key: "Chores"},
		{Interval: Interval{ID: "c", SubjectID: 3, Start: ts(2025, time.June, 10, 14, 0), End: ts(2025, time.June, 10, 15, 0)}, Key: ""},
	}
	groups, total := GroupedDistribution(entries, start, end, now, "Unassigned")
	require.Len(t, groups, 3)
	assert.Equal(t, int64(5*3600), total)

	// Sorted descending by seconds.
	assert.Equal(t, "Chores", groups[0].Label)
	assert.Equal(t, int64(3*3600), groups[0].Seconds)
	assert.Equal(t, float64(60), groups[0].Percent)

	// Empty key folds into the fallback label.
	labels := []string{groups[0].Label, groups[1].Label, groups[2].Label}
	assert.Contains(t, labels, "Unassigned")
}

func TestGroupedDistribution_TieBreaksByLabel(t *testing.T) {
	now := ts(2025, time.June, 12, 0, 0)
	start := ts(2025, time.June, 10, 0, 0)
	end := ts(2025, time.June, 11, 0, 0)
	entries := []GroupedInterval{
		{Interval: Interval{ID: "a", SubjectID: 1, Start: ts(2025, time.June, 10, 9, 0), End: ts(2025, time.June, 10, 10, 0)}, Key: "beta"},
		{Interval: Interval{ID: "b", SubjectID: 2, Start: ts(2025, time.June, 10, 10, 0), End: ts(2025, time.June, 10, 11, 0)}, Key: "alpha"},
	}
	groups, _ := GroupedDistribution(entries, start, end, now, "x")
	require.Len(t, groups, 2)
	assert.Equal(t, "alpha", groups[0].Label)
	assert.Equal(t, "beta", groups[1].Label)
}

func TestGroupedDistribution_EmptyWindow(t *testing.T) {
	now := ts(2025, time.June, 12, 0, 0)
	groups, total := GroupedDistribution(nil, ts(2025, time.June, 10, 0, 0), ts(2025, time.June, 11, 0, 0), now, "x")
	assert.Empty(t, groups)
	assert.Equal(t, int64(0), total)
}

// TestGroupedDistribution_NormalizesKeys verifies that composed and
// decomposed spellings of the same label accumulate into one row.
func TestGroupedDistribution_NormalizesKeys(t *testing.T) {
	now := ts(2025, time.June, 12, 0, 0)
	start := ts(2025, time.June, 10, 0, 0)
	end := ts(2025, time.June, 11, 0, 0)
	entries := []GroupedInterval{
		// "é" precomposed (U+00E9) vs "e"+combining acute (U+0301).
		{Interval: Interval{ID: "a", SubjectID: 1, Start: ts(2025, time.June, 10, 9, 0), End: ts(2025, time.June, 10, 10, 0)}, Key: "café"},
		{Interval: Interval{ID: "b", SubjectID: 2, Start: ts(2025, time.June, 10, 10, 0), End: ts(2025, time.June, 10, 11, 0)}, Key: "café"},
	}
	groups, total := GroupedDistribution(entries, start, end, now, "x")
	require.Len(t, groups, 1)
	assert.Equal(t, int64(7200), groups[0].Seconds)
	assert.Equal(t, int64(7200), total)
}

func TestRollingWindow(t *testing.T) {
	now := ts(2025, time.June, 10, 12, 0)
	intervals := []Interval{
		// Two hours inside the window, one before it.
		{ID: "a", SubjectID: 1, Start: ts(2025, time.June, 9, 11, 0), End: ts(2025, time.June, 9, 14, 0)},
	}
	start := now.Add(-24 * time.Hour)
	assert.Equal(t, int64(7200), RollingWindow(intervals, start, now, now))
}

func TestAverageDailyHours(t *testing.T) {
	assert.InDelta(t, 1.0, AverageDailyHours(7*3600, 7), 1e-9)
	assert.InDelta(t, 2.0, AverageDailyHours(7200, 0), 1e-9, "day count floors at 1")
	assert.Equal(t, 0.0, AverageDailyHours(0, 7))
}
