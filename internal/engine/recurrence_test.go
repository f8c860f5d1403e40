package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// localNow builds an instant in loc for recurrence tests.
func localNow(loc *time.Location, year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}

func TestParseRecurrence(t *testing.T) {
	assert.Equal(t, RecurDaily, ParseRecurrence("daily"))
	assert.Equal(t, RecurWeekly, ParseRecurrence(" Weekly "))
	assert.Equal(t, RecurMonthly, ParseRecurrence("MONTHLY"))
	assert.Equal(t, RecurNone, ParseRecurrence("none"))
	assert.Equal(t, RecurNone, ParseRecurrence("fortnightly"), "unknown degrades to none")
	assert.Equal(t, RecurNone, ParseRecurrence(""))
}

func TestParseWeekdays(t *testing.T) {
	set := ParseWeekdays("mon,thu")
	assert.True(t, set.Has(time.Monday))
	assert.True(t, set.Has(time.Thursday))
	assert.False(t, set.Has(time.Tuesday))

	assert.True(t, ParseWeekdays("Monday, Friday").Has(time.Friday), "full names accepted via prefix")
	assert.True(t, ParseWeekdays("mon,bogus").Has(time.Monday), "bad tokens skipped")
	assert.True(t, ParseWeekdays("").Empty())
}

func TestNextOccurrence_Paused(t *testing.T) {
	now := localNow(time.UTC, 2025, time.June, 10, 10, 0)
	rule := ReminderRule{Recurrence: RecurDaily, Active: false}
	at, status := NextOccurrence(rule, now)
	assert.True(t, at.IsZero())
	assert.Equal(t, StatusPaused, status)
}

func TestNextOccurrence_OneShot(t *testing.T) {
	loc := mustLoc(t, "Europe/Berlin")
	now := localNow(loc, 2025, time.June, 10, 10, 0)
	tod := TimeOfDay{Hour: 9, Minute: 0}

	t.Run("no anchor date", func(t *testing.T) {
		at, status := NextOccurrence(ReminderRule{Recurrence: RecurNone, AnchorTime: tod, Active: true}, now)
		assert.True(t, at.IsZero())
		assert.Equal(t, StatusUnscheduled, status)
	})

	t.Run("future instant upcoming", func(t *testing.T) {
		rule := ReminderRule{Recurrence: RecurNone, AnchorDate: d(2025, time.June, 12), AnchorTime: tod, Active: true}
		at, status := NextOccurrence(rule, now)
		assert.Equal(t, localNow(loc, 2025, time.June, 12, 9, 0), at)
		assert.Equal(t, StatusUpcoming, status)
	})

	t.Run("past instant stays overdue", func(t *testing.T) {
		rule := ReminderRule{Recurrence: RecurNone, AnchorDate: d(2025, time.June, 9), AnchorTime: tod, Active: true}
		at, status := NextOccurrence(rule, now)
		assert.Equal(t, localNow(loc, 2025, time.June, 9, 9, 0), at, "returned, not suppressed")
		assert.Equal(t, StatusOverdue, status)
	})
}

func TestNextOccurrence_Daily(t *testing.T) {
	now := localNow(time.UTC, 2025, time.June, 10, 10, 0)

	t.Run("later today", func(t *testing.T) {
		rule := ReminderRule{Recurrence: RecurDaily, AnchorTime: TimeOfDay{Hour: 18}, Active: true}
		at, status := NextOccurrence(rule, now)
		assert.Equal(t, localNow(time.UTC, 2025, time.June, 10, 18, 0), at)
		assert.Equal(t, StatusUpcoming, status)
	})

	t.Run("time already passed advances a day", func(t *testing.T) {
		rule := ReminderRule{Recurrence: RecurDaily, AnchorTime: TimeOfDay{Hour: 7}, Active: true}
		at, status := NextOccurrence(rule, now)
		assert.Equal(t, localNow(time.UTC, 2025, time.June, 11, 7, 0), at)
		assert.Equal(t, StatusUpcoming, status, "daily rules are never overdue")
	})

	t.Run("future anchor date wins over today", func(t *testing.T) {
		rule := ReminderRule{Recurrence: RecurDaily, AnchorDate: d(2025, time.June, 20), AnchorTime: TimeOfDay{Hour: 7}, Active: true}
		at, _ := NextOccurrence(rule, now)
		assert.Equal(t, localNow(time.UTC, 2025, time.June, 20, 7, 0), at)
	})
}

// TestNextOccurrence_Weekly_MidweekAdvance: weekly {Mon,Thu}, Wednesday
// 10:00 -> Thursday at the anchor time, upcoming.
func TestNextOccurrence_Weekly_MidweekAdvance(t *testing.T) {
	// 2025-06-11 is a Wednesday.
	now := localNow(time.UTC, 2025, time.June, 11, 10, 0)
	rule := ReminderRule{
		Recurrence: RecurWeekly,
		AnchorTime: TimeOfDay{Hour: 9, Minute: 0},
		Weekdays:   ParseWeekdays("mon,thu"),
		Active:     true,
	}
	at, status := NextOccurrence(rule, now)
	assert.Equal(t, localNow(time.UTC, 2025, time.June, 12, 9, 0), at)
	assert.Equal(t, time.Thursday, at.Weekday())
	assert.Equal(t, StatusUpcoming, status)
}

func TestNextOccurrence_Weekly_SameDayLaterTime(t *testing.T) {
	// Wednesday rule, Wednesday 08:00: today still qualifies.
	now := localNow(time.UTC, 2025, time.June, 11, 8, 0)
	rule := ReminderRule{
		Recurrence: RecurWeekly,
		AnchorTime: TimeOfDay{Hour: 9},
		Weekdays:   WeekdaySet(0).Add(time.Wednesday),
		Active:     true,
	}
	at, status := NextOccurrence(rule, now)
	assert.Equal(t, localNow(time.UTC, 2025, time.June, 11, 9, 0), at)
	assert.Equal(t, StatusUpcoming, status)
}

func TestNextOccurrence_Weekly_FallsBackToAnchorWeekday(t *testing.T) {
	now := localNow(time.UTC, 2025, time.June, 11, 10, 0) // Wednesday
	rule := ReminderRule{
		Recurrence: RecurWeekly,
		AnchorDate: d(2025, time.June, 6), // a Friday
		AnchorTime: TimeOfDay{Hour: 9},
		Active:     true,
	}
	at, status := NextOccurrence(rule, now)
	assert.Equal(t, time.Friday, at.Weekday())
	assert.Equal(t, StatusUpcoming, status)
}

// TestNextOccurrence_Weekly_Termination: for every single-weekday set
// and any time of week, the search resolves within 7 days - the second
// search week exists only as slack.
func TestNextOccurrence_Weekly_Termination(t *testing.T) {
	base := localNow(time.UTC, 2025, time.June, 9, 13, 37) // Monday
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		for offset := 0; offset < 7; offset++ {
			now := base.AddDate(0, 0, offset)
			rule := ReminderRule{
				Recurrence: RecurWeekly,
				AnchorTime: TimeOfDay{Hour: 9},
				Weekdays:   WeekdaySet(0).Add(wd),
				Active:     true,
			}
			at, status := NextOccurrence(rule, now)
			require.Equal(t, StatusUpcoming, status, "weekday %v offset %d", wd, offset)
			require.False(t, at.IsZero())
			require.LessOrEqual(t, at.Sub(now), 7*24*time.Hour, "weekday %v offset %d", wd, offset)
		}
	}
}

func TestNextOccurrence_Monthly(t *testing.T) {
	t.Run("clamped to short month", func(t *testing.T) {
		// Anchor day 31, April has 30 days: April 30, not May 1.
		now := localNow(time.UTC, 2025, time.April, 10, 10, 0)
		rule := ReminderRule{
			Recurrence: RecurMonthly,
			AnchorDate: d(2025, time.January, 31),
			AnchorTime: TimeOfDay{Hour: 9},
			Active:     true,
		}
		at, status := NextOccurrence(rule, now)
		assert.Equal(t, localNow(time.UTC, 2025, time.April, 30, 9, 0), at)
		assert.Equal(t, StatusUpcoming, status)
	})

	t.Run("passed this month advances with real month length", func(t *testing.T) {
		// February in a non-leap year clamps 31 to 28.
		now := localNow(time.UTC, 2025, time.January, 31, 12, 0)
		rule := ReminderRule{
			Recurrence: RecurMonthly,
			AnchorDate: d(2024, time.December, 31),
			AnchorTime: TimeOfDay{Hour: 9},
			Active:     true,
		}
		at, _ := NextOccurrence(rule, now)
		assert.Equal(t, localNow(time.UTC, 2025, time.February, 28, 9, 0), at)
	})

	t.Run("no anchor uses today's day", func(t *testing.T) {
		now := localNow(time.UTC, 2025, time.June, 10, 8, 0)
		rule := ReminderRule{Recurrence: RecurMonthly, AnchorTime: TimeOfDay{Hour: 9}, Active: true}
		at, status := NextOccurrence(rule, now)
		assert.Equal(t, localNow(time.UTC, 2025, time.June, 10, 9, 0), at)
		assert.Equal(t, StatusUpcoming, status)
	})

	t.Run("future anchor month is the base", func(t *testing.T) {
		now := localNow(time.UTC, 2025, time.June, 10, 8, 0)
		rule := ReminderRule{
			Recurrence: RecurMonthly,
			AnchorDate: d(2025, time.August, 15),
			AnchorTime: TimeOfDay{Hour: 9},
			Active:     true,
		}
		at, _ := NextOccurrence(rule, now)
		assert.Equal(t, localNow(time.UTC, 2025, time.August, 15, 9, 0), at)
	})
}

func TestNextOccurrence_LocalZone(t *testing.T) {
	loc := mustLoc(t, "America/New_York")
	// 23:30 local on June 10: a daily 23:45 reminder is still today.
	now := localNow(loc, 2025, time.June, 10, 23, 30)
	rule := ReminderRule{Recurrence: RecurDaily, AnchorTime: TimeOfDay{Hour: 23, Minute: 45}, Active: true}
	at, _ := NextOccurrence(rule, now)
	assert.Equal(t, localNow(loc, 2025, time.June, 10, 23, 45), at)
	assert.Equal(t, loc, at.Location())
}

func TestSummarize(t *testing.T) {
	now := localNow(time.UTC, 2025, time.June, 10, 10, 0)
	schedules := []Schedule{
		{Status: StatusPaused},
		{At: now.Add(2 * time.Hour), Status: StatusUpcoming},
		{At: now.Add(30 * time.Minute), Status: StatusUpcoming},
		{At: now.Add(-time.Hour), Status: StatusOverdue},
		{Status: StatusUnscheduled},
	}
	sum := Summarize(schedules)
	assert.Equal(t, 4, sum.Active, "paused rules are inactive")
	assert.Equal(t, 1, sum.Overdue)
	assert.True(t, sum.Scheduled)
	assert.Equal(t, now.Add(30*time.Minute), sum.NextAt, "earliest upcoming wins")
}

func TestSummarize_NothingScheduled(t *testing.T) {
	sum := Summarize([]Schedule{{Status: StatusPaused}, {Status: StatusUnscheduled}})
	assert.Equal(t, 1, sum.Active)
	assert.False(t, sum.Scheduled)
	assert.True(t, sum.NextAt.IsZero())
}
