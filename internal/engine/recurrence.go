package engine

import (
	"strings"
	"time"
)

// Recurrence names a reminder's repeat rule.
type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

// ParseRecurrence maps a stored repeat_interval string onto a
// Recurrence. Unknown values degrade to RecurNone.
func ParseRecurrence(s string) Recurrence {
	switch Recurrence(strings.ToLower(strings.TrimSpace(s))) {
	case RecurDaily:
		return RecurDaily
	case RecurWeekly:
		return RecurWeekly
	case RecurMonthly:
		return RecurMonthly
	default:
		return RecurNone
	}
}

// Status classifies a reminder's schedule state.
type Status string

const (
	StatusPaused      Status = "paused"      // rule is inactive
	StatusUnscheduled Status = "unscheduled" // no occurrence can be computed
	StatusOverdue     Status = "overdue"     // one-shot whose instant has passed
	StatusUpcoming    Status = "upcoming"    // next occurrence lies ahead
)

// WeekdaySet is a set of weekdays, one bit per time.Weekday.
type WeekdaySet uint8

// Add returns the set with wd included.
func (s WeekdaySet) Add(wd time.Weekday) WeekdaySet {
	return s | 1<<uint(wd)
}

// Has reports whether wd is in the set.
func (s WeekdaySet) Has(wd time.Weekday) bool {
	return s&(1<<uint(wd)) != 0
}

// Empty reports whether no weekday is set.
func (s WeekdaySet) Empty() bool {
	return s == 0
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// ParseWeekdays parses a stored repeat_days string like "mon,thu".
// Tokens that name no weekday are skipped.
func ParseWeekdays(s string) WeekdaySet {
	var set WeekdaySet
	for _, tok := range strings.Split(s, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if len(tok) > 3 {
			tok = tok[:3]
		}
		if wd, ok := weekdayNames[tok]; ok {
			set = set.Add(wd)
		}
	}
	return set
}

// ReminderRule is a reminder's schedule definition. A zero AnchorDate
// means no explicit date. For weekly rules an empty Weekdays set falls
// back to the anchor date's weekday, or today's when there is no
// anchor.
type ReminderRule struct {
	AnchorDate Date
	AnchorTime TimeOfDay
	Recurrence Recurrence
	Weekdays   WeekdaySet
	Active     bool
}

// weeklySearchDays is the forward search window for weekly rules. Any
// weekly pattern repeats within 7 days; the second week is kept as
// documented behavior rather than optimized away, since shortening it
// would be a behavior change, not a refactor.
const weeklySearchDays = 14

// NextOccurrence computes a reminder's next trigger instant and status.
//
// All comparisons happen in nowLocal's location, so a reminder near
// midnight resolves against the user's wall clock rather than UTC.
// The returned instant is zero exactly when the status is paused or
// unscheduled.
//
// Per recurrence:
//   - inactive rule: (zero, paused)
//   - none: requires an anchor date; a past instant stays overdue
//     rather than being suppressed
//   - daily: self-advances past nowLocal, never overdue
//   - weekly: day-by-day forward search over weeklySearchDays from
//     max(anchor, today) for a weekday in the set
//   - monthly: anchor day clamped to each target month's real length
//     (day 31 in April resolves to April 30)
func NextOccurrence(rule ReminderRule, nowLocal time.Time) (time.Time, Status) {
	if !rule.Active {
		return time.Time{}, StatusPaused
	}
	loc := nowLocal.Location()
	today := DateOf(nowLocal)

	switch rule.Recurrence {
	case RecurDaily:
		base := today
		if !rule.AnchorDate.IsZero() && rule.AnchorDate.After(today) {
			base = rule.AnchorDate
		}
		at := base.At(rule.AnchorTime, loc)
		if at.Before(nowLocal) {
			at = base.AddDays(1).At(rule.AnchorTime, loc)
		}
		return at, StatusUpcoming

	case RecurWeekly:
		set := rule.Weekdays
		if set.Empty() {
			if !rule.AnchorDate.IsZero() {
				set = set.Add(rule.AnchorDate.Weekday())
			} else {
				set = set.Add(today.Weekday())
			}
		}
		start := today
		if rule.AnchorDate.After(start) {
			start = rule.AnchorDate
		}
		for i := 0; i < weeklySearchDays; i++ {
			d := start.AddDays(i)
			if !set.Has(d.Weekday()) {
				continue
			}
			at := d.At(rule.AnchorTime, loc)
			if !at.Before(nowLocal) {
				return at, StatusUpcoming
			}
		}
		return time.Time{}, StatusUnscheduled

	case RecurMonthly:
		targetDay := today.Day
		if !rule.AnchorDate.IsZero() {
			targetDay = rule.AnchorDate.Day
		}
		year, month := today.Year, today.Month
		if rule.AnchorDate.After(today) {
			year, month = rule.AnchorDate.Year, rule.AnchorDate.Month
		}
		at := monthlyInstant(year, month, targetDay, rule.AnchorTime, loc)
		if at.Before(nowLocal) {
			at = monthlyInstant(year, month+1, targetDay, rule.AnchorTime, loc)
		}
		return at, StatusUpcoming

	default: // one-shot
		if rule.AnchorDate.IsZero() {
			return time.Time{}, StatusUnscheduled
		}
		at := rule.AnchorDate.At(rule.AnchorTime, loc)
		if at.Before(nowLocal) {
			return at, StatusOverdue
		}
		return at, StatusUpcoming
	}
}

// monthlyInstant builds the instant for day-of-month day in the given
// month, clamping day to the month's actual length. The month may be
// out of range (13 = next January); time.Date normalization handles it
// before clamping.
func monthlyInstant(year int, month time.Month, day int, tod TimeOfDay, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return NewDate(first.Year(), first.Month(), day).At(tod, loc)
}

// daysIn returns the number of days in the month: day 0 of the next
// month is the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Schedule is one reminder's resolved occurrence, as produced by
// NextOccurrence.
type Schedule struct {
	At     time.Time
	Status Status
}

// Summary aggregates a user's reminder schedules: how many rules are
// active, how many one-shots have slipped past, and the earliest
// upcoming instant. Scheduled is false when nothing upcoming exists.
type Summary struct {
	Active    int
	Overdue   int
	NextAt    time.Time
	Scheduled bool
}

// Summarize folds per-reminder schedules into a Summary. Paused rules
// count as inactive; the earliest upcoming instant wins NextAt.
func Summarize(schedules []Schedule) Summary {
	var sum Summary
	for _, s := range schedules {
		if s.Status == StatusPaused {
			continue
		}
		sum.Active++
		switch s.Status {
		case StatusOverdue:
			sum.Overdue++
		case StatusUpcoming:
			if !sum.Scheduled || s.At.Before(sum.NextAt) {
				sum.NextAt = s.At
				sum.Scheduled = true
			}
		}
	}
	return sum
}
