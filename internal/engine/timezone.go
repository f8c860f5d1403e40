package engine

import (
	"strings"
	"time"
)

// ResolveZone resolves a user-configured IANA zone name.
//
// The input is free-form text from a settings row. Anything that does
// not name a loadable zone - empty string, whitespace, a typo - falls
// back to UTC. ResolveZone never returns an error: an invalid timezone
// must degrade a dashboard, not break it. Callers that want to surface
// the fallback can compare the returned name against their input.
func ResolveZone(name string) (string, *time.Location) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "UTC", time.UTC
	}
	loc, err := time.LoadLocation(trimmed)
	if err != nil {
		return "UTC", time.UTC
	}
	return trimmed, loc
}

// DayBounds returns the UTC instants of local midnight on d and on the
// following day, computed through the zone's offset rules.
//
// The end bound is derived by converting the next day's wall-clock
// midnight, not by adding a fixed 24h - so days spanning a DST
// transition come out 23 or 25 hours long, as they should.
func DayBounds(d Date, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
	end := time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, loc)
	return start.UTC(), end.UTC()
}

// LocalDate returns the calendar date of instant t as seen in loc.
// This is the "today" used for day buckets, streaks and recurrence.
func LocalDate(t time.Time, loc *time.Location) Date {
	return DateOf(t.In(loc))
}
