package engine

// DateSet is a set of local calendar dates on which a habit was marked
// done. Insertion is idempotent; ordering carries no meaning.
type DateSet map[Date]struct{}

// NewDateSet builds a set from the given dates.
func NewDateSet(dates ...Date) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s.Add(d)
	}
	return s
}

// Add inserts a date into the set.
func (s DateSet) Add(d Date) {
	s[d] = struct{}{}
}

// Has reports whether the date is in the set.
func (s DateSet) Has(d Date) bool {
	_, ok := s[d]
	return ok
}

// Streak counts the consecutive-day completion run ending at today.
//
// The cursor starts at today; if today is not yet logged it moves back
// one day, so a streak survives a single day of grace (today simply not
// logged yet) but never two. From the cursor the count walks backward
// while each consecutive date is present, stopping at the first gap.
// Returns 0 when neither today nor yesterday is logged.
func Streak(done DateSet, today Date) int {
	cursor := today
	if !done.Has(cursor) {
		cursor = cursor.AddDays(-1)
	}
	streak := 0
	for done.Has(cursor) {
		streak++
		cursor = cursor.AddDays(-1)
	}
	return streak
}
