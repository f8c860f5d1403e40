package engine

import "time"

// eventPalette holds the colors cycled across calendar subjects.
// Assignment is subjectID mod len(eventPalette): a subject keeps the
// same color on every render instead of being recolored per request.
var eventPalette = []string{
	"#6366f1",
	"#22c55e",
	"#f59e0b",
	"#ef4444",
	"#06b6d4",
	"#a855f7",
	"#ec4899",
	"#84cc16",
}

// Event is one calendar entry: an interval clipped to the requested
// window, carrying a deterministic display color.
type Event struct {
	SubjectID int64     `json:"subject_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Color     string    `json:"color"`
}

// CalendarEvents clips every interval to [start, end) and emits one
// event per surviving pair. Intervals whose clipped span is empty or
// inverted are discarded. Open intervals end at now before clipping.
func CalendarEvents(intervals []Interval, start, end time.Time, now time.Time) []Event {
	var events []Event
	for _, iv := range intervals {
		evStart := iv.Start
		if start.After(evStart) {
			evStart = start
		}
		evEnd := iv.effectiveEnd(now)
		if end.Before(evEnd) {
			evEnd = end
		}
		if !evEnd.After(evStart) {
			continue
		}
		events = append(events, Event{
			SubjectID: iv.SubjectID,
			Start:     evStart,
			End:       evEnd,
			Color:     PaletteColor(iv.SubjectID),
		})
	}
	return events
}

// PaletteColor returns the stable palette color for a subject.
func PaletteColor(subjectID int64) string {
	idx := subjectID % int64(len(eventPalette))
	if idx < 0 {
		idx += int64(len(eventPalette))
	}
	return eventPalette[idx]
}
