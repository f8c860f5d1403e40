package store

import "time"

// Timestamps are persisted as RFC 3339 in UTC. Older rows imported
// from other trackers may lack an offset; parseTime accepts those as
// UTC rather than dropping them.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// formatTime renders an instant for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a stored timestamp. ok=false means the value is
// malformed; readers skip such rows (partial results beat failed
// dashboards).
func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
