package engine

import (
	"sort"
	"time"
)

// ProposedClose is an instruction to the caller: persist End as the end
// time of the named interval. Reconcile proposes, the store disposes -
// the engine never mutates anything itself, and it never reopens a
// fresh interval for the user (that is an explicit user action).
type ProposedClose struct {
	IntervalID string
	End        time.Time
}

// Reconcile scans currently open intervals and proposes safe end times
// so a forgotten timer cannot accumulate unbounded or day-spanning
// duration.
//
// Two policies apply, and an interval hit by both closes at the earlier
// bound:
//
//  1. Day boundary: an interval that started before todayStart (a
//     previous local day) closes at todayStart, so day buckets never
//     attribute yesterday's running time to today.
//  2. Duration cap: an interval running for maxDuration or longer
//     closes at start+maxDuration, modeling a fixed-length focus
//     session that self-terminates.
//
// Intervals that are already closed, or open but within both bounds,
// produce no proposal - re-running Reconcile after the caller persists
// the proposed ends is therefore a no-op. A non-positive maxDuration
// disables the cap. Proposals come back sorted by interval ID so output
// is deterministic regardless of input order.
func Reconcile(open []Interval, todayStart, now time.Time, maxDuration time.Duration) []ProposedClose {
	var proposals []ProposedClose
	for _, iv := range open {
		if !iv.Open() {
			continue
		}
		var bound time.Time
		if iv.Start.Before(todayStart) {
			bound = todayStart
		}
		if maxDuration > 0 && now.Sub(iv.Start) >= maxDuration {
			capEnd := iv.Start.Add(maxDuration)
			if bound.IsZero() || capEnd.Before(bound) {
				bound = capEnd
			}
		}
		if bound.IsZero() {
			continue
		}
		proposals = append(proposals, ProposedClose{IntervalID: iv.ID, End: bound})
	}
	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].IntervalID < proposals[j].IntervalID
	})
	return proposals
}
