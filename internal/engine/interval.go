package engine

import "time"

// Interval is a tracked time span. A zero End means the interval is
// still running; its effective end for any computation is now.
//
// Invariant (enforced by the caller before starting a new interval):
// at most one open interval per subject at a time. Intervals transition
// open -> closed exactly once and are never reopened.
type Interval struct {
	ID        string
	SubjectID int64
	Start     time.Time
	End       time.Time
}

// Open reports whether the interval is still running.
func (iv Interval) Open() bool {
	return iv.End.IsZero()
}

// effectiveEnd resolves the end instant used in accumulation.
//
// Open intervals end at now. Closed intervals are additionally clamped
// to now so a row whose recorded end drifted past the request's clock
// reading never credits future time.
func (iv Interval) effectiveEnd(now time.Time) time.Time {
	if iv.Open() || iv.End.After(now) {
		return now
	}
	return iv.End
}

// Bucket is a fixed aggregation window. End is exclusive. Buckets
// passed to Accumulate within one call are non-overlapping and derived
// from local calendar boundaries.
type Bucket struct {
	Start time.Time
	End   time.Time
	Label string
}

// Accumulate computes per-bucket overlap seconds for a set of intervals.
//
// For each (interval, bucket) pair the contribution is
//
//	max(0, min(iEnd, bEnd) - max(iStart, bStart))
//
// in whole seconds, where iEnd is the interval's effective end under
// the single now supplied for the whole pass. An interval outside every
// bucket contributes nothing; one spanning several buckets contributes
// its correctly partitioned share to each. Sums are commutative, so the
// result is independent of input order.
//
// O(intervals x buckets). Both are bounded by the report window, which
// keeps this well under anything worth optimizing.
func Accumulate(intervals []Interval, buckets []Bucket, now time.Time) []int64 {
	totals := make([]int64, len(buckets))
	for _, iv := range intervals {
		end := iv.effectiveEnd(now)
		for i, b := range buckets {
			if secs := overlapSeconds(iv.Start, end, b.Start, b.End); secs > 0 {
				totals[i] += secs
			}
		}
	}
	return totals
}

// overlapSeconds returns the positive overlap between [aStart, aEnd)
// and [bStart, bEnd) in whole seconds, or 0. A span whose clipped end
// does not exceed its clipped start counts as zero, never negative.
func overlapSeconds(aStart, aEnd, bStart, bEnd time.Time) int64 {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return int64(end.Sub(start) / time.Second)
}
