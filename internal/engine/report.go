package engine

import (
	"sort"
	"time"

	"golang.org/x/text/unicode/norm"
)

// DayTotal is one local-day bucket of a report series.
//
// Percent is the bucket's share of the largest bucket in the same
// series (0 when every bucket is zero). It is a display normalization
// for bar charts, not a fraction of 24 hours.
type DayTotal struct {
	Date    Date    `json:"date"`
	Seconds int64   `json:"seconds"`
	Percent float64 `json:"percent"`
}

// DailySeries builds days consecutive local-day buckets ending at today
// and accumulates the intervals into them.
func DailySeries(intervals []Interval, days int, today Date, loc *time.Location, now time.Time) []DayTotal {
	if days < 1 {
		days = 1
	}
	return RangeSeries(intervals, today.AddDays(-(days-1)), today, loc, now)
}

// RangeSeries builds one bucket per local day of the inclusive date
// range [start, end] and accumulates the intervals into them. A
// reversed range is swapped rather than rejected.
func RangeSeries(intervals []Interval, start, end Date, loc *time.Location, now time.Time) []DayTotal {
	if end.Before(start) {
		start, end = end, start
	}
	var buckets []Bucket
	var dates []Date
	for d := start; !d.After(end); d = d.AddDays(1) {
		bStart, bEnd := DayBounds(d, loc)
		buckets = append(buckets, Bucket{Start: bStart, End: bEnd, Label: d.String()})
		dates = append(dates, d)
	}
	totals := Accumulate(intervals, buckets, now)

	var max int64
	for _, secs := range totals {
		if secs > max {
			max = secs
		}
	}
	series := make([]DayTotal, len(totals))
	for i, secs := range totals {
		var pct float64
		if max > 0 {
			pct = float64(secs) / float64(max) * 100
		}
		series[i] = DayTotal{Date: dates[i], Seconds: secs, Percent: pct}
	}
	return series
}

// GroupedInterval pairs an interval with the caller-supplied group key
// it should be summed under - a project, task or label name.
type GroupedInterval struct {
	Interval
	Key string
}

// GroupTotal is one row of a grouped distribution.
// Percent is the group's share of the distribution total.
type GroupTotal struct {
	Label   string  `json:"label"`
	Seconds int64   `json:"seconds"`
	Percent float64 `json:"percent"`
}

// GroupedDistribution overlaps every entry against the single window
// [start, end) and sums by group key. Keys are NFC-normalized before
// accumulation so visually identical labels land in one row; an empty
// key falls back to fallback. Rows come back sorted descending by
// seconds, label ascending on ties. Also returns the window total.
func GroupedDistribution(entries []GroupedInterval, start, end time.Time, now time.Time, fallback string) ([]GroupTotal, int64) {
	window := []Bucket{{Start: start, End: end}}
	byKey := make(map[string]int64)
	var total int64
	for _, e := range entries {
		secs := Accumulate([]Interval{e.Interval}, window, now)[0]
		if secs <= 0 {
			continue
		}
		key := norm.NFC.String(e.Key)
		if key == "" {
			key = fallback
		}
		byKey[key] += secs
		total += secs
	}

	groups := make([]GroupTotal, 0, len(byKey))
	for label, secs := range byKey {
		var pct float64
		if total > 0 {
			pct = float64(secs) / float64(total) * 100
		}
		groups = append(groups, GroupTotal{Label: label, Seconds: secs, Percent: pct})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Seconds != groups[j].Seconds {
			return groups[i].Seconds > groups[j].Seconds
		}
		return groups[i].Label < groups[j].Label
	})
	return groups, total
}

// RollingWindow accumulates the intervals against the single window
// [start, end). Used for "last 24 hours" (now-24h) and "today so far"
// (local midnight) totals.
func RollingWindow(intervals []Interval, start, end time.Time, now time.Time) int64 {
	return Accumulate(intervals, []Bucket{{Start: start, End: end}}, now)[0]
}

// AverageDailyHours converts a window total into average hours per day
// over days calendar days (minimum 1, matching the report API).
func AverageDailyHours(totalSeconds int64, days int) float64 {
	if days < 1 {
		days = 1
	}
	return float64(totalSeconds) / 3600 / float64(days)
}
