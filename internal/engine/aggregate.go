// Package engine derives dashboard metrics from raw waste events and
// department baselines. Every function here is a pure computation over its
// inputs: no store access, no clocks other than the caller-supplied one,
// no state between calls. Concurrent calls need no coordination.
package engine

import (
	"time"

	"github.com/cwihealth/cwi-server/internal/database"
)

// TrendBucket is one point of the waste trend series. Quantities holds
// per-type sums; waste types with no events in the bucket are omitted, not
// zero-filled.
type TrendBucket struct {
	DayLabel   string             `json:"day"`
	Quantities map[string]float64 `json:"quantities"`
}

// BuildTrend groups events from the trailing windowDays calendar days into
// buckets keyed by weekday label ("Mon", "Tue", ...), summing quantity per
// waste type within each bucket.
//
// The weekday label is the bucket key, not the calendar date: events from
// the same weekday in different weeks collapse into one bucket. This
// matches the long-standing dashboard behavior and is kept deliberately;
// see DESIGN.md before changing the key.
//
// Buckets appear in first-seen order over the scanned events, so callers
// that want chronological buckets must pass events in chronological order.
func BuildTrend(events []database.WasteEvent, now time.Time, windowDays int) []TrendBucket {
	windowStart := StartOfDay(now).AddDate(0, 0, -(windowDays - 1))

	buckets := []TrendBucket{}
	index := make(map[string]int)

	for _, event := range events {
		ts := event.Timestamp.UTC()
		if ts.Before(windowStart) {
			continue
		}

		label := ts.Format("Mon")
		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, TrendBucket{
				DayLabel:   label,
				Quantities: make(map[string]float64),
			})
		}

		buckets[i].Quantities[event.WasteType] += event.QuantityKg
	}

	return buckets
}

// CompositionTotals sums quantity per waste type across all given events.
func CompositionTotals(events []database.WasteEvent) map[string]float64 {
	totals := make(map[string]float64)
	for _, event := range events {
		totals[event.WasteType] += event.QuantityKg
	}
	return totals
}

// DepartmentTotals sums quantity per department for events whose timestamp
// falls on the given calendar day (UTC).
func DepartmentTotals(events []database.WasteEvent, day time.Time) map[string]float64 {
	dayStart := StartOfDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	totals := make(map[string]float64)
	for _, event := range events {
		ts := event.Timestamp.UTC()
		if ts.Before(dayStart) || !ts.Before(dayEnd) {
			continue
		}
		totals[event.Department] += event.QuantityKg
	}
	return totals
}

// StartOfDay truncates a time to midnight UTC of its calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
