package engine

import (
	"sort"
	"time"

	"github.com/cwihealth/cwi-server/internal/database"
)

// CompositionSlice is one waste type's share of the composition totals.
type CompositionSlice struct {
	WasteType  string  `json:"wasteType"`
	QuantityKg float64 `json:"quantityKg"`
}

// Snapshot is a point-in-time bundle of derived dashboard metrics. It is
// valid only for the instant it was computed; it makes no promise of
// staying consistent with writes that happen afterwards.
type Snapshot struct {
	TotalWasteToday       float64                 `json:"totalWasteToday"`
	PercentChange         *float64                `json:"percentChange,omitempty"`
	ActiveAlerts          int                     `json:"activeAlerts"`
	SustainabilityScore   int                     `json:"sustainabilityScore"`
	CostImpact            float64                 `json:"costImpact"`
	SevenDayTrend         []TrendBucket           `json:"sevenDayTrend"`
	WasteComposition      []CompositionSlice      `json:"wasteComposition"`
	DepartmentPerformance []DepartmentPerformance `json:"departmentPerformance"`
}

// TrendWindowDays is the dashboard trend window.
const TrendWindowDays = 7

// BuildSnapshot assembles the full dashboard snapshot from one consistent
// view of the event and baseline stores. Events are expected in
// chronological order covering at least the trailing trend window.
//
// The caller owns the store reads: if either store was unreachable this
// function is never called, so a snapshot with silently zeroed fields
// cannot be produced.
func BuildSnapshot(events []database.WasteEvent, baselines []database.DepartmentBaseline, now time.Time) *Snapshot {
	today := StartOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	todayTotals := DepartmentTotals(events, today)
	yesterdayTotals := DepartmentTotals(events, yesterday)

	var totalToday, totalYesterday float64
	for _, kg := range todayTotals {
		totalToday += kg
	}
	for _, kg := range yesterdayTotals {
		totalYesterday += kg
	}

	var percentChange *float64
	if change, ok := PercentChange(totalToday, totalYesterday); ok {
		percentChange = &change
	}

	activeAlerts := 0
	alertCounts := make(map[string]int)
	for _, event := range events {
		if !IsActiveAlert(event) {
			continue
		}
		activeAlerts++
		ts := event.Timestamp.UTC()
		if !ts.Before(today) {
			alertCounts[event.Department]++
		}
	}

	composition := CompositionTotals(events)

	return &Snapshot{
		TotalWasteToday:       totalToday,
		PercentChange:         percentChange,
		ActiveAlerts:          activeAlerts,
		SustainabilityScore:   SustainabilityScore(composition),
		CostImpact:            CostImpact(todayTotals, DefaultCostPerKg),
		SevenDayTrend:         BuildTrend(events, now, TrendWindowDays),
		WasteComposition:      compositionSlices(composition),
		DepartmentPerformance: EvaluateDepartments(todayTotals, alertCounts, baselines),
	}
}

// compositionSlices flattens composition totals into a deterministic
// sequence: largest quantity first, waste type as tiebreak.
func compositionSlices(totals map[string]float64) []CompositionSlice {
	slices := make([]CompositionSlice, 0, len(totals))
	for wasteType, quantity := range totals {
		slices = append(slices, CompositionSlice{WasteType: wasteType, QuantityKg: quantity})
	}

	sort.Slice(slices, func(i, j int) bool {
		if slices[i].QuantityKg != slices[j].QuantityKg {
			return slices[i].QuantityKg > slices[j].QuantityKg
		}
		return slices[i].WasteType < slices[j].WasteType
	})

	return slices
}
