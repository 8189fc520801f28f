package engine

import (
	"math"
)

const (
	// DefaultSustainabilityScore is reported when there is no composition
	// data to compute a recycling rate from. A documented fallback, not a
	// computed zero.
	DefaultSustainabilityScore = 82

	// DefaultCostPerKg is the flat fleet-wide disposal rate. Per-baseline
	// cost_per_kg is intentionally not applied here; see DESIGN.md.
	DefaultCostPerKg = 2.5
)

// SustainabilityScore returns the percentage of tracked waste classified
// as Recyclable or General, rounded to the nearest integer. General waste
// counting toward the rate is inherited dashboard semantics, kept as-is.
func SustainabilityScore(compositionTotals map[string]float64) int {
	var total float64
	for _, quantity := range compositionTotals {
		total += quantity
	}
	if total == 0 {
		return DefaultSustainabilityScore
	}

	recyclingRate := (compositionTotals["Recyclable"] + compositionTotals["General"]) / total * 100
	return int(math.Round(recyclingRate))
}

// CostImpact estimates disposal cost as total kilograms across all
// departments times a single flat rate. The result is unrounded; display
// rounding belongs to the presentation layer.
func CostImpact(departmentTotals map[string]float64, costPerKg float64) float64 {
	var totalKg float64
	for _, quantity := range departmentTotals {
		totalKg += quantity
	}
	return totalKg * costPerKg
}

// PercentChange returns the signed percentage change from yesterday's
// total to today's. The second return value is false when yesterday has no
// data, in which case no change can be reported.
func PercentChange(todayTotal, yesterdayTotal float64) (float64, bool) {
	if yesterdayTotal == 0 {
		return 0, false
	}
	return (todayTotal - yesterdayTotal) / yesterdayTotal * 100, true
}
