package engine

import (
	"math"
	"sort"

	"github.com/cwihealth/cwi-server/internal/database"
)

// DefaultExpectedDailyKg is assumed for departments without a configured
// baseline. Absence of configuration never fails the evaluation.
const DefaultExpectedDailyKg = 50.0

// DepartmentPerformance compares one department's actual load against its
// expected daily load.
type DepartmentPerformance struct {
	Department     string  `json:"department"`
	TotalKg        float64 `json:"totalKg"`
	ExpectedKg     float64 `json:"expectedKg"`
	PerformancePct float64 `json:"performancePct"`
	OverPerforming bool    `json:"overPerforming"`
	Progress       float64 `json:"progress"`
	AlertCount     int     `json:"alertCount"`
}

// EvaluateDepartments produces one performance entry per department with
// recorded totals, ordered by total descending (heaviest producers first,
// name as tiebreak).
//
// PerformancePct is (expected - actual) / expected * 100 at one-decimal
// precision; positive means the department produced less waste than
// expected, which counts as over-performing. Progress is the display
// ratio actual/expected capped at 1.0.
func EvaluateDepartments(
	departmentTotals map[string]float64,
	alertCounts map[string]int,
	baselines []database.DepartmentBaseline,
) []DepartmentPerformance {
	expected := make(map[string]float64, len(baselines))
	for _, b := range baselines {
		expected[b.Department] = b.ExpectedDailyKg
	}

	results := make([]DepartmentPerformance, 0, len(departmentTotals))
	for department, totalKg := range departmentTotals {
		expectedKg, ok := expected[department]
		if !ok || expectedKg <= 0 {
			expectedKg = DefaultExpectedDailyKg
		}

		performancePct := (expectedKg - totalKg) / expectedKg * 100
		performancePct = math.Round(performancePct*10) / 10

		progress := totalKg / expectedKg
		if progress > 1.0 {
			progress = 1.0
		}

		results = append(results, DepartmentPerformance{
			Department:     department,
			TotalKg:        totalKg,
			ExpectedKg:     expectedKg,
			PerformancePct: performancePct,
			OverPerforming: performancePct > 0,
			Progress:       progress,
			AlertCount:     alertCounts[department],
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].TotalKg != results[j].TotalKg {
			return results[i].TotalKg > results[j].TotalKg
		}
		return results[i].Department < results[j].Department
	})

	return results
}
