package engine

import (
	"testing"

	"github.com/cwihealth/cwi-server/internal/database"
)

func TestBuildSnapshot_TotalsAndPercentChange(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)
	events := []database.WasteEvent{
		mkEvent("ICU", "Sharps", 50, yesterday),
		mkEvent("ICU", "Sharps", 40, testNow),
		mkEvent("Surgery", "Infectious", 30, testNow),
	}

	snapshot := BuildSnapshot(events, nil, testNow)

	if snapshot.TotalWasteToday != 70 {
		t.Errorf("Expected 70 kg today, got %v", snapshot.TotalWasteToday)
	}
	if snapshot.PercentChange == nil {
		t.Fatal("Expected percent change with yesterday data")
	}
	if *snapshot.PercentChange != 40 {
		t.Errorf("Expected +40%% vs yesterday, got %v", *snapshot.PercentChange)
	}
}

func TestBuildSnapshot_NoYesterdayData(t *testing.T) {
	events := []database.WasteEvent{
		mkEvent("ICU", "Sharps", 40, testNow),
	}

	snapshot := BuildSnapshot(events, nil, testNow)

	if snapshot.PercentChange != nil {
		t.Errorf("Expected no percent change without yesterday data, got %v", *snapshot.PercentChange)
	}
}

func TestBuildSnapshot_ActiveAlertRule(t *testing.T) {
	anomaly := analyzedEvent("anomaly", 30, true)
	anomaly.Department = "Surgery"
	highButQuiet := analyzedEvent("quiet", 95, false)

	events := []database.WasteEvent{anomaly, highButQuiet, mkEvent("ICU", "Sharps", 1, testNow)}

	snapshot := BuildSnapshot(events, nil, testNow)

	// One rule everywhere: anomalyDetected, regardless of band.
	if snapshot.ActiveAlerts != 1 {
		t.Errorf("Expected 1 active alert, got %d", snapshot.ActiveAlerts)
	}

	for _, dept := range snapshot.DepartmentPerformance {
		wantCount := 0
		if dept.Department == "Surgery" {
			wantCount = 1
		}
		if dept.AlertCount != wantCount {
			t.Errorf("Expected %d alerts for %s, got %d", wantCount, dept.Department, dept.AlertCount)
		}
	}
}

func TestBuildSnapshot_DerivedScores(t *testing.T) {
	events := []database.WasteEvent{
		mkEvent("ICU", "Recyclable", 30, testNow),
		mkEvent("ICU", "General", 20, testNow),
		mkEvent("Surgery", "Sharps", 50, testNow),
	}

	snapshot := BuildSnapshot(events, nil, testNow)

	if snapshot.SustainabilityScore != 50 {
		t.Errorf("Expected sustainability 50, got %d", snapshot.SustainabilityScore)
	}
	if snapshot.CostImpact != 250 {
		t.Errorf("Expected 100 kg * 2.5 = 250, got %v", snapshot.CostImpact)
	}
}

func TestBuildSnapshot_CompositionDeterministic(t *testing.T) {
	events := []database.WasteEvent{
		mkEvent("ICU", "Sharps", 5, testNow),
		mkEvent("ICU", "Recyclable", 20, testNow),
		mkEvent("ICU", "General", 5, testNow),
	}

	snapshot := BuildSnapshot(events, nil, testNow)

	if len(snapshot.WasteComposition) != 3 {
		t.Fatalf("Expected 3 composition slices, got %d", len(snapshot.WasteComposition))
	}
	if snapshot.WasteComposition[0].WasteType != "Recyclable" {
		t.Errorf("Expected largest slice first, got %s", snapshot.WasteComposition[0].WasteType)
	}
	// Equal quantities break the tie by name.
	if snapshot.WasteComposition[1].WasteType != "General" || snapshot.WasteComposition[2].WasteType != "Sharps" {
		t.Errorf("Expected name tiebreak, got %v", snapshot.WasteComposition)
	}
}

func TestBuildSnapshot_EmptyStores(t *testing.T) {
	snapshot := BuildSnapshot(nil, nil, testNow)

	if snapshot.TotalWasteToday != 0 {
		t.Errorf("Expected zero total, got %v", snapshot.TotalWasteToday)
	}
	if snapshot.PercentChange != nil {
		t.Error("Expected no percent change for empty stores")
	}
	if snapshot.SustainabilityScore != DefaultSustainabilityScore {
		t.Errorf("Expected default sustainability %d, got %d", DefaultSustainabilityScore, snapshot.SustainabilityScore)
	}
	if len(snapshot.SevenDayTrend) != 0 {
		t.Errorf("Expected empty trend, got %d buckets", len(snapshot.SevenDayTrend))
	}
}
