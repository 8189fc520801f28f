package engine

import (
	"testing"
)

func TestSustainabilityScore_RecyclableAndGeneralCount(t *testing.T) {
	totals := map[string]float64{
		"Recyclable": 30,
		"General":    20,
		"Sharps":     50,
	}

	score := SustainabilityScore(totals)
	if score != 50 {
		t.Errorf("Expected score 50, got %d", score)
	}
}

func TestSustainabilityScore_ZeroTotalDefault(t *testing.T) {
	if score := SustainabilityScore(nil); score != DefaultSustainabilityScore {
		t.Errorf("Expected default %d for nil totals, got %d", DefaultSustainabilityScore, score)
	}
	if score := SustainabilityScore(map[string]float64{}); score != DefaultSustainabilityScore {
		t.Errorf("Expected default %d for empty totals, got %d", DefaultSustainabilityScore, score)
	}
	// Zero quantities are still a zero total.
	if score := SustainabilityScore(map[string]float64{"Sharps": 0, "General": 0}); score != DefaultSustainabilityScore {
		t.Errorf("Expected default %d for all-zero totals, got %d", DefaultSustainabilityScore, score)
	}
}

func TestSustainabilityScore_Rounding(t *testing.T) {
	// 1/3 recyclable -> 33.33 -> 33
	totals := map[string]float64{"Recyclable": 1, "Sharps": 2}
	if score := SustainabilityScore(totals); score != 33 {
		t.Errorf("Expected 33, got %d", score)
	}

	// 2/3 recyclable -> 66.67 -> 67
	totals = map[string]float64{"Recyclable": 2, "Sharps": 1}
	if score := SustainabilityScore(totals); score != 67 {
		t.Errorf("Expected 67, got %d", score)
	}
}

func TestCostImpact_LinearInTotalKg(t *testing.T) {
	totals := map[string]float64{"Surgery": 30, "ICU": 20}
	doubled := map[string]float64{"Surgery": 60, "ICU": 40}

	base := CostImpact(totals, DefaultCostPerKg)
	if base != 125 {
		t.Errorf("Expected 50 kg * 2.5 = 125, got %v", base)
	}
	if got := CostImpact(doubled, DefaultCostPerKg); got != 2*base {
		t.Errorf("Expected doubling quantities to double cost, got %v want %v", got, 2*base)
	}
}

func TestCostImpact_Unrounded(t *testing.T) {
	totals := map[string]float64{"ICU": 1.1}
	if got := CostImpact(totals, DefaultCostPerKg); got != 2.75 {
		t.Errorf("Expected unrounded 2.75, got %v", got)
	}
}

func TestPercentChange_NoYesterdayData(t *testing.T) {
	if _, ok := PercentChange(10, 0); ok {
		t.Error("Expected no data when yesterday total is zero")
	}
	if _, ok := PercentChange(0, 0); ok {
		t.Error("Expected no data when both totals are zero")
	}
}

func TestPercentChange_Signed(t *testing.T) {
	change, ok := PercentChange(70, 50)
	if !ok {
		t.Fatal("Expected data")
	}
	if change != 40 {
		t.Errorf("Expected +40%%, got %v", change)
	}

	change, ok = PercentChange(25, 50)
	if !ok {
		t.Fatal("Expected data")
	}
	if change != -50 {
		t.Errorf("Expected -50%%, got %v", change)
	}
}
