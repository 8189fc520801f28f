package service

import (
	"errors"
	"testing"

	"github.com/cwihealth/cwi-server/internal/database"
)

func validInput() *LogWasteInput {
	return &LogWasteInput{
		Department:        "ICU",
		WasteType:         "Sharps",
		QuantityKg:        2.5,
		ProcedureCategory: "Routine Care",
		DisposalMethod:    "Autoclave",
		Shift:             "Morning",
	}
}

func TestValidateLogWasteInput_Valid(t *testing.T) {
	if err := validateLogWasteInput(validInput()); err != nil {
		t.Errorf("Expected valid input to pass, got %v", err)
	}

	// Zero quantity is allowed; only negatives are rejected.
	input := validInput()
	input.QuantityKg = 0
	if err := validateLogWasteInput(input); err != nil {
		t.Errorf("Expected zero quantity to pass, got %v", err)
	}
}

func TestValidateLogWasteInput_Rejections(t *testing.T) {
	cases := map[string]func(*LogWasteInput){
		"unknown department":    func(i *LogWasteInput) { i.Department = "Cafeteria" },
		"unknown waste type":    func(i *LogWasteInput) { i.WasteType = "Plasma" },
		"negative quantity":     func(i *LogWasteInput) { i.QuantityKg = -1 },
		"unknown procedure":     func(i *LogWasteInput) { i.ProcedureCategory = "Unknown" },
		"unknown disposal":      func(i *LogWasteInput) { i.DisposalMethod = "Dumping" },
		"unknown shift":         func(i *LogWasteInput) { i.Shift = "Midnight" },
		"empty department":      func(i *LogWasteInput) { i.Department = "" },
	}

	for name, mutate := range cases {
		input := validInput()
		mutate(input)
		err := validateLogWasteInput(input)
		if err == nil {
			t.Errorf("%s: expected rejection", name)
			continue
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func validBaseline() *database.DepartmentBaseline {
	return &database.DepartmentBaseline{
		Department:      "ICU",
		ExpectedDailyKg: 50,
		RiskThreshold:   70,
		InfectiousRatio: 30,
		SharpsRatio:     15,
		CostPerKg:       2.5,
	}
}

func TestValidateBaseline_Valid(t *testing.T) {
	if err := validateBaseline(validBaseline()); err != nil {
		t.Errorf("Expected valid baseline to pass, got %v", err)
	}
}

func TestValidateBaseline_Rejections(t *testing.T) {
	cases := map[string]func(*database.DepartmentBaseline){
		"unknown department":      func(b *database.DepartmentBaseline) { b.Department = "Basement" },
		"zero expected daily":     func(b *database.DepartmentBaseline) { b.ExpectedDailyKg = 0 },
		"negative expected daily": func(b *database.DepartmentBaseline) { b.ExpectedDailyKg = -5 },
		"threshold above range":   func(b *database.DepartmentBaseline) { b.RiskThreshold = 101 },
		"threshold below range":   func(b *database.DepartmentBaseline) { b.RiskThreshold = -1 },
		"infectious ratio range":  func(b *database.DepartmentBaseline) { b.InfectiousRatio = 120 },
		"sharps ratio range":      func(b *database.DepartmentBaseline) { b.SharpsRatio = -3 },
		"non-positive cost":       func(b *database.DepartmentBaseline) { b.CostPerKg = 0 },
	}

	for name, mutate := range cases {
		baseline := validBaseline()
		mutate(baseline)
		err := validateBaseline(baseline)
		if err == nil {
			t.Errorf("%s: expected rejection", name)
			continue
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}
