package service

import (
	"fmt"

	"github.com/cwihealth/cwi-server/internal/database"
)

func isOneOf(value string, allowed []string) bool {
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}

func validateLogWasteInput(input *LogWasteInput) error {
	if !isOneOf(input.Department, database.Departments) {
		return fmt.Errorf("%w: unknown department %q", ErrInvalidInput, input.Department)
	}
	if !isOneOf(input.WasteType, database.WasteTypes) {
		return fmt.Errorf("%w: unknown waste type %q", ErrInvalidInput, input.WasteType)
	}
	if input.QuantityKg < 0 {
		return fmt.Errorf("%w: quantity must be non-negative, got %v", ErrInvalidInput, input.QuantityKg)
	}
	if !isOneOf(input.ProcedureCategory, database.ProcedureCategories) {
		return fmt.Errorf("%w: unknown procedure category %q", ErrInvalidInput, input.ProcedureCategory)
	}
	if !isOneOf(input.DisposalMethod, database.DisposalMethods) {
		return fmt.Errorf("%w: unknown disposal method %q", ErrInvalidInput, input.DisposalMethod)
	}
	if !isOneOf(input.Shift, database.Shifts) {
		return fmt.Errorf("%w: unknown shift %q", ErrInvalidInput, input.Shift)
	}
	return nil
}

func validateBaseline(baseline *database.DepartmentBaseline) error {
	if !isOneOf(baseline.Department, database.Departments) {
		return fmt.Errorf("%w: unknown department %q", ErrInvalidInput, baseline.Department)
	}
	if baseline.ExpectedDailyKg <= 0 {
		return fmt.Errorf("%w: expected daily kg must be positive, got %v", ErrInvalidInput, baseline.ExpectedDailyKg)
	}
	if baseline.RiskThreshold < 0 || baseline.RiskThreshold > 100 {
		return fmt.Errorf("%w: risk threshold must be 0-100, got %d", ErrInvalidInput, baseline.RiskThreshold)
	}
	if baseline.InfectiousRatio < 0 || baseline.InfectiousRatio > 100 {
		return fmt.Errorf("%w: infectious ratio must be 0-100, got %v", ErrInvalidInput, baseline.InfectiousRatio)
	}
	if baseline.SharpsRatio < 0 || baseline.SharpsRatio > 100 {
		return fmt.Errorf("%w: sharps ratio must be 0-100, got %v", ErrInvalidInput, baseline.SharpsRatio)
	}
	if baseline.CostPerKg <= 0 {
		return fmt.Errorf("%w: cost per kg must be positive, got %v", ErrInvalidInput, baseline.CostPerKg)
	}
	return nil
}
