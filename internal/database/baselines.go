package database

import (
	"context"
	"database/sql"
	"fmt"
)

const baselineSelectQuery = `
	SELECT department, expected_daily_kg, risk_threshold,
	       infectious_ratio, sharps_ratio, cost_per_kg, updated_at
	FROM department_baselines
	ORDER BY department
`

// UpsertBaseline inserts or updates the baseline for a department.
func (db *DB) UpsertBaseline(ctx context.Context, baseline *DepartmentBaseline) error {
	query := `
		INSERT INTO department_baselines (
			department, expected_daily_kg, risk_threshold,
			infectious_ratio, sharps_ratio, cost_per_kg
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (department) DO UPDATE
		SET expected_daily_kg = EXCLUDED.expected_daily_kg,
		    risk_threshold = EXCLUDED.risk_threshold,
		    infectious_ratio = EXCLUDED.infectious_ratio,
		    sharps_ratio = EXCLUDED.sharps_ratio,
		    cost_per_kg = EXCLUDED.cost_per_kg,
		    updated_at = CURRENT_TIMESTAMP
	`

	_, err := db.ExecContext(ctx, query,
		baseline.Department,
		baseline.ExpectedDailyKg,
		baseline.RiskThreshold,
		baseline.InfectiousRatio,
		baseline.SharpsRatio,
		baseline.CostPerKg,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert baseline: %w", err)
	}

	return nil
}

// GetBaseline retrieves the baseline for a department. Returns nil when no
// baseline is configured, which is a valid state.
func (db *DB) GetBaseline(ctx context.Context, department string) (*DepartmentBaseline, error) {
	query := `
		SELECT department, expected_daily_kg, risk_threshold,
		       infectious_ratio, sharps_ratio, cost_per_kg, updated_at
		FROM department_baselines
		WHERE department = $1
	`

	var b DepartmentBaseline
	err := db.QueryRowContext(ctx, query, department).Scan(
		&b.Department,
		&b.ExpectedDailyKg,
		&b.RiskThreshold,
		&b.InfectiousRatio,
		&b.SharpsRatio,
		&b.CostPerKg,
		&b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get baseline: %w", err)
	}

	return &b, nil
}

// ListBaselines returns all configured baselines ordered by department.
func (db *DB) ListBaselines(ctx context.Context) ([]DepartmentBaseline, error) {
	rows, err := db.QueryContext(ctx, baselineSelectQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list baselines: %w", err)
	}
	defer rows.Close()

	return scanBaselines(rows)
}

// DeleteBaseline removes the baseline for a department. Returns false when
// no baseline existed.
func (db *DB) DeleteBaseline(ctx context.Context, department string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM department_baselines WHERE department = $1`, department)
	if err != nil {
		return false, fmt.Errorf("failed to delete baseline: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}

	return deleted > 0, nil
}

func scanBaselines(rows *sql.Rows) ([]DepartmentBaseline, error) {
	var baselines []DepartmentBaseline
	for rows.Next() {
		var b DepartmentBaseline
		err := rows.Scan(
			&b.Department,
			&b.ExpectedDailyKg,
			&b.RiskThreshold,
			&b.InfectiousRatio,
			&b.SharpsRatio,
			&b.CostPerKg,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan baseline: %w", err)
		}
		baselines = append(baselines, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate baselines: %w", err)
	}

	return baselines, nil
}
