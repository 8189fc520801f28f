package database

import (
	"context"
	"fmt"
	"time"
)

// InsertAlertLogBatch appends a batch of raised alerts to the audit log in
// one transaction.
func (db *DB) InsertAlertLogBatch(ctx context.Context, entries []AlertLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin alert log transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO alert_log (
			event_id, department, waste_type, quantity_kg,
			risk_score, band, message, raised_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare alert log insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		_, err := stmt.ExecContext(ctx,
			entry.EventID,
			entry.Department,
			entry.WasteType,
			entry.QuantityKg,
			entry.RiskScore,
			entry.Band,
			entry.Message,
			entry.RaisedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert alert log entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit alert log batch: %w", err)
	}

	return nil
}

// ListDailyTotals returns rollup rows for the inclusive day range, oldest
// first.
func (db *DB) ListDailyTotals(ctx context.Context, from, to time.Time) ([]DailyDepartmentTotal, error) {
	query := `
		SELECT department, day, waste_type, total_kg
		FROM daily_department_totals
		WHERE day >= $1::date AND day <= $2::date
		ORDER BY day ASC, department ASC, waste_type ASC
	`

	rows, err := db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily totals: %w", err)
	}
	defer rows.Close()

	var totals []DailyDepartmentTotal
	for rows.Next() {
		var t DailyDepartmentTotal
		if err := rows.Scan(&t.Department, &t.Day, &t.WasteType, &t.TotalKg); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily totals: %w", err)
	}

	return totals, nil
}
