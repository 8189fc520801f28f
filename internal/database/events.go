package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EventFilters narrows ListWasteEvents. Zero values mean "no filter".
type EventFilters struct {
	Department string
	WasteType  string
	Limit      int
}

const wasteEventColumns = `
	id, department, waste_type, quantity_kg, procedure_category,
	disposal_method, shift, notes, timestamp,
	risk_score, assessment, recommended_action, alert_message, anomaly_detected
`

// InsertWasteEvent stores a new waste event. The risk columns are written
// together or not at all, matching the all-or-nothing shape of the
// analysis itself.
func (db *DB) InsertWasteEvent(ctx context.Context, event *WasteEvent) error {
	query := `
		INSERT INTO waste_events (
			id, department, waste_type, quantity_kg, procedure_category,
			disposal_method, shift, notes, timestamp,
			risk_score, assessment, recommended_action, alert_message, anomaly_detected
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	var riskScore sql.NullInt64
	var assessment, recommendedAction, alertMessage sql.NullString
	var anomalyDetected sql.NullBool
	if event.Risk != nil {
		riskScore = sql.NullInt64{Int64: int64(event.Risk.RiskScore), Valid: true}
		assessment = sql.NullString{String: event.Risk.Assessment, Valid: true}
		recommendedAction = sql.NullString{String: event.Risk.RecommendedAction, Valid: true}
		alertMessage = sql.NullString{String: event.Risk.AlertMessage, Valid: true}
		anomalyDetected = sql.NullBool{Bool: event.Risk.AnomalyDetected, Valid: true}
	}

	_, err := db.ExecContext(ctx, query,
		event.ID,
		event.Department,
		event.WasteType,
		event.QuantityKg,
		event.ProcedureCategory,
		event.DisposalMethod,
		event.Shift,
		event.Notes,
		event.Timestamp,
		riskScore,
		assessment,
		recommendedAction,
		alertMessage,
		anomalyDetected,
	)
	if err != nil {
		return fmt.Errorf("failed to insert waste event: %w", err)
	}

	return nil
}

// ListWasteEvents returns events newest first, optionally filtered.
func (db *DB) ListWasteEvents(ctx context.Context, filters EventFilters) ([]WasteEvent, error) {
	query := `SELECT ` + wasteEventColumns + ` FROM waste_events WHERE 1=1`
	args := []interface{}{}

	if filters.Department != "" {
		args = append(args, filters.Department)
		query += fmt.Sprintf(" AND department = $%d", len(args))
	}
	if filters.WasteType != "" {
		args = append(args, filters.WasteType)
		query += fmt.Sprintf(" AND waste_type = $%d", len(args))
	}
	query += " ORDER BY timestamp DESC"
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list waste events: %w", err)
	}
	defer rows.Close()

	return scanWasteEvents(rows)
}

// ListEventsSince returns all events with timestamp >= since, oldest
// first. Insertion order downstream (the trend buckets) follows this
// chronological order.
func (db *DB) ListEventsSince(ctx context.Context, since time.Time) ([]WasteEvent, error) {
	query := `SELECT ` + wasteEventColumns + `
		FROM waste_events
		WHERE timestamp >= $1
		ORDER BY timestamp ASC`

	rows, err := db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list events since %s: %w", since.Format(time.RFC3339), err)
	}
	defer rows.Close()

	return scanWasteEvents(rows)
}

// ListAlertEvents returns events that carry a risk analysis, newest first.
func (db *DB) ListAlertEvents(ctx context.Context) ([]WasteEvent, error) {
	query := `SELECT ` + wasteEventColumns + `
		FROM waste_events
		WHERE risk_score IS NOT NULL
		ORDER BY timestamp DESC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert events: %w", err)
	}
	defer rows.Close()

	return scanWasteEvents(rows)
}

// DeleteAllWasteEvents clears the event store. Irreversible; the boundary
// requires explicit confirmation before calling this.
func (db *DB) DeleteAllWasteEvents(ctx context.Context) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM waste_events`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete waste events: %w", err)
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// LoadSnapshotView reads the events window and all baselines inside a
// single repeatable-read transaction so one snapshot computation never
// observes the stores mid-mutation.
func (db *DB) LoadSnapshotView(ctx context.Context, since time.Time) ([]WasteEvent, []DepartmentBaseline, error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	eventQuery := `SELECT ` + wasteEventColumns + `
		FROM waste_events
		WHERE timestamp >= $1
		ORDER BY timestamp ASC`

	rows, err := tx.QueryContext(ctx, eventQuery, since)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read events for snapshot: %w", err)
	}
	events, err := scanWasteEvents(rows)
	rows.Close()
	if err != nil {
		return nil, nil, err
	}

	baselineRows, err := tx.QueryContext(ctx, baselineSelectQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read baselines for snapshot: %w", err)
	}
	baselines, err := scanBaselines(baselineRows)
	baselineRows.Close()
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit snapshot transaction: %w", err)
	}

	return events, baselines, nil
}

func scanWasteEvents(rows *sql.Rows) ([]WasteEvent, error) {
	var events []WasteEvent
	for rows.Next() {
		var e WasteEvent
		var notes sql.NullString
		var riskScore sql.NullInt64
		var assessment, recommendedAction, alertMessage sql.NullString
		var anomalyDetected sql.NullBool

		err := rows.Scan(
			&e.ID,
			&e.Department,
			&e.WasteType,
			&e.QuantityKg,
			&e.ProcedureCategory,
			&e.DisposalMethod,
			&e.Shift,
			&notes,
			&e.Timestamp,
			&riskScore,
			&assessment,
			&recommendedAction,
			&alertMessage,
			&anomalyDetected,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan waste event: %w", err)
		}

		e.Notes = notes.String
		e.Timestamp = e.Timestamp.UTC()
		if riskScore.Valid {
			e.Risk = &RiskAnalysis{
				RiskScore:         int(riskScore.Int64),
				Assessment:        assessment.String,
				RecommendedAction: recommendedAction.String,
				AlertMessage:      alertMessage.String,
				AnomalyDetected:   anomalyDetected.Bool,
			}
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate waste events: %w", err)
	}

	return events, nil
}
