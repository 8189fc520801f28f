// Package aggregation maintains the persisted daily rollup the history
// endpoint reads. The dashboard snapshot itself is derived live by the
// engine; this rollup only keeps long-range history cheap to query.
package aggregation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cwihealth/cwi-server/internal/database"
)

// DailyRollup upserts per-department, per-type daily totals.
type DailyRollup struct {
	db     *database.DB
	logger *zap.Logger
}

// NewDailyRollup creates a new daily rollup
func NewDailyRollup(db *database.DB, logger *zap.Logger) *DailyRollup {
	return &DailyRollup{db: db, logger: logger}
}

// Aggregate computes the rollup for the given calendar day (UTC). Re-runs
// for the same day overwrite previous totals.
func (r *DailyRollup) Aggregate(ctx context.Context, targetDay time.Time) error {
	day := targetDay.UTC().Truncate(24 * time.Hour)

	query := `
		INSERT INTO daily_department_totals (department, day, waste_type, total_kg)
		SELECT
			department,
			$1::date AS day,
			waste_type,
			SUM(quantity_kg) AS total_kg
		FROM
			waste_events
		WHERE
			timestamp >= $1::date AND timestamp < $1::date + INTERVAL '1 day'
		GROUP BY
			department, waste_type
		ON CONFLICT (department, day, waste_type) DO UPDATE
		SET total_kg = EXCLUDED.total_kg
	`

	result, err := r.db.ExecContext(ctx, query, day)
	if err != nil {
		return fmt.Errorf("failed to aggregate daily totals: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.Info("daily rollup completed",
		zap.String("day", day.Format("2006-01-02")),
		zap.Int64("rows", rowsAffected),
	)

	return nil
}

// AggregatePreviousDay rolls up the previous full day.
func (r *DailyRollup) AggregatePreviousDay(ctx context.Context) error {
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	return r.Aggregate(ctx, yesterday)
}

// CalculateNextRunTime returns the next occurrence of the configured
// time of day (format "HH:MM").
func (r *DailyRollup) CalculateNextRunTime(timeOfDay string) (time.Time, error) {
	now := time.Now()

	var hour, minute int
	if _, err := fmt.Sscanf(timeOfDay, "%d:%d", &hour, &minute); err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %s (expected HH:MM)", timeOfDay)
	}

	todayRun := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if now.After(todayRun) {
		return todayRun.AddDate(0, 0, 1), nil
	}

	return todayRun, nil
}
