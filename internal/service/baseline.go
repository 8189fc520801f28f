package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cwihealth/cwi-server/internal/cache"
	"github.com/cwihealth/cwi-server/internal/database"
)

// BaselineService owns the department baseline configuration operations.
type BaselineService struct {
	db        *database.DB
	snapshots *cache.SnapshotCache
	logger    *zap.Logger
}

// NewBaselineService creates a baseline service. The snapshot cache may be
// nil.
func NewBaselineService(db *database.DB, snapshots *cache.SnapshotCache, logger *zap.Logger) *BaselineService {
	return &BaselineService{db: db, snapshots: snapshots, logger: logger}
}

// Save validates and upserts a baseline, last write wins on the department
// key, and returns the stored row.
func (s *BaselineService) Save(ctx context.Context, baseline *database.DepartmentBaseline) (*database.DepartmentBaseline, error) {
	if err := validateBaseline(baseline); err != nil {
		return nil, err
	}

	if err := s.db.UpsertBaseline(ctx, baseline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	stored, err := s.db.GetBaseline(ctx, baseline.Department)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.invalidateSnapshots(ctx)
	s.logger.Info("baseline saved",
		zap.String("department", baseline.Department),
		zap.Float64("expected_daily_kg", baseline.ExpectedDailyKg),
	)

	return stored, nil
}

// List returns all configured baselines.
func (s *BaselineService) List(ctx context.Context) ([]database.DepartmentBaseline, error) {
	baselines, err := s.db.ListBaselines(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return baselines, nil
}

// Delete removes a department's baseline. Departments without a baseline
// fall back to engine defaults afterwards.
func (s *BaselineService) Delete(ctx context.Context, department string) error {
	deleted, err := s.db.DeleteBaseline(ctx, department)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !deleted {
		return fmt.Errorf("%w: no baseline for department %q", ErrNotFound, department)
	}

	s.invalidateSnapshots(ctx)
	s.logger.Info("baseline deleted", zap.String("department", department))

	return nil
}

func (s *BaselineService) invalidateSnapshots(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Invalidate(ctx); err != nil {
		s.logger.Warn("snapshot cache invalidation failed", zap.Error(err))
	}
}
