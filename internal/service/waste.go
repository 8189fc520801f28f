// Package service orchestrates stores, the scoring client, the cache and
// the alert pipeline around the derivation engine. All business state
// lives in the stores; services hold only wiring.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cwihealth/cwi-server/internal/cache"
	"github.com/cwihealth/cwi-server/internal/database"
	"github.com/cwihealth/cwi-server/internal/engine"
	"github.com/cwihealth/cwi-server/internal/protocol"
	"github.com/cwihealth/cwi-server/internal/queue"
	"github.com/cwihealth/cwi-server/internal/risk"
)

// LogWasteInput is a waste entry before the server assigns identity,
// timestamp and risk analysis.
type LogWasteInput struct {
	Department        string  `json:"department"`
	WasteType         string  `json:"wasteType"`
	QuantityKg        float64 `json:"quantityKg"`
	ProcedureCategory string  `json:"procedureCategory"`
	DisposalMethod    string  `json:"disposalMethod"`
	Shift             string  `json:"shift"`
	Notes             string  `json:"notes,omitempty"`
}

// Alert is a waste event with its classifier band attached for the alert
// center view.
type Alert struct {
	database.WasteEvent
	Band engine.Band `json:"band"`
}

// Scorer is the external risk scoring collaborator.
type Scorer interface {
	Analyze(ctx context.Context, req *risk.Request) (*database.RiskAnalysis, error)
}

// AlertPublisher fans raised alerts out to the pipeline.
type AlertPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// WasteService owns the waste-entry operations and the stats/alerts read
// paths.
type WasteService struct {
	db        *database.DB
	scorer    Scorer
	publisher AlertPublisher
	snapshots *cache.SnapshotCache
	logger    *zap.Logger
	now       func() time.Time
}

// NewWasteService creates a waste service. The publisher and snapshot
// cache may be nil (single-binary deployments without Kafka or Redis);
// everything else is required.
func NewWasteService(
	db *database.DB,
	scorer Scorer,
	publisher AlertPublisher,
	snapshots *cache.SnapshotCache,
	logger *zap.Logger,
) *WasteService {
	return &WasteService{
		db:        db,
		scorer:    scorer,
		publisher: publisher,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *WasteService) WithClock(now func() time.Time) *WasteService {
	s.now = now
	return s
}

// LogWaste validates and stores a new waste entry. The entry is sent to
// the external scorer first; if scoring fails the event is stored without
// an analysis rather than lost. Anomaly-flagged entries are published to
// the alerts topic after the store write succeeds.
func (s *WasteService) LogWaste(ctx context.Context, input *LogWasteInput) (*database.WasteEvent, error) {
	if err := validateLogWasteInput(input); err != nil {
		return nil, err
	}

	event := &database.WasteEvent{
		ID:                uuid.NewString(),
		Department:        input.Department,
		WasteType:         input.WasteType,
		QuantityKg:        input.QuantityKg,
		ProcedureCategory: input.ProcedureCategory,
		DisposalMethod:    input.DisposalMethod,
		Shift:             input.Shift,
		Notes:             input.Notes,
		Timestamp:         s.now().UTC(),
	}

	analysis, err := s.scorer.Analyze(ctx, &risk.Request{
		Department:        input.Department,
		WasteType:         input.WasteType,
		QuantityKg:        input.QuantityKg,
		ProcedureCategory: input.ProcedureCategory,
		DisposalMethod:    input.DisposalMethod,
		Shift:             input.Shift,
		Notes:             input.Notes,
	})
	if err != nil {
		// The analysis is optional on the event; the entry itself must
		// not be lost because the scorer is down.
		s.logger.Warn("risk scoring failed, storing entry without analysis",
			zap.String("department", input.Department),
			zap.Error(err),
		)
	} else {
		event.Risk = analysis
	}

	if err := s.db.InsertWasteEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if event.Risk != nil && event.Risk.AnomalyDetected {
		s.publishAlert(ctx, event)
	}

	s.invalidateSnapshots(ctx)

	return event, nil
}

// ListEntries returns stored waste entries, newest first.
func (s *WasteService) ListEntries(ctx context.Context, filters database.EventFilters) ([]database.WasteEvent, error) {
	if filters.Department != "" && !isOneOf(filters.Department, database.Departments) {
		return nil, fmt.Errorf("%w: unknown department %q", ErrInvalidInput, filters.Department)
	}
	if filters.WasteType != "" && !isOneOf(filters.WasteType, database.WasteTypes) {
		return nil, fmt.Errorf("%w: unknown waste type %q", ErrInvalidInput, filters.WasteType)
	}
	if filters.Limit <= 0 {
		filters.Limit = 100
	}
	if filters.Limit > 500 {
		filters.Limit = 500
	}

	events, err := s.db.ListWasteEvents(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return events, nil
}

// GetStats assembles the dashboard snapshot from one consistent store
// view. A failed store read fails the whole call; there is no partial
// snapshot.
func (s *WasteService) GetStats(ctx context.Context) (*engine.Snapshot, error) {
	if s.snapshots != nil {
		cached, err := s.snapshots.Get(ctx)
		if err != nil {
			s.logger.Warn("snapshot cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	now := s.now().UTC()
	windowStart := engine.StartOfDay(now).AddDate(0, 0, -(engine.TrendWindowDays - 1))

	events, baselines, err := s.db.LoadSnapshotView(ctx, windowStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	snapshot := engine.BuildSnapshot(events, baselines, now)

	if s.snapshots != nil {
		if err := s.snapshots.Set(ctx, snapshot); err != nil {
			s.logger.Warn("snapshot cache write failed", zap.Error(err))
		}
	}

	return snapshot, nil
}

// GetAlerts returns events matching the requested lifecycle status with
// their classifier band attached, newest first.
func (s *WasteService) GetAlerts(ctx context.Context, status string) ([]Alert, error) {
	parsed, err := engine.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	events, err := s.db.ListAlertEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	filtered := engine.FilterByStatus(events, parsed)
	alerts := make([]Alert, 0, len(filtered))
	for _, event := range filtered {
		alerts = append(alerts, Alert{
			WasteEvent: event,
			Band:       engine.Classify(event.Risk.RiskScore),
		})
	}

	return alerts, nil
}

// History returns daily rollup rows for the trailing number of days.
func (s *WasteService) History(ctx context.Context, days int) ([]database.DailyDepartmentTotal, error) {
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		return nil, fmt.Errorf("%w: history window must be at most 365 days, got %d", ErrInvalidInput, days)
	}

	today := engine.StartOfDay(s.now())
	from := today.AddDate(0, 0, -(days - 1))

	totals, err := s.db.ListDailyTotals(ctx, from, today)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return totals, nil
}

// ResetAllData clears the event store. Irreversible; the boundary demands
// explicit confirmation before calling.
func (s *WasteService) ResetAllData(ctx context.Context) (int64, error) {
	deleted, err := s.db.DeleteAllWasteEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.invalidateSnapshots(ctx)
	s.logger.Info("event store reset", zap.Int64("deleted", deleted))

	return deleted, nil
}

func (s *WasteService) publishAlert(ctx context.Context, event *database.WasteEvent) {
	if s.publisher == nil {
		return
	}

	message := event.Risk.AlertMessage
	if message == "" {
		message = "Waste anomaly detected"
	}

	data, err := protocol.EncodeAlertMessage(&protocol.AlertMessage{
		EventID:    event.ID,
		Department: event.Department,
		WasteType:  event.WasteType,
		QuantityKg: event.QuantityKg,
		RiskScore:  event.Risk.RiskScore,
		Band:       string(engine.Classify(event.Risk.RiskScore)),
		Message:    message,
		RaisedAt:   event.Timestamp,
	})
	if err != nil {
		s.logger.Error("failed to encode alert message", zap.Error(err))
		return
	}

	// Alert fan-out is best effort; the entry is already stored.
	if err := s.publisher.Publish(ctx, event.Department, data); err != nil {
		s.logger.Error("failed to publish alert",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}
}

func (s *WasteService) invalidateSnapshots(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Invalidate(ctx); err != nil {
		s.logger.Warn("snapshot cache invalidation failed", zap.Error(err))
	}
}

var _ Scorer = (*risk.Client)(nil)
var _ AlertPublisher = (*queue.Producer)(nil)
