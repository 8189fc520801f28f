package engine

import (
	"fmt"
	"time"

	"github.com/cwihealth/cwi-server/internal/database"
)

// Band is the risk severity classification derived from a risk score. It
// is purely a function of the score, independent of lifecycle status.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// Band score thresholds, inclusive at the lower bound of each band.
const (
	HighRiskThreshold   = 70
	MediumRiskThreshold = 50
)

// Classify maps a 0-100 risk score to its band.
func Classify(riskScore int) Band {
	switch {
	case riskScore >= HighRiskThreshold:
		return BandHigh
	case riskScore >= MediumRiskThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

// Status is the alert filter selector. "all" selects every alert and is
// not a lifecycle state itself.
type Status string

const (
	StatusActive       Status = "active"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
	StatusAll          Status = "all"
)

// ParseStatus validates a status query value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusAcknowledged, StatusResolved, StatusAll:
		return Status(s), nil
	default:
		return "", fmt.Errorf("invalid alert status %q", s)
	}
}

// LifecycleState tags the alert lifecycle variant.
type LifecycleState string

const (
	LifecycleActive       LifecycleState = "active"
	LifecycleAcknowledged LifecycleState = "acknowledged"
	LifecycleResolved     LifecycleState = "resolved"
)

// Lifecycle is the tagged lifecycle variant of an alert. Only the active
// constructor is reachable today: no transition API records
// acknowledgements or resolutions yet, so those states exist in the type
// but never in data. A future transition endpoint slots in here without
// reshaping the model.
type Lifecycle struct {
	State LifecycleState
	By    string
	At    *time.Time
}

// ActiveLifecycle is the state of every stored alert today.
func ActiveLifecycle() Lifecycle {
	return Lifecycle{State: LifecycleActive}
}

// AcknowledgedLifecycle constructs the acknowledged variant. Typed but
// currently unreachable from any operation.
func AcknowledgedLifecycle(by string, at time.Time) Lifecycle {
	return Lifecycle{State: LifecycleAcknowledged, By: by, At: &at}
}

// ResolvedLifecycle constructs the resolved variant. Typed but currently
// unreachable from any operation.
func ResolvedLifecycle(by string, at time.Time) Lifecycle {
	return Lifecycle{State: LifecycleResolved, By: by, At: &at}
}

// lifecycleOf returns the lifecycle for a stored event. With no recorded
// transitions every event is active.
func lifecycleOf(event database.WasteEvent) Lifecycle {
	return ActiveLifecycle()
}

// IsActiveAlert is the single authoritative active-alert rule: the event
// carries an analysis that flagged an anomaly, and no acknowledgement or
// resolution has been recorded. Snapshot counts and the alert-center
// filter both use this predicate.
func IsActiveAlert(event database.WasteEvent) bool {
	return event.Risk != nil &&
		event.Risk.AnomalyDetected &&
		lifecycleOf(event).State == LifecycleActive
}

// FilterByStatus selects events matching the requested lifecycle status,
// preserving input order. The alert universe is events carrying a risk
// analysis; acknowledged and resolved always select nothing until a
// transition mechanism exists.
func FilterByStatus(events []database.WasteEvent, status Status) []database.WasteEvent {
	filtered := []database.WasteEvent{}
	for _, event := range events {
		if event.Risk == nil {
			continue
		}

		switch status {
		case StatusAll:
			filtered = append(filtered, event)
		case StatusActive:
			if IsActiveAlert(event) {
				filtered = append(filtered, event)
			}
		case StatusAcknowledged:
			if lifecycleOf(event).State == LifecycleAcknowledged {
				filtered = append(filtered, event)
			}
		case StatusResolved:
			if lifecycleOf(event).State == LifecycleResolved {
				filtered = append(filtered, event)
			}
		}
	}
	return filtered
}
