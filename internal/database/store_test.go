package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	return &DB{DB: mockDB}, mock
}

func TestInsertWasteEvent_WithoutAnalysisWritesNullRiskColumns(t *testing.T) {
	db, mock := newMockDB(t)

	event := &WasteEvent{
		ID:                "e1",
		Department:        "ICU",
		WasteType:         "Sharps",
		QuantityKg:        2.5,
		ProcedureCategory: "Routine Care",
		DisposalMethod:    "Autoclave",
		Shift:             "Morning",
		Timestamp:         time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO waste_events").
		WithArgs(
			event.ID, event.Department, event.WasteType, event.QuantityKg,
			event.ProcedureCategory, event.DisposalMethod, event.Shift,
			event.Notes, event.Timestamp,
			nil, nil, nil, nil, nil,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := db.InsertWasteEvent(context.Background(), event); err != nil {
		t.Fatalf("InsertWasteEvent failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestInsertWasteEvent_WithAnalysisWritesAllRiskColumns(t *testing.T) {
	db, mock := newMockDB(t)

	event := &WasteEvent{
		ID:                "e2",
		Department:        "Surgery",
		WasteType:         "Infectious",
		QuantityKg:        8,
		ProcedureCategory: "Major Surgery",
		DisposalMethod:    "Incineration",
		Shift:             "Night",
		Timestamp:         time.Date(2025, 3, 15, 22, 0, 0, 0, time.UTC),
		Risk: &RiskAnalysis{
			RiskScore:         85,
			Assessment:        "Unusual infectious volume",
			RecommendedAction: "Inspect disposal chain",
			AlertMessage:      "Infectious spike in Surgery",
			AnomalyDetected:   true,
		},
	}

	mock.ExpectExec("INSERT INTO waste_events").
		WithArgs(
			event.ID, event.Department, event.WasteType, event.QuantityKg,
			event.ProcedureCategory, event.DisposalMethod, event.Shift,
			event.Notes, event.Timestamp,
			int64(85), "Unusual infectious volume", "Inspect disposal chain",
			"Infectious spike in Surgery", true,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := db.InsertWasteEvent(context.Background(), event); err != nil {
		t.Fatalf("InsertWasteEvent failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestListWasteEvents_AttachesAnalysisOnlyWhenPresent(t *testing.T) {
	db, mock := newMockDB(t)

	columns := []string{
		"id", "department", "waste_type", "quantity_kg", "procedure_category",
		"disposal_method", "shift", "notes", "timestamp",
		"risk_score", "assessment", "recommended_action", "alert_message", "anomaly_detected",
	}
	ts := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(columns).
		AddRow("e1", "ICU", "Sharps", 3.0, "Routine Care", "Autoclave", "Morning", "double-bagged", ts,
			85, "assessment", "action", "alert", true).
		AddRow("e2", "Pediatrics", "General", 1.0, "Routine Care", "Landfill", "Afternoon", nil, ts,
			nil, nil, nil, nil, nil)

	mock.ExpectQuery("SELECT(.|\n)+FROM waste_events").
		WillReturnRows(rows)

	events, err := db.ListWasteEvents(context.Background(), EventFilters{})
	if err != nil {
		t.Fatalf("ListWasteEvents failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].Risk == nil || events[0].Risk.RiskScore != 85 {
		t.Errorf("Expected analysis on first event, got %+v", events[0].Risk)
	}
	if events[0].Notes != "double-bagged" {
		t.Errorf("Expected notes preserved, got %q", events[0].Notes)
	}
	if events[1].Risk != nil {
		t.Errorf("Expected no analysis on second event, got %+v", events[1].Risk)
	}
	if events[1].Notes != "" {
		t.Errorf("Expected empty notes for NULL column, got %q", events[1].Notes)
	}
}

func TestListWasteEvents_AppliesFiltersInOrder(t *testing.T) {
	db, mock := newMockDB(t)

	columns := []string{
		"id", "department", "waste_type", "quantity_kg", "procedure_category",
		"disposal_method", "shift", "notes", "timestamp",
		"risk_score", "assessment", "recommended_action", "alert_message", "anomaly_detected",
	}

	mock.ExpectQuery("SELECT(.|\n)+FROM waste_events(.|\n)+department = \\$1(.|\n)+waste_type = \\$2(.|\n)+LIMIT \\$3").
		WithArgs("ICU", "Sharps", 25).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := db.ListWasteEvents(context.Background(), EventFilters{
		Department: "ICU",
		WasteType:  "Sharps",
		Limit:      25,
	})
	if err != nil {
		t.Fatalf("ListWasteEvents failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestLoadSnapshotView_SingleTransaction(t *testing.T) {
	db, mock := newMockDB(t)

	eventColumns := []string{
		"id", "department", "waste_type", "quantity_kg", "procedure_category",
		"disposal_method", "shift", "notes", "timestamp",
		"risk_score", "assessment", "recommended_action", "alert_message", "anomaly_detected",
	}
	baselineColumns := []string{
		"department", "expected_daily_kg", "risk_threshold",
		"infectious_ratio", "sharps_ratio", "cost_per_kg", "updated_at",
	}

	since := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.|\n)+FROM waste_events(.|\n)+timestamp >= \\$1").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow("e1", "ICU", "Sharps", 3.0, "Routine Care", "Autoclave", "Morning", nil, ts,
				nil, nil, nil, nil, nil))
	mock.ExpectQuery("SELECT(.|\n)+FROM department_baselines").
		WillReturnRows(sqlmock.NewRows(baselineColumns).
			AddRow("ICU", 45.0, 70, 30, 15, 2.5, ts))
	mock.ExpectCommit()

	events, baselines, err := db.LoadSnapshotView(context.Background(), since)
	if err != nil {
		t.Fatalf("LoadSnapshotView failed: %v", err)
	}

	if len(events) != 1 || events[0].ID != "e1" {
		t.Errorf("Expected one event e1, got %+v", events)
	}
	if len(baselines) != 1 || baselines[0].Department != "ICU" {
		t.Errorf("Expected one ICU baseline, got %+v", baselines)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestGetBaseline_NotFoundReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT(.|\n)+FROM department_baselines").
		WithArgs("Radiology").
		WillReturnRows(sqlmock.NewRows([]string{
			"department", "expected_daily_kg", "risk_threshold",
			"infectious_ratio", "sharps_ratio", "cost_per_kg", "updated_at",
		}))

	baseline, err := db.GetBaseline(context.Background(), "Radiology")
	if err != nil {
		t.Fatalf("GetBaseline failed: %v", err)
	}
	if baseline != nil {
		t.Errorf("Expected nil for missing baseline, got %+v", baseline)
	}
}

func TestDeleteBaseline_ReportsWhetherRowExisted(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("DELETE FROM department_baselines").
		WithArgs("ICU").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM department_baselines").
		WithArgs("Radiology").
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := db.DeleteBaseline(context.Background(), "ICU")
	if err != nil {
		t.Fatalf("DeleteBaseline failed: %v", err)
	}
	if !found {
		t.Error("Expected found=true for existing baseline")
	}

	found, err = db.DeleteBaseline(context.Background(), "Radiology")
	if err != nil {
		t.Fatalf("DeleteBaseline failed: %v", err)
	}
	if found {
		t.Error("Expected found=false for missing baseline")
	}
}

func TestDeleteAllWasteEvents_ReturnsDeletedCount(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("DELETE FROM waste_events").
		WillReturnResult(sqlmock.NewResult(0, 7))

	deleted, err := db.DeleteAllWasteEvents(context.Background())
	if err != nil {
		t.Fatalf("DeleteAllWasteEvents failed: %v", err)
	}
	if deleted != 7 {
		t.Errorf("Expected 7 deleted, got %d", deleted)
	}
}
