package database

import (
	"time"
)

// Departments recognized by the hospital network. Waste entries referencing
// any other department are rejected before they reach the store.
var Departments = []string{
	"Emergency",
	"Surgery",
	"ICU",
	"Pediatrics",
	"Oncology",
	"Radiology",
	"Laboratory",
	"Pharmacy",
	"General Ward",
	"Outpatient",
}

// WasteTypes is the fixed waste category set.
var WasteTypes = []string{
	"Infectious",
	"Pharmaceutical",
	"Sharps",
	"Chemical",
	"Radioactive",
	"General",
	"Recyclable",
}

var ProcedureCategories = []string{
	"Routine Care",
	"Minor Procedure",
	"Major Surgery",
	"Diagnostic",
	"Treatment",
	"Emergency Response",
	"Chemotherapy",
	"Dialysis",
}

var DisposalMethods = []string{
	"Incineration",
	"Autoclave",
	"Chemical Treatment",
	"Secure Landfill",
	"Recycling",
	"Special Handling",
}

var Shifts = []string{"Morning", "Afternoon", "Night"}

// RiskAnalysis is attached to a waste event by the upstream scoring
// service. It is either fully present or fully absent; a partially
// populated analysis is not a valid state.
type RiskAnalysis struct {
	RiskScore         int    `json:"riskScore"`
	Assessment        string `json:"assessment"`
	RecommendedAction string `json:"recommendedAction"`
	AlertMessage      string `json:"alertMessage,omitempty"`
	AnomalyDetected   bool   `json:"anomalyDetected"`
}

// WasteEvent is one logged disposal record. Immutable once written.
type WasteEvent struct {
	ID                string        `json:"id"`
	Department        string        `json:"department"`
	WasteType         string        `json:"wasteType"`
	QuantityKg        float64       `json:"quantityKg"`
	ProcedureCategory string        `json:"procedureCategory"`
	DisposalMethod    string        `json:"disposalMethod"`
	Shift             string        `json:"shift"`
	Notes             string        `json:"notes,omitempty"`
	Timestamp         time.Time     `json:"timestamp"`
	Risk              *RiskAnalysis `json:"riskAnalysis,omitempty"`
}

// DepartmentBaseline is the per-department expected-load configuration.
// One row per department, last write wins.
type DepartmentBaseline struct {
	Department      string    `json:"department"`
	ExpectedDailyKg float64   `json:"expectedDailyKg"`
	RiskThreshold   int       `json:"riskThreshold"`
	InfectiousRatio float64   `json:"infectiousRatio"`
	SharpsRatio     float64   `json:"sharpsRatio"`
	CostPerKg       float64   `json:"costPerKg"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// AlertLogEntry is one row of the append-only alert audit log, written by
// the alertwriter consumer.
type AlertLogEntry struct {
	ID         int64
	EventID    string
	Department string
	WasteType  string
	QuantityKg float64
	RiskScore  int
	Band       string
	Message    string
	RaisedAt   time.Time
	CreatedAt  time.Time
}

// DailyDepartmentTotal is one row of the daily rollup table maintained by
// the aggregator service.
type DailyDepartmentTotal struct {
	Department string    `json:"department"`
	Day        time.Time `json:"day"`
	WasteType  string    `json:"wasteType"`
	TotalKg    float64   `json:"totalKg"`
}
