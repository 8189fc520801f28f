// Package protocol defines the wire format of messages on the internal
// Kafka topics.
package protocol

import (
	"encoding/json"
	"time"
)

// AlertMessage announces an anomaly-flagged waste event on the alerts
// topic. Consumed by the alert writer (audit log) and the notification
// service (email fan-out).
type AlertMessage struct {
	EventID    string    `json:"event_id"`
	Department string    `json:"department"`
	WasteType  string    `json:"waste_type"`
	QuantityKg float64   `json:"quantity_kg"`
	RiskScore  int       `json:"risk_score"`
	Band       string    `json:"band"`
	Message    string    `json:"message"`
	RaisedAt   time.Time `json:"raised_at"`
}

// EncodeAlertMessage encodes an AlertMessage to JSON
func EncodeAlertMessage(msg *AlertMessage) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeAlertMessage decodes JSON to AlertMessage
func DecodeAlertMessage(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
