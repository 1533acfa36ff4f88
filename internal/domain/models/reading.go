package models

import "time"

// SensorReading is a single measurement from one sensor on one piece of equipment.
// Readings for a given sensor are assumed to arrive at a uniform sampling interval;
// the analytics engine works on the value sequence alone.
type SensorReading struct {
	EquipmentID string
	SensorID    string
	Value       float64
	Timestamp   int64 // unix seconds
}

// AnalysisEvent is published to the events topic after an analytics request
// completes, so downstream notification consumers can fan out alerts.
type AnalysisEvent struct {
	RequestID   string    `json:"request_id"`
	EquipmentID string    `json:"equipment_id,omitempty"`
	SensorID    string    `json:"sensor_id,omitempty"`
	Kind        string    `json:"kind"` // SPECTRAL | STATISTICS | FORECAST | OPTIMIZE
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Detail      string    `json:"detail,omitempty"`
}
