package models

import (
	"time"
)

// Severity ranks how urgently a maintenance alert needs attention.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// IsValidSeverity checks if a severity is known
func IsValidSeverity(s Severity) bool {
	return s.Rank() > 0
}

// Rank orders severities: low=1, medium=2, high=3, unknown=0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	default:
		return 0
	}
}

// MaintenanceAlert represents a vehicle that needs service attention.
type MaintenanceAlert struct {
	VehicleID    string    `json:"vehicle_id" bson:"vehicle_id"`
	Model        string    `json:"model" bson:"model"`
	LicensePlate string    `json:"license_plate" bson:"license_plate"`
	Issue        string    `json:"issue" bson:"issue"`
	DueDate      time.Time `json:"due_date" bson:"due_date"`
	Severity     Severity  `json:"severity" bson:"severity"`
}
