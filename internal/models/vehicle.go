package models

// VehicleStatus is the lifecycle state of a fleet vehicle.
type VehicleStatus string

const (
	StatusActive      VehicleStatus = "active"
	StatusMaintenance VehicleStatus = "maintenance"
	StatusInactive    VehicleStatus = "inactive"
)

// Statuses lists every vehicle status in display order.
var Statuses = []VehicleStatus{StatusActive, StatusMaintenance, StatusInactive}

// IsValidStatus checks if a status is one of the known vehicle states
func IsValidStatus(status VehicleStatus) bool {
	switch status {
	case StatusActive, StatusMaintenance, StatusInactive:
		return true
	default:
		return false
	}
}

// Label returns the badge text shown for a status.
func (s VehicleStatus) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusMaintenance:
		return "Maintenance"
	case StatusInactive:
		return "Inactive"
	default:
		return string(s)
	}
}

// Vehicle represents a fleet vehicle as shown on the dashboard.
type Vehicle struct {
	ID             string        `bson:"_id" json:"id"`
	Model          string        `bson:"model" json:"model"`
	LicensePlate   string        `bson:"license_plate" json:"license_plate"`
	Status         VehicleStatus `bson:"status" json:"status"`
	Driver         *string       `bson:"driver,omitempty" json:"driver"`         // nil when unassigned
	CurrentMileage int           `bson:"current_mileage" json:"current_mileage"` // in kilometers
	FuelLevel      int           `bson:"fuel_level" json:"fuel_level"`           // percentage, 0-100
	Location       Location      `bson:"location" json:"location"`
	LastUpdated    string        `bson:"last_updated" json:"last_updated"`
}

// HasDriver reports whether a driver is assigned to the vehicle.
func (v Vehicle) HasDriver() bool {
	return v.Driver != nil
}

// DriverName returns the assigned driver's name, or "" when unassigned.
func (v Vehicle) DriverName() string {
	if v.Driver == nil {
		return ""
	}
	return *v.Driver
}

// DriverLabel returns the driver's name for display, "Unassigned" when there is none.
func (v Vehicle) DriverLabel() string {
	if v.Driver == nil {
		return "Unassigned"
	}
	return *v.Driver
}

// DriverPtr is a convenience for building vehicles with an assigned driver.
func DriverPtr(name string) *string {
	return &name
}
