package models

import (
	"errors"
	"fmt"
)

// Telemetry is a live position report for one vehicle, as published on the location feed.
type Telemetry struct {
	VehicleID   string         `json:"vehicle_id"`
	Lat         float64        `json:"lat"`
	Lng         float64        `json:"lng"`
	FuelLevel   *int           `json:"fuel_level,omitempty"`
	Status      *VehicleStatus `json:"status,omitempty"`
	LastUpdated string         `json:"last_updated,omitempty"`
}

// Location returns the reported position.
func (t Telemetry) Location() Location {
	return Location{Lat: t.Lat, Lng: t.Lng}
}

// Validate checks the report before it is applied to a vehicle.
func (t Telemetry) Validate() error {
	if t.VehicleID == "" {
		return errors.New("vehicle_id is required")
	}
	if !t.Location().Valid() {
		return fmt.Errorf("coordinates out of range: %s", t.Location())
	}
	if t.FuelLevel != nil && (*t.FuelLevel < 0 || *t.FuelLevel > 100) {
		return fmt.Errorf("fuel_level out of range: %d", *t.FuelLevel)
	}
	if t.Status != nil && !IsValidStatus(*t.Status) {
		return fmt.Errorf("invalid status: %q", *t.Status)
	}
	return nil
}
