package db

import (
	"context"

	"github.com/ukydev/fleet-dashboard/internal/models"
)

// VehicleSource supplies the fleet's vehicle records.
type VehicleSource interface {
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
}

// AlertSource supplies open maintenance alerts.
type AlertSource interface {
	ListAlerts(ctx context.Context) ([]models.MaintenanceAlert, error)
}

// MileageSource supplies the monthly mileage per vehicle model.
type MileageSource interface {
	ListMileage(ctx context.Context) ([]models.MileageSeries, error)
}

// VehicleCursor defines the interface for vehicle cursor operations.
type VehicleCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}
