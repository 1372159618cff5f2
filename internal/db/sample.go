package db

import (
	"context"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/models"
)

// SampleVehicles returns the eight demo vehicles around Los Angeles shown on a fresh dashboard.
func SampleVehicles() []models.Vehicle {
	return []models.Vehicle{
		{
			ID: "CAR-001", Model: "Toyota Camry", LicensePlate: "ABC-1234", Status: models.StatusActive,
			Driver: models.DriverPtr("John Smith"), CurrentMileage: 45678, FuelLevel: 75,
			Location: models.Location{Lat: 34.052235, Lng: -118.243683}, LastUpdated: "10 minutes ago",
		},
		{
			ID: "CAR-002", Model: "Honda Accord", LicensePlate: "XYZ-5678", Status: models.StatusMaintenance,
			Driver: models.DriverPtr("Emily Johnson"), CurrentMileage: 32456, FuelLevel: 45,
			Location: models.Location{Lat: 34.0522, Lng: -118.2437}, LastUpdated: "25 minutes ago",
		},
		{
			ID: "CAR-003", Model: "Ford Explorer", LicensePlate: "DEF-9012", Status: models.StatusActive,
			Driver: models.DriverPtr("Michael Brown"), CurrentMileage: 78901, FuelLevel: 60,
			Location: models.Location{Lat: 34.0407, Lng: -118.2468}, LastUpdated: "5 minutes ago",
		},
		{
			ID: "CAR-004", Model: "Chevrolet Malibu", LicensePlate: "GHI-3456", Status: models.StatusInactive,
			Driver: nil, CurrentMileage: 12345, FuelLevel: 30,
			Location: models.Location{Lat: 34.0736, Lng: -118.24}, LastUpdated: "2 hours ago",
		},
		{
			ID: "CAR-005", Model: "Nissan Altima", LicensePlate: "JKL-7890", Status: models.StatusActive,
			Driver: models.DriverPtr("Sarah Wilson"), CurrentMileage: 56789, FuelLevel: 85,
			Location: models.Location{Lat: 34.0194, Lng: -118.4912}, LastUpdated: "15 minutes ago",
		},
		{
			ID: "CAR-006", Model: "Hyundai Sonata", LicensePlate: "MNO-1234", Status: models.StatusMaintenance,
			Driver: models.DriverPtr("David Lee"), CurrentMileage: 67890, FuelLevel: 25,
			Location: models.Location{Lat: 34.1478, Lng: -118.1445}, LastUpdated: "1 hour ago",
		},
		{
			ID: "CAR-007", Model: "Kia Optima", LicensePlate: "PQR-5678", Status: models.StatusActive,
			Driver: models.DriverPtr("Jennifer Martinez"), CurrentMileage: 34567, FuelLevel: 70,
			Location: models.Location{Lat: 33.9416, Lng: -118.4085}, LastUpdated: "30 minutes ago",
		},
		{
			ID: "CAR-008", Model: "Mazda 6", LicensePlate: "STU-9012", Status: models.StatusActive,
			Driver: models.DriverPtr("Robert Taylor"), CurrentMileage: 23456, FuelLevel: 65,
			Location: models.Location{Lat: 34.0825, Lng: -118.371}, LastUpdated: "20 minutes ago",
		},
	}
}

// SampleAlerts returns the demo maintenance alerts.
func SampleAlerts() []models.MaintenanceAlert {
	return []models.MaintenanceAlert{
		{
			VehicleID: "CAR-002", Model: "Honda Accord", LicensePlate: "XYZ-5678",
			Issue: "Oil change required", DueDate: date(2024, time.April, 10), Severity: models.SeverityMedium,
		},
		{
			VehicleID: "CAR-006", Model: "Hyundai Sonata", LicensePlate: "MNO-1234",
			Issue: "Brake pads worn", DueDate: date(2024, time.April, 7), Severity: models.SeverityHigh,
		},
		{
			VehicleID: "CAR-008", Model: "Mazda 6", LicensePlate: "STU-9012",
			Issue: "Tire rotation needed", DueDate: date(2024, time.April, 15), Severity: models.SeverityLow,
		},
	}
}

// SampleMileage returns the monthly kilometers per model for January to June.
func SampleMileage() []models.MileageSeries {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	series := func(model string, km ...int) models.MileageSeries {
		s := models.MileageSeries{Model: model, Points: make([]models.MileagePoint, len(km))}
		for i, v := range km {
			s.Points[i] = models.MileagePoint{Month: months[i], Km: v}
		}
		return s
	}
	return []models.MileageSeries{
		series("Toyota Camry", 2500, 2300, 2800, 2600, 3000, 2900),
		series("Honda Accord", 2100, 1800, 2400, 2200, 2500, 2300),
		series("Ford Explorer", 3200, 2900, 3500, 3100, 3800, 3600),
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// StaticSource serves the sample data. It never fails.
type StaticSource struct{}

func (StaticSource) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return SampleVehicles(), nil
}

func (StaticSource) ListAlerts(ctx context.Context) ([]models.MaintenanceAlert, error) {
	return SampleAlerts(), nil
}

func (StaticSource) ListMileage(ctx context.Context) ([]models.MileageSeries, error) {
	return SampleMileage(), nil
}
