package fleet

import (
	"cmp"
	"slices"

	"github.com/ukydev/fleet-dashboard/internal/models"
)

// DefaultNearestCount is how many vehicles the map view lists around a searched point.
const DefaultNearestCount = 3

// VehicleDistance pairs a vehicle with its distance from a query origin.
type VehicleDistance struct {
	Vehicle    models.Vehicle `json:"vehicle"`
	DistanceKm float64        `json:"distance_km"`
}

// NearestVehicles returns up to k vehicles closest to origin, nearest first.
// Vehicles at equal distance keep their input order.
func NearestVehicles(records []models.Vehicle, origin models.Location, k int) []VehicleDistance {
	if len(records) == 0 || k <= 0 {
		return []VehicleDistance{}
	}
	ranked := make([]VehicleDistance, len(records))
	for i, v := range records {
		ranked[i] = VehicleDistance{Vehicle: v, DistanceKm: HaversineDistanceKm(origin, v.Location)}
	}
	slices.SortStableFunc(ranked, func(a, b VehicleDistance) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
