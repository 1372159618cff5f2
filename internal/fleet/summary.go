package fleet

import (
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// LowFuelThreshold is the fuel percentage below which a vehicle counts as low on fuel.
const LowFuelThreshold = 30

// StatusShare is one slice of the fleet overview chart.
type StatusShare struct {
	Status  models.VehicleStatus `json:"status"`
	Label   string               `json:"label"`
	Count   int                  `json:"count"`
	Percent float64              `json:"percent"`
}

// FleetSummary holds the headline numbers of the dashboard overview.
type FleetSummary struct {
	Total            int           `json:"total"`
	Shares           []StatusShare `json:"shares"`
	TotalMileageKm   int           `json:"total_mileage_km"`
	AverageFuelLevel float64       `json:"average_fuel_level"`
	LowFuel          int           `json:"low_fuel"`
	Unassigned       int           `json:"unassigned"`
}

// Count returns the number of vehicles with the given status.
func (s FleetSummary) Count(status models.VehicleStatus) int {
	for _, share := range s.Shares {
		if share.Status == status {
			return share.Count
		}
	}
	return 0
}

// Summarize computes the overview numbers for records. Shares are listed for every status,
// in display order, even when a status has no vehicles.
func Summarize(records []models.Vehicle) FleetSummary {
	counts := make(map[models.VehicleStatus]int, len(models.Statuses))
	sum := FleetSummary{Total: len(records)}
	fuel := 0
	for _, v := range records {
		counts[v.Status]++
		sum.TotalMileageKm += v.CurrentMileage
		fuel += v.FuelLevel
		if v.FuelLevel < LowFuelThreshold {
			sum.LowFuel++
		}
		if !v.HasDriver() {
			sum.Unassigned++
		}
	}

	sum.Shares = make([]StatusShare, 0, len(models.Statuses))
	for _, status := range models.Statuses {
		share := StatusShare{Status: status, Label: status.Label(), Count: counts[status]}
		if sum.Total > 0 {
			share.Percent = float64(share.Count) * 100 / float64(sum.Total)
			sum.AverageFuelLevel = float64(fuel) / float64(sum.Total)
		}
		sum.Shares = append(sum.Shares, share)
	}
	return sum
}
