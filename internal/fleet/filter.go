package fleet

import (
	"fmt"
	"strings"

	"github.com/ukydev/fleet-dashboard/internal/models"
)

// StatusFilter selects vehicles by status. StatusAll matches every vehicle.
type StatusFilter string

const (
	StatusAll         StatusFilter = "all"
	StatusActive      StatusFilter = StatusFilter(models.StatusActive)
	StatusMaintenance StatusFilter = StatusFilter(models.StatusMaintenance)
	StatusInactive    StatusFilter = StatusFilter(models.StatusInactive)
)

// ParseStatusFilter converts a request value into a StatusFilter. An empty value means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" {
		return StatusAll, nil
	}
	f := StatusFilter(strings.ToLower(s))
	if f == StatusAll || models.IsValidStatus(models.VehicleStatus(f)) {
		return f, nil
	}
	return "", fmt.Errorf("unknown status filter %q", s)
}

// Matches reports whether a vehicle status passes the filter.
func (f StatusFilter) Matches(status models.VehicleStatus) bool {
	return f == StatusAll || models.VehicleStatus(f) == status
}

// FilterVehicles returns the vehicles whose status passes statusFilter and whose model,
// license plate, driver or id contains searchQuery, ignoring case. Input order is kept.
// An empty query matches every vehicle.
func FilterVehicles(records []models.Vehicle, searchQuery string, statusFilter StatusFilter) []models.Vehicle {
	query := strings.ToLower(searchQuery)
	res := make([]models.Vehicle, 0, len(records))
	for _, v := range records {
		if !statusFilter.Matches(v.Status) {
			continue
		}
		if query != "" && !matchesSearch(v, query) {
			continue
		}
		res = append(res, v)
	}
	return res
}

// matchesSearch expects query to be lowercased already.
func matchesSearch(v models.Vehicle, query string) bool {
	fields := [...]string{v.Model, v.LicensePlate, v.DriverName(), v.ID}
	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
