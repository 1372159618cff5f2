package fleet

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ukydev/fleet-dashboard/internal/models"
)

// SortKey names the vehicle attribute a list is sorted by.
type SortKey string

const (
	SortByID             SortKey = "id"
	SortByModel          SortKey = "model"
	SortByLicensePlate   SortKey = "licensePlate"
	SortByStatus         SortKey = "status"
	SortByDriver         SortKey = "driver"
	SortByCurrentMileage SortKey = "currentMileage"
	SortByFuelLevel      SortKey = "fuelLevel"
	SortByLastUpdated    SortKey = "lastUpdated"
	SortByLocation       SortKey = "location"
)

var sortKeys = []SortKey{
	SortByID, SortByModel, SortByLicensePlate, SortByStatus, SortByDriver,
	SortByCurrentMileage, SortByFuelLevel, SortByLastUpdated, SortByLocation,
}

// ParseSortKey accepts the camelCase column names as well as their snake_case JSON
// spelling, ignoring case. An empty value sorts by id.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortByID, nil
	}
	norm := strings.ToLower(strings.ReplaceAll(s, "_", ""))
	for _, k := range sortKeys {
		if strings.ToLower(string(k)) == norm {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Direction is the order a list is sorted in.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection converts a request value into a Direction. An empty value is ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// Toggle returns the opposite direction, as a repeated click on a column header does.
func (d Direction) Toggle() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// SortVehicles returns a sorted copy of records. Numbers compare numerically and strings
// with English collation. The sort is stable, and descending uses the exact inverse of the
// ascending comparison. Values of different or unsupported types compare equal, so sorting
// by location or by an unknown key leaves the order unchanged.
func SortVehicles(records []models.Vehicle, key SortKey, direction Direction) []models.Vehicle {
	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []models.Vehicle{}
	}
	// A Collator keeps scratch buffers and must not be shared between goroutines.
	col := collate.New(language.English)
	slices.SortStableFunc(sorted, func(a, b models.Vehicle) int {
		if direction == Descending {
			return compareValues(col, sortValue(b, key), sortValue(a, key))
		}
		return compareValues(col, sortValue(a, key), sortValue(b, key))
	})
	return sorted
}

// sortValue extracts the column value. Unassigned drivers sort as the empty string.
func sortValue(v models.Vehicle, key SortKey) any {
	switch key {
	case SortByID:
		return v.ID
	case SortByModel:
		return v.Model
	case SortByLicensePlate:
		return v.LicensePlate
	case SortByStatus:
		return string(v.Status)
	case SortByDriver:
		return v.DriverName()
	case SortByCurrentMileage:
		return v.CurrentMileage
	case SortByFuelLevel:
		return v.FuelLevel
	case SortByLastUpdated:
		return v.LastUpdated
	case SortByLocation:
		return v.Location
	default:
		return nil
	}
}

// compareValues compares int with int and string with string. Anything else is a tie.
// TODO: reject mixed-type and unsupported keys in SortVehicles once the API no longer
// accepts location as a sort column.
func compareValues(col *collate.Collator, a, b any) int {
	switch av := a.(type) {
	case int:
		if bv, ok := b.(int); ok {
			return cmp.Compare(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return col.CompareString(av, bv)
		}
	}
	return 0
}
