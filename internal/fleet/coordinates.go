package fleet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ukydev/fleet-dashboard/internal/models"
)

// ErrInvalidCoordinates is returned when coordinate text cannot be used as a location.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// ParseCoordinates parses "latitude, longitude" text such as "34.0522, -118.2437".
func ParseCoordinates(text string) (models.Location, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return models.Location{}, fmt.Errorf("%w: expected \"latitude, longitude\", got %q", ErrInvalidCoordinates, text)
	}
	lat, err := parseDegrees(parts[0])
	if err != nil {
		return models.Location{}, fmt.Errorf("%w: latitude: %v", ErrInvalidCoordinates, err)
	}
	lng, err := parseDegrees(parts[1])
	if err != nil {
		return models.Location{}, fmt.Errorf("%w: longitude: %v", ErrInvalidCoordinates, err)
	}
	loc := models.Location{Lat: lat, Lng: lng}
	if !loc.Valid() {
		return models.Location{}, fmt.Errorf("%w: %s is out of range", ErrInvalidCoordinates, loc)
	}
	return loc, nil
}

func parseDegrees(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}
