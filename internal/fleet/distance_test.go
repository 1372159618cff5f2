package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

func TestHaversineDistanceKm(t *testing.T) {
	tests := []struct {
		name     string
		a, b     models.Location
		expected float64
		delta    float64
	}{
		{"downtown los angeles", models.Location{Lat: 34.0522, Lng: -118.2437}, models.Location{Lat: 34.0407, Lng: -118.2468}, 1.29, 0.05},
		{"one degree of longitude on the equator", models.Location{Lat: 0, Lng: 0}, models.Location{Lat: 0, Lng: 1}, 111.195, 0.01},
		{"pole to pole", models.Location{Lat: 90, Lng: 0}, models.Location{Lat: -90, Lng: 0}, 20015.09, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, HaversineDistanceKm(tt.a, tt.b), tt.delta)
		})
	}
}

func TestHaversineDistanceKm_SamePointIsZero(t *testing.T) {
	for _, v := range db.SampleVehicles() {
		assert.Equal(t, 0.0, HaversineDistanceKm(v.Location, v.Location), v.ID)
	}
}

func TestHaversineDistanceKm_Symmetric(t *testing.T) {
	vehicles := db.SampleVehicles()
	for _, a := range vehicles {
		for _, b := range vehicles {
			assert.InDelta(t, HaversineDistanceKm(a.Location, b.Location), HaversineDistanceKm(b.Location, a.Location), 1e-9)
		}
	}
}

func TestHaversineDistanceKm_OutOfRangeDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = HaversineDistanceKm(models.Location{Lat: 200, Lng: 500}, models.Location{Lat: -300, Lng: 0})
	})
}
