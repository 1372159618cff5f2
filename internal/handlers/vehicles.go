package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/fleet"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// VehicleHandler serves the vehicle table, nearest lookup and map layer.
type VehicleHandler struct {
	vehicles db.VehicleSource
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicles db.VehicleSource) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// filtered loads the records and applies the q and status parameters.
func (h *VehicleHandler) filtered(w http.ResponseWriter, r *http.Request) ([]models.Vehicle, bool) {
	query := r.URL.Query()
	status, err := fleet.ParseStatusFilter(query.Get("status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	records, err := h.vehicles.ListVehicles(r.Context())
	if err != nil {
		serverError(w, r, err, "Failed to load vehicles")
		return nil, false
	}
	return fleet.FilterVehicles(records, query.Get("q"), status), true
}

// List handles GET /api/vehicles?q=&status=&sort=&dir=
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	query := r.URL.Query()
	key, err := fleet.ParseSortKey(query.Get("sort"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dir, err := fleet.ParseDirection(query.Get("dir"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, ok := h.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, "application/json", fleet.SortVehicles(records, key, dir))
}

// Nearest handles GET /api/vehicles/nearest?lat=&lng=&k= (or coords=lat,lng)
func (h *VehicleHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	query := r.URL.Query()
	origin, err := originFromQuery(query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	k := fleet.DefaultNearestCount
	if raw := query.Get("k"); raw != "" {
		k, err = strconv.Atoi(raw)
		if err != nil || k < 0 {
			http.Error(w, "k must be a non-negative integer", http.StatusBadRequest)
			return
		}
	}

	records, ok := h.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, "application/json", fleet.NearestVehicles(records, origin, k))
}

func originFromQuery(query url.Values) (models.Location, error) {
	if coords := query.Get("coords"); coords != "" {
		return fleet.ParseCoordinates(coords)
	}
	lat, lng := query.Get("lat"), query.Get("lng")
	if lat == "" || lng == "" {
		return models.Location{}, fmt.Errorf("%w: lat and lng are required", fleet.ErrInvalidCoordinates)
	}
	return fleet.ParseCoordinates(lat + "," + lng)
}

// GeoJSON handles GET /api/vehicles.geojson?q=&status=
func (h *VehicleHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	records, ok := h.filtered(w, r)
	if !ok {
		return
	}

	fc, err := vehicleFeatures(records)
	if err != nil {
		serverError(w, r, err, "Failed to build map layer")
		return
	}
	writeJSON(w, "application/geo+json", fc)
}

func vehicleFeatures(records []models.Vehicle) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(records))}
	for _, v := range records {
		point, err := geom.NewPoint(geom.XY).SetCoords(geom.Coord{v.Location.Lng, v.Location.Lat})
		if err != nil {
			return nil, fmt.Errorf("vehicle %s: %w", v.ID, err)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       v.ID,
			Geometry: point,
			Properties: map[string]interface{}{
				"model":         v.Model,
				"license_plate": v.LicensePlate,
				"status":        v.Status,
				"driver":        v.DriverLabel(),
				"fuel_level":    v.FuelLevel,
				"last_updated":  v.LastUpdated,
			},
		})
	}
	return fc, nil
}
