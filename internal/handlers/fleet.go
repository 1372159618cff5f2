package handlers

import (
	"net/http"

	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/fleet"
)

// FleetHandler serves the overview widgets.
type FleetHandler struct {
	vehicles *VehicleHandler
	alerts   db.AlertSource
	mileage  db.MileageSource
}

// NewFleetHandler creates a new fleet overview handler
func NewFleetHandler(vehicles db.VehicleSource, alerts db.AlertSource, mileage db.MileageSource) *FleetHandler {
	return &FleetHandler{
		vehicles: NewVehicleHandler(vehicles),
		alerts:   alerts,
		mileage:  mileage,
	}
}

// Summary handles GET /api/fleet/summary?status=&q=
func (h *FleetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	records, ok := h.vehicles.filtered(w, r)
	if !ok {
		return
	}
	writeJSON(w, "application/json", fleet.Summarize(records))
}

// Alerts handles GET /api/maintenance/alerts?min_severity=
func (h *FleetHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	minSeverity, err := fleet.ParseSeverity(r.URL.Query().Get("min_severity"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	alerts, err := h.alerts.ListAlerts(r.Context())
	if err != nil {
		serverError(w, r, err, "Failed to load maintenance alerts")
		return
	}
	writeJSON(w, "application/json", fleet.FilterAlerts(alerts, minSeverity))
}

// Mileage handles GET /api/fleet/mileage?model=
func (h *FleetHandler) Mileage(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	series, err := h.mileage.ListMileage(r.Context())
	if err != nil {
		serverError(w, r, err, "Failed to load mileage")
		return
	}
	writeJSON(w, "application/json", fleet.FilterMileage(series, r.URL.Query().Get("model")))
}
