package db

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ukydev/fleet-dashboard/internal/models"
)

var (
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrDuplicateVehicleID = errors.New("duplicate vehicle id")
)

// MemoryStore keeps the latest snapshot of the fleet in memory and applies live updates
// to it. Readers always receive copies.
type MemoryStore struct {
	// notifyMu orders subscriber calls the same way as the updates they report.
	notifyMu    sync.Mutex
	mu          sync.RWMutex
	vehicles    []models.Vehicle
	index       map[string]int
	alerts      []models.MaintenanceAlert
	subscribers []func([]models.Vehicle)
}

// NewMemoryStore creates a store holding the given vehicles and alerts.
// Vehicle ids must be unique.
func NewMemoryStore(vehicles []models.Vehicle, alerts []models.MaintenanceAlert) (*MemoryStore, error) {
	index := make(map[string]int, len(vehicles))
	for i, v := range vehicles {
		if _, exists := index[v.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVehicleID, v.ID)
		}
		index[v.ID] = i
	}
	return &MemoryStore{
		vehicles: slices.Clone(vehicles),
		index:    index,
		alerts:   slices.Clone(alerts),
	}, nil
}

// LoadMemoryStore seeds a store from the given sources.
func LoadMemoryStore(ctx context.Context, vehicles VehicleSource, alerts AlertSource) (*MemoryStore, error) {
	vs, err := vehicles.ListVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicles: %w", err)
	}
	as, err := alerts.ListAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	return NewMemoryStore(vs, as)
}

// ListVehicles returns a copy of the current snapshot.
func (s *MemoryStore) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return s.Snapshot(), nil
}

// ListAlerts returns a copy of the maintenance alerts.
func (s *MemoryStore) ListAlerts(ctx context.Context) ([]models.MaintenanceAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.alerts), nil
}

// Snapshot returns a copy of the current vehicles.
func (s *MemoryStore) Snapshot() []models.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.vehicles)
}

// Subscribe registers fn to receive a fresh snapshot after every applied update.
// Snapshots arrive in update order. fn runs on the updating goroutine, must not block
// and must not call back into the store.
func (s *MemoryStore) Subscribe(fn func([]models.Vehicle)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// ApplyLocation moves a vehicle to the reported position, updating fuel level and status
// when the report carries them. It returns the updated vehicle.
func (s *MemoryStore) ApplyLocation(t models.Telemetry) (models.Vehicle, error) {
	if err := t.Validate(); err != nil {
		return models.Vehicle{}, err
	}

	s.mu.Lock()
	i, ok := s.index[t.VehicleID]
	if !ok {
		s.mu.Unlock()
		return models.Vehicle{}, fmt.Errorf("%w: %s", ErrVehicleNotFound, t.VehicleID)
	}
	v := s.vehicles[i]
	v.Location = t.Location()
	if t.FuelLevel != nil {
		v.FuelLevel = *t.FuelLevel
	}
	if t.Status != nil {
		v.Status = *t.Status
	}
	v.LastUpdated = t.LastUpdated
	if v.LastUpdated == "" {
		v.LastUpdated = "just now"
	}
	s.vehicles[i] = v
	s.publishLocked()
	return v, nil
}

// AddVehicle appends a vehicle that was not part of the initial load.
func (s *MemoryStore) AddVehicle(v models.Vehicle) error {
	s.mu.Lock()
	if _, exists := s.index[v.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateVehicleID, v.ID)
	}
	s.index[v.ID] = len(s.vehicles)
	s.vehicles = append(s.vehicles, v)
	s.publishLocked()
	return nil
}

// publishLocked must be called with mu held. It releases mu and hands the new snapshot
// to the subscribers, holding notifyMu so that later updates wait their turn.
func (s *MemoryStore) publishLocked() {
	snapshot := slices.Clone(s.vehicles)
	subscribers := slices.Clone(s.subscribers)
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}
