package db

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

type failingSource struct{}

func (failingSource) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return nil, errors.New("source down")
}

func (failingSource) ListAlerts(ctx context.Context) ([]models.MaintenanceAlert, error) {
	return nil, errors.New("source down")
}

func TestStaticSource(t *testing.T) {
	vehicles, err := StaticSource{}.ListVehicles(context.Background())
	require.NoError(t, err)
	assert.Len(t, vehicles, 8)

	ids := make(map[string]bool)
	for _, v := range vehicles {
		assert.False(t, ids[v.ID], "duplicate id %s", v.ID)
		ids[v.ID] = true
		assert.True(t, models.IsValidStatus(v.Status))
		assert.True(t, v.Location.Valid())
	}

	alerts, err := StaticSource{}.ListAlerts(context.Background())
	require.NoError(t, err)
	assert.Len(t, alerts, 3)
}

func TestNewMemoryStore_DuplicateID(t *testing.T) {
	vehicles := []models.Vehicle{{ID: "CAR-001"}, {ID: "CAR-001"}}
	_, err := NewMemoryStore(vehicles, nil)
	assert.ErrorIs(t, err, ErrDuplicateVehicleID)
}

func TestLoadMemoryStore(t *testing.T) {
	store, err := LoadMemoryStore(context.Background(), StaticSource{}, StaticSource{})
	require.NoError(t, err)
	assert.Len(t, store.Snapshot(), 8)

	_, err = LoadMemoryStore(context.Background(), failingSource{}, StaticSource{})
	assert.Error(t, err)
	_, err = LoadMemoryStore(context.Background(), StaticSource{}, failingSource{})
	assert.Error(t, err)
}

func TestMemoryStore_ApplyLocation(t *testing.T) {
	store, err := NewMemoryStore(SampleVehicles(), SampleAlerts())
	require.NoError(t, err)

	before := store.Snapshot()
	fuel := 40
	status := models.StatusActive

	var got []models.Vehicle
	store.Subscribe(func(snapshot []models.Vehicle) { got = snapshot })

	v, err := store.ApplyLocation(models.Telemetry{
		VehicleID: "CAR-002",
		Lat:       34.06,
		Lng:       -118.25,
		FuelLevel: &fuel,
		Status:    &status,
	})
	require.NoError(t, err)
	assert.Equal(t, models.Location{Lat: 34.06, Lng: -118.25}, v.Location)
	assert.Equal(t, 40, v.FuelLevel)
	assert.Equal(t, models.StatusActive, v.Status)
	assert.Equal(t, "just now", v.LastUpdated)

	require.Len(t, got, 8)
	assert.Equal(t, v, got[1])

	// Snapshots handed out earlier are unaffected.
	assert.Equal(t, models.StatusMaintenance, before[1].Status)

	after, err := store.ListVehicles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, v, after[1])
}

func TestMemoryStore_ApplyLocation_Errors(t *testing.T) {
	store, err := NewMemoryStore(SampleVehicles(), nil)
	require.NoError(t, err)

	_, err = store.ApplyLocation(models.Telemetry{VehicleID: "CAR-404", Lat: 1, Lng: 1})
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	_, err = store.ApplyLocation(models.Telemetry{VehicleID: "CAR-001", Lat: 100, Lng: 1})
	assert.Error(t, err)
	assert.Equal(t, SampleVehicles()[0], store.Snapshot()[0])
}

func TestMemoryStore_ConcurrentUpdates(t *testing.T) {
	store, err := NewMemoryStore(SampleVehicles(), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = store.ApplyLocation(models.Telemetry{VehicleID: "CAR-005", Lat: float64(i) / 10, Lng: 0})
		}(i)
		go func() {
			defer wg.Done()
			_ = store.Snapshot()
		}()
	}
	wg.Wait()
	assert.Len(t, store.Snapshot(), 8)
}

func TestMemoryStore_SubscribersSeeUpdatesInOrder(t *testing.T) {
	store, err := NewMemoryStore(SampleVehicles(), nil)
	require.NoError(t, err)

	var mu sync.Mutex
	var delivered []int
	store.Subscribe(func(vs []models.Vehicle) {
		mu.Lock()
		delivered = append(delivered, vs[0].FuelLevel)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(fuel int) {
			defer wg.Done()
			_, err := store.ApplyLocation(models.Telemetry{VehicleID: "CAR-001", Lat: 34, Lng: -118, FuelLevel: &fuel})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 100)
	// The last snapshot a subscriber sees is the store's final state.
	assert.Equal(t, store.Snapshot()[0].FuelLevel, delivered[len(delivered)-1])
}

func TestMemoryStore_AddVehicle(t *testing.T) {
	store, err := NewMemoryStore(SampleVehicles(), nil)
	require.NoError(t, err)

	var got []models.Vehicle
	store.Subscribe(func(vs []models.Vehicle) { got = vs })

	added := models.Vehicle{ID: "CAR-009", Model: "Subaru Outback", Status: models.StatusActive,
		Location: models.Location{Lat: 34.1, Lng: -118.3}}
	require.NoError(t, store.AddVehicle(added))
	assert.Len(t, got, 9)
	assert.Equal(t, added, store.Snapshot()[8])

	_, err = store.ApplyLocation(models.Telemetry{VehicleID: "CAR-009", Lat: 34.2, Lng: -118.3})
	assert.NoError(t, err)

	assert.ErrorIs(t, store.AddVehicle(added), ErrDuplicateVehicleID)
}
