package feed

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return qos }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

// MockLocationStore is a mock implementation of LocationStore
type MockLocationStore struct {
	mock.Mock
}

func (m *MockLocationStore) UpdateVehicleLocation(ctx context.Context, t models.Telemetry) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockLocationStore) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func newTestSubscriber(t *testing.T, store LocationStore) (*Subscriber, *db.MemoryStore) {
	t.Helper()
	mem, err := db.NewMemoryStore(db.SampleVehicles(), nil)
	require.NoError(t, err)
	sub, err := NewSubscriber(Options{Broker: "tcp://localhost:1883"}, mem, store)
	require.NoError(t, err)
	return sub, mem
}

func findVehicle(vs []models.Vehicle, id string) models.Vehicle {
	for _, v := range vs {
		if v.ID == id {
			return v
		}
	}
	return models.Vehicle{}
}

func TestNewSubscriber(t *testing.T) {
	mem, _ := db.NewMemoryStore(nil, nil)

	sub, err := NewSubscriber(Options{Broker: "tcp://broker:1883"}, mem, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopic, sub.opts.Topic)
	assert.Equal(t, "fleet-dashboard", sub.opts.ClientID)

	_, err = NewSubscriber(Options{}, mem, nil)
	assert.Error(t, err)

	_, err = NewSubscriber(Options{Broker: "tcp://broker:1883"}, nil, nil)
	assert.Error(t, err)
}

func TestLocationTopic(t *testing.T) {
	assert.Equal(t, "fleet/CAR-001/location", LocationTopic("CAR-001"))
	assert.Equal(t, "CAR-001", vehicleFromTopic(LocationTopic("CAR-001")))
	assert.Equal(t, "", vehicleFromTopic("fleet/CAR-001/status"))
}

func TestSubscriber_HandleMessage(t *testing.T) {
	tests := []struct {
		name      string
		topic     string
		payload   string
		applied   bool
		expectLat float64
		expectFue int
	}{
		{
			name:      "full report",
			topic:     "fleet/CAR-001/location",
			payload:   `{"vehicle_id":"CAR-001","lat":34.1,"lng":-118.3,"fuel_level":50,"status":"maintenance"}`,
			applied:   true,
			expectLat: 34.1,
			expectFue: 50,
		},
		{
			name:      "vehicle id from topic",
			topic:     "fleet/CAR-001/location",
			payload:   `{"lat":34.2,"lng":-118.3}`,
			applied:   true,
			expectLat: 34.2,
			expectFue: 75,
		},
		{name: "invalid json", topic: "fleet/CAR-001/location", payload: `{not json`},
		{name: "invalid status", topic: "fleet/CAR-001/location", payload: `{"vehicle_id":"CAR-001","lat":1,"lng":1,"status":"parked"}`},
		{name: "invalid coordinates", topic: "fleet/CAR-001/location", payload: `{"vehicle_id":"CAR-001","lat":91,"lng":1}`},
		{name: "unknown vehicle", topic: "fleet/CAR-999/location", payload: `{"vehicle_id":"CAR-999","lat":1,"lng":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, mem := newTestSubscriber(t, nil)
			before := findVehicle(mem.Snapshot(), "CAR-001")

			sub.handleMessage(nil, &fakeMessage{topic: tt.topic, payload: []byte(tt.payload)})

			after := findVehicle(mem.Snapshot(), "CAR-001")
			if !tt.applied {
				assert.Equal(t, before, after)
				return
			}
			assert.Equal(t, tt.expectLat, after.Location.Lat)
			assert.Equal(t, tt.expectFue, after.FuelLevel)
			assert.Equal(t, "just now", after.LastUpdated)
		})
	}
}

func TestSubscriber_HandleMessage_Persists(t *testing.T) {
	store := new(MockLocationStore)
	store.On("UpdateVehicleLocation", mock.Anything, mock.MatchedBy(func(tel models.Telemetry) bool {
		return tel.VehicleID == "CAR-003" && tel.Lat == 34.05
	})).Return(nil).Once()

	sub, _ := newTestSubscriber(t, store)
	sub.handleMessage(nil, &fakeMessage{
		topic:   "fleet/CAR-003/location",
		payload: []byte(`{"vehicle_id":"CAR-003","lat":34.05,"lng":-118.25}`),
	})

	// Dropped reports are not persisted.
	sub.handleMessage(nil, &fakeMessage{
		topic:   "fleet/CAR-003/location",
		payload: []byte(`{"vehicle_id":"CAR-003","lat":100,"lng":-118.25}`),
	})

	store.AssertExpectations(t)
}

func TestSubscriber_HandleMessage_NotifiesSubscribers(t *testing.T) {
	sub, mem := newTestSubscriber(t, nil)

	var mu sync.Mutex
	var snapshots [][]models.Vehicle
	mem.Subscribe(func(vs []models.Vehicle) {
		mu.Lock()
		snapshots = append(snapshots, vs)
		mu.Unlock()
	})

	sub.handleMessage(nil, &fakeMessage{
		topic:   "fleet/CAR-004/location",
		payload: []byte(`{"vehicle_id":"CAR-004","lat":34.07,"lng":-118.25,"status":"active"}`),
	})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, snapshots, 1)
	assert.Equal(t, models.StatusActive, findVehicle(snapshots[0], "CAR-004").Status)
}

func TestSubscriber_HandleMessage_AdoptsStoredVehicle(t *testing.T) {
	registered := &models.Vehicle{
		ID: "CAR-009", Model: "Subaru Outback", LicensePlate: "VWX-3456",
		Status: models.StatusActive, FuelLevel: 90,
		Location: models.Location{Lat: 34.0, Lng: -118.3},
	}
	store := new(MockLocationStore)
	store.On("FindVehicleByID", mock.Anything, "CAR-009").Return(registered, nil).Once()
	store.On("UpdateVehicleLocation", mock.Anything, mock.Anything).Return(nil)

	sub, mem := newTestSubscriber(t, store)
	sub.handleMessage(nil, &fakeMessage{
		topic:   "fleet/CAR-009/location",
		payload: []byte(`{"vehicle_id":"CAR-009","lat":34.01,"lng":-118.31}`),
	})

	snapshot := mem.Snapshot()
	require.Len(t, snapshot, 9)
	adopted := findVehicle(snapshot, "CAR-009")
	assert.Equal(t, "Subaru Outback", adopted.Model)
	assert.Equal(t, models.Location{Lat: 34.01, Lng: -118.31}, adopted.Location)
	store.AssertExpectations(t)
}

func TestSubscriber_HandleMessage_UnknownEverywhere(t *testing.T) {
	store := new(MockLocationStore)
	store.On("FindVehicleByID", mock.Anything, "CAR-999").Return(nil, db.ErrVehicleNotFound).Once()

	sub, mem := newTestSubscriber(t, store)
	sub.handleMessage(nil, &fakeMessage{
		topic:   "fleet/CAR-999/location",
		payload: []byte(`{"vehicle_id":"CAR-999","lat":34.01,"lng":-118.31}`),
	})

	assert.Len(t, mem.Snapshot(), 8)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "UpdateVehicleLocation", mock.Anything, mock.Anything)
}
