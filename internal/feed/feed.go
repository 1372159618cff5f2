// Package feed connects the dashboard to the live vehicle location feed on MQTT.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// DefaultTopic matches the location topic of every vehicle.
const DefaultTopic = "fleet/+/location"

const (
	qos            = 1
	connectTimeout = 10 * time.Second
	persistTimeout = 5 * time.Second
)

// LocationTopic returns the topic a vehicle publishes its position on.
func LocationTopic(vehicleID string) string {
	return "fleet/" + vehicleID + "/location"
}

// LocationSink receives validated position reports, e.g. a MemoryStore.
type LocationSink interface {
	ApplyLocation(t models.Telemetry) (models.Vehicle, error)
	AddVehicle(v models.Vehicle) error
}

// LocationStore persists position reports and knows vehicles registered after startup,
// e.g. a MongoCollection.
type LocationStore interface {
	UpdateVehicleLocation(ctx context.Context, t models.Telemetry) error
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
}

// Options configures the MQTT connection.
type Options struct {
	Broker   string
	Topic    string
	ClientID string
}

// Subscriber applies location reports from the broker to a sink.
type Subscriber struct {
	opts   Options
	sink   LocationSink
	store  LocationStore
	client mqtt.Client
}

// NewSubscriber creates a subscriber. store may be nil.
func NewSubscriber(opts Options, sink LocationSink, store LocationStore) (*Subscriber, error) {
	if opts.Broker == "" {
		return nil, errors.New("mqtt broker is required")
	}
	if sink == nil {
		return nil, errors.New("location sink is required")
	}
	if opts.Topic == "" {
		opts.Topic = DefaultTopic
	}
	if opts.ClientID == "" {
		opts.ClientID = "fleet-dashboard"
	}
	return &Subscriber{opts: opts, sink: sink, store: store}, nil
}

// Start connects to the broker. The subscription is renewed on every reconnect.
func (s *Subscriber) Start() error {
	clientOpts := mqtt.NewClientOptions().
		AddBroker(s.opts.Broker).
		SetClientID(s.opts.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetOnConnectHandler(func(c mqtt.Client) {
			token := c.Subscribe(s.opts.Topic, qos, s.handleMessage)
			if token.Wait() && token.Error() != nil {
				log.WithError(token.Error()).WithField("topic", s.opts.Topic).Error("MQTT subscribe failed")
				return
			}
			log.WithField("topic", s.opts.Topic).Info("Subscribed to location feed")
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		})

	s.client = mqtt.NewClient(clientOpts)
	token := s.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt connect to %s: timed out", s.opts.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect to %s: %w", s.opts.Broker, err)
	}
	return nil
}

// Stop disconnects from the broker.
func (s *Subscriber) Stop() {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
}

func (s *Subscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	entry := log.WithField("topic", msg.Topic())

	t, err := decodeTelemetry(msg.Topic(), msg.Payload())
	if err != nil {
		entry.WithError(err).Warn("Dropping location report")
		return
	}

	v, err := s.sink.ApplyLocation(t)
	if errors.Is(err, db.ErrVehicleNotFound) && s.adopt(t.VehicleID) {
		v, err = s.sink.ApplyLocation(t)
	}
	if err != nil {
		entry.WithError(err).WithField("vehicle_id", t.VehicleID).Warn("Dropping location report")
		return
	}
	entry.WithFields(log.Fields{
		"vehicle_id": v.ID,
		"location":   v.Location.String(),
	}).Debug("Applied location report")

	if s.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.store.UpdateVehicleLocation(ctx, t); err != nil {
			entry.WithError(err).WithField("vehicle_id", t.VehicleID).Error("Failed to persist location")
		}
	}
}

// adopt loads a vehicle unknown to the sink from the store, so vehicles registered
// after startup join the live snapshot on their first report.
func (s *Subscriber) adopt(id string) bool {
	if s.store == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	v, err := s.store.FindVehicleByID(ctx, id)
	if err != nil {
		if !errors.Is(err, db.ErrVehicleNotFound) {
			log.WithError(err).WithField("vehicle_id", id).Error("Failed to look up vehicle")
		}
		return false
	}
	if err := s.sink.AddVehicle(*v); err != nil && !errors.Is(err, db.ErrDuplicateVehicleID) {
		log.WithError(err).WithField("vehicle_id", id).Error("Failed to add vehicle")
		return false
	}
	log.WithField("vehicle_id", id).Info("Added vehicle from store")
	return true
}

// decodeTelemetry parses and validates a report. A missing vehicle_id is taken from a
// fleet/<id>/location topic.
func decodeTelemetry(topic string, payload []byte) (models.Telemetry, error) {
	var t models.Telemetry
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("invalid JSON: %w", err)
	}
	if t.VehicleID == "" {
		t.VehicleID = vehicleFromTopic(topic)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

func vehicleFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) == 3 && parts[0] == "fleet" && parts[2] == "location" {
		return parts[1]
	}
	return ""
}

// Publisher sends location reports to the broker.
type Publisher struct {
	client mqtt.Client
}

// NewPublisher connects a publishing client.
func NewPublisher(broker, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	return &Publisher{client: client}, nil
}

// Publish sends one report on the vehicle's location topic.
func (p *Publisher) Publish(t models.Telemetry) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry: %w", err)
	}
	token := p.client.Publish(LocationTopic(t.VehicleID), qos, false, data)
	token.Wait()
	return token.Error()
}

// Close disconnects the client.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
