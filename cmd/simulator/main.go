package main

import (
	"context"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/config"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/feed"
	"github.com/ukydev/fleet-dashboard/internal/fleet"
	"github.com/ukydev/fleet-dashboard/internal/logger"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

const (
	latMetersPerDeg = 111320.0
	minSpeedKmh     = 15.0
	maxSpeedKmh     = 90.0
	refuelBelowPct  = 5.0
)

// publisher is satisfied by feed.Publisher.
type publisher interface {
	Publish(t models.Telemetry) error
}

// VehicleState is the simulated position and fuel of one vehicle.
type VehicleState struct {
	VehicleID  string
	Home       models.Location
	Position   models.Location
	HeadingDeg float64
	SpeedKmh   float64
	FuelPct    float64
}

func jitterLocation(rng *rand.Rand, base models.Location, meters float64) models.Location {
	lngMetersPerDeg := latMetersPerDeg * math.Cos(base.Lat*math.Pi/180)
	dLat := (rng.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLng := (rng.Float64()*2 - 1) * (meters / lngMetersPerDeg)
	return models.Location{Lat: base.Lat + dLat, Lng: base.Lng + dLng}
}

// moveBy returns the point km away from pos along heading (degrees clockwise from north).
// Good enough for the short hops of one tick.
func moveBy(pos models.Location, headingDeg, km float64) models.Location {
	rad := headingDeg * math.Pi / 180
	meters := km * 1000
	lngMetersPerDeg := latMetersPerDeg * math.Cos(pos.Lat*math.Pi/180)
	return models.Location{
		Lat: pos.Lat + meters*math.Cos(rad)/latMetersPerDeg,
		Lng: pos.Lng + meters*math.Sin(rad)/lngMetersPerDeg,
	}
}

// bearingDeg is the initial heading from a to b.
func bearingDeg(a, b models.Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	return math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
}

// newStates starts every active vehicle near its current location. Vehicles in
// maintenance or inactive stay parked and are not simulated.
func newStates(rng *rand.Rand, vehicles []models.Vehicle) []*VehicleState {
	states := make([]*VehicleState, 0, len(vehicles))
	for _, v := range vehicles {
		if v.Status != models.StatusActive {
			continue
		}
		states = append(states, &VehicleState{
			VehicleID:  v.ID,
			Home:       v.Location,
			Position:   jitterLocation(rng, v.Location, 200),
			HeadingDeg: rng.Float64() * 360,
			SpeedKmh:   30 + rng.Float64()*30,
			FuelPct:    float64(v.FuelLevel),
		})
	}
	return states
}

// step advances a vehicle by one tick. Vehicles wander but turn back once they are
// more than roamKm from home.
func step(rng *rand.Rand, s *VehicleState, tick time.Duration, roamKm float64) {
	s.SpeedKmh += (rng.Float64()*2 - 1) * 1.5
	s.SpeedKmh = math.Max(minSpeedKmh, math.Min(maxSpeedKmh, s.SpeedKmh))

	if fleet.HaversineDistanceKm(s.Position, s.Home) > roamKm {
		s.HeadingDeg = bearingDeg(s.Position, s.Home)
	} else {
		s.HeadingDeg = math.Mod(s.HeadingDeg+(rng.Float64()*2-1)*20+360, 360)
	}

	km := s.SpeedKmh * tick.Hours()
	s.Position = moveBy(s.Position, s.HeadingDeg, km)

	s.FuelPct -= km * 0.4
	if s.FuelPct < refuelBelowPct {
		s.FuelPct = 100
	}
}

func telemetryFromState(s *VehicleState) models.Telemetry {
	fuel := int(math.Round(s.FuelPct))
	return models.Telemetry{
		VehicleID:   s.VehicleID,
		Lat:         s.Position.Lat,
		Lng:         s.Position.Lng,
		FuelLevel:   &fuel,
		LastUpdated: "just now",
	}
}

func publishAll(pub publisher, states []*VehicleState) int {
	sent := 0
	for _, s := range states {
		if err := pub.Publish(telemetryFromState(s)); err != nil {
			log.WithError(err).WithField("vehicle_id", s.VehicleID).Error("Failed to publish location")
			continue
		}
		sent++
	}
	return sent
}

// simulate moves and publishes every vehicle on each tick until ctx is done.
func simulate(ctx context.Context, rng *rand.Rand, pub publisher, states []*VehicleState, interval time.Duration, roamKm float64) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			for _, s := range states {
				step(rng, s, interval, roamKm)
			}
			sent := publishAll(pub, states)
			log.WithField("vehicles", sent).Debug("Published locations")
		}
	}
}

func main() {
	cfg, err := config.LoadSimulator()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	logger.Setup(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	pub, err := feed.NewPublisher(cfg.MQTTBroker, cfg.MQTTClientID)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MQTT broker")
	}
	defer pub.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	states := newStates(rng, db.SampleVehicles())

	log.WithFields(log.Fields{
		"broker":   cfg.MQTTBroker,
		"vehicles": len(states),
		"interval": cfg.Tick,
		"roam_km":  cfg.RoamKm,
	}).Info("Starting fleet simulation")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	simulate(ctx, rng, pub, states, cfg.Tick, cfg.RoamKm)
	log.Info("Simulation stopped")
}
