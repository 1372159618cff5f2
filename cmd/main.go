package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/auth"
	"github.com/ukydev/fleet-dashboard/internal/config"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/feed"
	"github.com/ukydev/fleet-dashboard/internal/handlers"
	"github.com/ukydev/fleet-dashboard/internal/logger"
	"github.com/ukydev/fleet-dashboard/internal/middleware"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"github.com/ukydev/fleet-dashboard/internal/stream"
	"go.mongodb.org/mongo-driver/mongo"
)

// sources is where the dashboard's vehicles, alerts and mileage come from.
type sources struct {
	vehicles db.VehicleSource
	alerts   db.AlertSource
	mileage  db.MileageSource
	// locations persists live position reports; nil for the static source.
	locations feed.LocationStore
	client    *mongo.Client
}

func openSources(ctx context.Context, cfg *config.Config) (*sources, error) {
	if cfg.DataSource == config.SourceStatic {
		return &sources{vehicles: db.StaticSource{}, alerts: db.StaticSource{}, mileage: db.StaticSource{}}, nil
	}

	client, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	database := client.Database(cfg.MongoDB)
	vehicles := &db.MongoCollection{Collection: database.Collection("vehicles")}
	alerts := &db.MongoCollection{Collection: database.Collection("maintenance_alerts")}
	mileage := &db.MongoCollection{Collection: database.Collection("mileage")}

	if cfg.SeedMongo {
		if err := db.SeedSamples(ctx, vehicles, alerts, mileage); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("failed to seed mongo: %w", err)
		}
	}
	return &sources{vehicles: vehicles, alerts: alerts, mileage: mileage, locations: vehicles, client: client}, nil
}

// newRouter builds the HTTP API around the store and hub.
func newRouter(cfg *config.Config, store *db.MemoryStore, mileage db.MileageSource, hub http.Handler) (http.Handler, error) {
	vehicles := handlers.NewVehicleHandler(store)
	overview := handlers.NewFleetHandler(store, store, mileage)

	var authMiddleware *middleware.AuthMiddleware
	if !cfg.AuthDisabled {
		authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
		if err != nil {
			return nil, err
		}
		authMiddleware = middleware.NewAuthMiddleware(authService)
	}

	protect := func(permission string, h http.Handler) http.Handler {
		if authMiddleware == nil {
			return h
		}
		return authMiddleware.Authenticate(authMiddleware.RequirePermission(permission)(h))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/api/vehicles", protect(models.PermViewVehicles, http.HandlerFunc(vehicles.List)))
	mux.Handle("/api/vehicles/nearest", protect(models.PermViewVehicles, http.HandlerFunc(vehicles.Nearest)))
	mux.Handle("/api/vehicles.geojson", protect(models.PermViewVehicles, http.HandlerFunc(vehicles.GeoJSON)))
	mux.Handle("/api/fleet/summary", protect(models.PermViewSummary, http.HandlerFunc(overview.Summary)))
	mux.Handle("/api/fleet/mileage", protect(models.PermViewSummary, http.HandlerFunc(overview.Mileage)))
	mux.Handle("/api/maintenance/alerts", protect(models.PermViewAlerts, http.HandlerFunc(overview.Alerts)))
	mux.Handle("/ws/vehicles", protect(models.PermViewVehicles, hub))

	limiter := middleware.NewRateLimitMiddleware()
	return middleware.RequestLogger(limiter.RateLimit(cfg.RateLimitPerMinute, time.Minute)(mux)), nil
}

func run(ctx context.Context, cfg *config.Config) error {
	src, err := openSources(ctx, cfg)
	if err != nil {
		return err
	}
	if src.client != nil {
		defer src.client.Disconnect(context.Background())
		log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")
	}

	store, err := db.LoadMemoryStore(ctx, src.vehicles, src.alerts)
	if err != nil {
		return err
	}
	log.WithField("vehicles", len(store.Snapshot())).Info("Fleet loaded")

	hub := stream.NewHub(store.Snapshot())
	store.Subscribe(hub.Broadcast)
	go hub.Run(ctx)

	if cfg.MQTTBroker != "" {
		sub, err := feed.NewSubscriber(feed.Options{
			Broker:   cfg.MQTTBroker,
			Topic:    cfg.MQTTTopic,
			ClientID: cfg.MQTTClientID,
		}, store, src.locations)
		if err != nil {
			return err
		}
		if err := sub.Start(); err != nil {
			return err
		}
		defer sub.Stop()
		log.WithField("broker", cfg.MQTTBroker).Info("Live location feed enabled")
	}

	router, err := newRouter(cfg, store, src.mileage, hub)
	if err != nil {
		return err
	}
	if cfg.AuthDisabled {
		log.Warn("Authentication is disabled")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	logger.Setup(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("Fleet dashboard stopped")
	}
}
