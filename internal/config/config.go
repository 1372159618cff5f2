package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Data sources the API can serve vehicles from.
const (
	SourceStatic = "static"
	SourceMongo  = "mongo"
)

// Config holds the service settings read from the environment.
type Config struct {
	Port       string
	DataSource string

	MongoURI  string
	MongoDB   string
	SeedMongo bool

	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string

	JWTSecret          string
	JWTExpiry          time.Duration
	AuthDisabled       bool
	RateLimitPerMinute int

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads the configuration. A .env file in the working directory is loaded first when
// present; variables already set in the environment win.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return FromEnv()
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DataSource:   getEnv("DATA_SOURCE", SourceStatic),
		MongoURI:     getEnv("MONGO_URI", ""),
		MongoDB:      getEnv("MONGO_DB", "fleet"),
		MQTTBroker:   getEnv("MQTT_BROKER", ""),
		MQTTTopic:    getEnv("MQTT_TOPIC", "fleet/+/location"),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "fleet-dashboard"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		LogFile:      getEnv("LOG_FILE", ""),
	}

	if cfg.DataSource != SourceStatic && cfg.DataSource != SourceMongo {
		return nil, fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", SourceStatic, SourceMongo, cfg.DataSource)
	}

	var err error
	if cfg.SeedMongo, err = getBool("MONGO_SEED", true); err != nil {
		return nil, err
	}
	if cfg.AuthDisabled, err = getBool("AUTH_DISABLED", false); err != nil {
		return nil, err
	}
	if cfg.JWTExpiry, err = getDuration("JWT_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" && !cfg.AuthDisabled {
		return nil, errors.New("JWT_SECRET is required unless AUTH_DISABLED is set")
	}
	return cfg, nil
}

// Simulator holds the settings of the location simulator.
type Simulator struct {
	MQTTBroker   string
	MQTTClientID string
	Tick         time.Duration
	RoamKm       float64

	LogLevel  string
	LogFormat string
}

// LoadSimulator reads the simulator configuration, loading .env first like Load.
func LoadSimulator() (*Simulator, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return SimulatorFromEnv()
}

// SimulatorFromEnv builds a Simulator from environment variables only.
func SimulatorFromEnv() (*Simulator, error) {
	cfg := &Simulator{
		MQTTBroker:   getEnv("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTClientID: getEnv("SIM_CLIENT_ID", "fleet-simulator"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
	}

	seconds, err := getInt("SIM_TICK_SECONDS", 2)
	if err != nil {
		return nil, err
	}
	if seconds < 1 {
		return nil, errors.New("SIM_TICK_SECONDS must be at least 1")
	}
	cfg.Tick = time.Duration(seconds) * time.Second

	if cfg.RoamKm, err = getFloat("SIM_ROAM_KM", 3); err != nil {
		return nil, err
	}
	if cfg.RoamKm <= 0 {
		return nil, errors.New("SIM_ROAM_KM must be positive")
	}
	return cfg, nil
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists && v != "" {
		return v
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
