// Package config loads SkyPulse settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "SKYPULSE"

// Config is the full application configuration. Every key is read as SKYPULSE_<key>.
type Config struct {
	DBPath string `envconfig:"DB_PATH" default:"data/skypulse.db" validate:"required"`

	StoreType     string `envconfig:"STORE_TYPE" default:"sqlite" validate:"oneof=sqlite redis"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0" validate:"gte=0,lte=15"`

	ForecastURL  string  `envconfig:"FORECAST_URL" default:"https://api.open-meteo.com/v1/forecast" validate:"required,url"`
	GeocodingURL string  `envconfig:"GEOCODING_URL" default:"https://geocoding-api.open-meteo.com/v1/search" validate:"required,url"`
	GeocodingRPS float64 `envconfig:"GEOCODING_RPS" default:"1" validate:"gte=0"`

	Geolocation string `envconfig:"GEOLOCATION" default:"ip" validate:"oneof=ip off"`
	IPGeoURL    string `envconfig:"IPGEO_URL" default:"http://ip-api.com/json" validate:"required,url"`

	CacheVersion string `envconfig:"CACHE_VERSION" default:"v1" validate:"required,alphanum"`
	CacheBackend string `envconfig:"CACHE_BACKEND" default:"sqlite" validate:"oneof=sqlite memory"`
	ShellOrigin  string `envconfig:"SHELL_ORIGIN" default:"" validate:"omitempty,url"`
	ShellAddr    string `envconfig:"SHELL_ADDR" default:":8080" validate:"required"`

	// MetricsAddr serves the TUI's offline cache metrics when set
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`

	LogFile  string `envconfig:"LOG_FILE" default:"data/skypulse.log"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Load reads .env when present, then the SKYPULSE_* environment, then validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ShellOriginURL returns the parsed shell origin, or nil when none is configured
func (c *Config) ShellOriginURL() (*url.URL, error) {
	if c.ShellOrigin == "" {
		return nil, nil
	}
	u, err := url.Parse(strings.TrimRight(c.ShellOrigin, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing shell origin: %w", err)
	}
	return u, nil
}

// SlogLevel maps LogLevel onto slog
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
