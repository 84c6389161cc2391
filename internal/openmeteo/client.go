// Package openmeteo talks to the Open-Meteo forecast and geocoding APIs.
package openmeteo

import (
	"context"

	"github.com/ngmaloney/skypulse-terminal/internal/models"
)

const (
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

	// CurrentFields is the fixed current-conditions field list sent to the forecast API
	CurrentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m,surface_pressure"

	userAgent = "SkyPulse/1.0 (github.com/ngmaloney/skypulse-terminal)"
)

// ForecastClient defines the interface for fetching current conditions
type ForecastClient interface {
	// GetCurrent retrieves current conditions for a coordinate pair
	GetCurrent(ctx context.Context, lat, lon float64) (*models.CurrentConditions, error)
}

// GeocodingClient defines the interface for resolving a city name
type GeocodingClient interface {
	// Search returns at most one best match; an empty slice means not found
	Search(ctx context.Context, name string) ([]Place, error)
}
