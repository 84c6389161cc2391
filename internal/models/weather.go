package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Location is a resolved place ready to be passed to the forecast call.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	Label     string  `json:"label" validate:"required"`
}

// Validate checks coordinate ranges and that a label is present
func (l Location) Validate() error {
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("invalid location: %w", err)
	}
	return nil
}

// CurrentConditions mirrors the "current" block of the forecast response.
type CurrentConditions struct {
	TemperatureC         float64 `json:"temperature_2m"`
	ApparentTemperatureC float64 `json:"apparent_temperature"`
	RelativeHumidityPct  float64 `json:"relative_humidity_2m"`
	WeatherCode          int     `json:"weather_code"`
	WindSpeedKmh         float64 `json:"wind_speed_10m"`
	SurfacePressureHpa   float64 `json:"surface_pressure"`
}

// CachedResult is the single last-known-good weather snapshot.
type CachedResult struct {
	Conditions     CurrentConditions `json:"current"`
	Label          string            `json:"cityName"`
	SavedAtEpochMs int64             `json:"timestamp"`
}

// NewCachedResult stamps conditions with the given save time
func NewCachedResult(conditions CurrentConditions, label string, savedAt time.Time) CachedResult {
	return CachedResult{
		Conditions:     conditions,
		Label:          label,
		SavedAtEpochMs: savedAt.UnixMilli(),
	}
}

// SavedAt returns the save time as a time.Time
func (c CachedResult) SavedAt() time.Time {
	return time.UnixMilli(c.SavedAtEpochMs)
}
