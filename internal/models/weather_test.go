package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLocation_Validate(t *testing.T) {
	tests := []struct {
		name    string
		loc     Location
		wantErr bool
	}{
		{"valid", Location{Latitude: 48.8566, Longitude: 2.3522, Label: "Paris"}, false},
		{"south pole", Location{Latitude: -90, Longitude: 0, Label: "Pole"}, false},
		{"latitude out of range", Location{Latitude: 91, Longitude: 0, Label: "Nowhere"}, true},
		{"longitude out of range", Location{Latitude: 0, Longitude: 181, Label: "Nowhere"}, true},
		{"missing label", Location{Latitude: 10, Longitude: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.loc.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCurrentConditions_DecodesForecastFields(t *testing.T) {
	body := `{
		"temperature_2m": 21.6,
		"relative_humidity_2m": 64,
		"apparent_temperature": 22.1,
		"weather_code": 3,
		"wind_speed_10m": 14.4,
		"surface_pressure": 1012.8
	}`

	var c CurrentConditions
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if c.TemperatureC != 21.6 {
		t.Errorf("TemperatureC = %v, want 21.6", c.TemperatureC)
	}
	if c.RelativeHumidityPct != 64 {
		t.Errorf("RelativeHumidityPct = %v, want 64", c.RelativeHumidityPct)
	}
	if c.WeatherCode != 3 {
		t.Errorf("WeatherCode = %d, want 3", c.WeatherCode)
	}
	if c.SurfacePressureHpa != 1012.8 {
		t.Errorf("SurfacePressureHpa = %v, want 1012.8", c.SurfacePressureHpa)
	}
}

func TestCachedResult_SavedAt(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	r := NewCachedResult(CurrentConditions{TemperatureC: 5}, "Oslo", at)

	if r.SavedAtEpochMs != at.UnixMilli() {
		t.Errorf("SavedAtEpochMs = %d, want %d", r.SavedAtEpochMs, at.UnixMilli())
	}
	if !r.SavedAt().Equal(at) {
		t.Errorf("SavedAt() = %v, want %v", r.SavedAt(), at)
	}
}
