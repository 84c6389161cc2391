package session

import (
	"testing"

	"github.com/ngmaloney/skypulse-terminal/internal/models"
)

func TestNewWeatherView_Rounding(t *testing.T) {
	view := NewWeatherView(models.CurrentConditions{
		TemperatureC:         21.6,
		ApparentTemperatureC: 19.5,
		RelativeHumidityPct:  64,
		WeatherCode:          0,
		WindSpeedKmh:         14.4,
		SurfacePressureHpa:   1012.5,
	}, "Lisbon")

	checks := map[string][2]string{
		"Temperature": {view.Temperature, "22°C"},
		"FeelsLike":   {view.FeelsLike, "Feels like 20°C"},
		"Humidity":    {view.Humidity, "64%"},
		"Wind":        {view.Wind, "14 km/h"},
		"Pressure":    {view.Pressure, "1013 hPa"},
		"Condition":   {view.Condition, "Clear sky"},
		"Location":    {view.Location, "Lisbon"},
	}
	for field, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", field, c[0], c[1])
		}
	}
}

func TestNewWeatherView_UnknownCode(t *testing.T) {
	view := NewWeatherView(models.CurrentConditions{WeatherCode: 96}, "x")
	if view.Emoji != "🌍" || view.Condition != "Unknown weather" {
		t.Errorf("view = %q %q, want default entry", view.Emoji, view.Condition)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{21.6, 22},
		{14.4, 14},
		{0.5, 1},
		{-0.4, 0},
		{-2.5, -2},
		{-2.6, -3},
		{0.49999999999999994, 0},
		{-0.5, 0},
		{2.5, 3},
	}

	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.want {
			t.Errorf("roundHalfUp(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNewWeatherView_JustBelowHalf(t *testing.T) {
	view := NewWeatherView(models.CurrentConditions{TemperatureC: 0.49999999999999994}, "x")
	if view.Temperature != "0°C" {
		t.Errorf("Temperature = %q, want %q", view.Temperature, "0°C")
	}
}
