package session

import (
	"fmt"
	"math"
	"time"

	"github.com/ngmaloney/skypulse-terminal/internal/models"
)

// StateKind is one of the mutually exclusive visual states
type StateKind int

const (
	StateLoading StateKind = iota
	StateWeather
	StateError
)

func (k StateKind) String() string {
	switch k {
	case StateLoading:
		return "loading"
	case StateWeather:
		return "weather"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("StateKind(%d)", int(k))
	}
}

// UIState is what the controller hands to the Renderer
type UIState struct {
	Kind    StateKind
	Weather *WeatherView // set for StateWeather
	Message string       // set for StateError
}

// Renderer presents UI states. It owns presentation only.
type Renderer interface {
	Render(state UIState)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(UIState)

func (f RendererFunc) Render(state UIState) { f(state) }

func loadingState() UIState { return UIState{Kind: StateLoading} }

func failedState(msg string) UIState { return UIState{Kind: StateError, Message: msg} }

func weatherState(view WeatherView) UIState { return UIState{Kind: StateWeather, Weather: &view} }

// WeatherView is the formatted rendering contract for the Displaying state
type WeatherView struct {
	Emoji       string
	Condition   string
	Temperature string // "22°C"
	FeelsLike   string // "Feels like 20°C"
	Humidity    string // "58%"
	Wind        string // "14 km/h"
	Pressure    string // "1009 hPa"
	Location    string
	UpdatedAt   time.Time // zero when the view was not built from a cached result
}

// NewWeatherView formats conditions for display
func NewWeatherView(c models.CurrentConditions, label string) WeatherView {
	entry := models.ResolveCondition(c.WeatherCode)
	feels := roundHalfUp(c.ApparentTemperatureC)
	return WeatherView{
		Emoji:       entry.Emoji,
		Condition:   entry.Text,
		Temperature: fmt.Sprintf("%d°C", roundHalfUp(c.TemperatureC)),
		FeelsLike:   fmt.Sprintf("Feels like %d°C", feels),
		Humidity:    fmt.Sprintf("%d%%", roundHalfUp(c.RelativeHumidityPct)),
		Wind:        fmt.Sprintf("%d km/h", roundHalfUp(c.WindSpeedKmh)),
		Pressure:    fmt.Sprintf("%d hPa", roundHalfUp(c.SurfacePressureHpa)),
		Location:    label,
	}
}

// roundHalfUp rounds to the nearest integer with halves going towards +Inf, so -2.5 becomes -2
func roundHalfUp(x float64) int {
	f := math.Floor(x)
	// x+0.5 is inexact just below a half, so compare the fraction instead
	if x-f >= 0.5 {
		f++
	}
	return int(f)
}
