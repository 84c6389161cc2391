package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/skypulse-terminal/internal/geolocation"
	"github.com/ngmaloney/skypulse-terminal/internal/logging"
	"github.com/ngmaloney/skypulse-terminal/internal/models"
	"github.com/ngmaloney/skypulse-terminal/internal/openmeteo"
	"github.com/ngmaloney/skypulse-terminal/internal/session"
)

// Mock clients for testing

type mockForecastClient struct {
	conditions *models.CurrentConditions
	err        error
}

func (m *mockForecastClient) GetCurrent(ctx context.Context, lat, lon float64) (*models.CurrentConditions, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conditions, nil
}

type mockGeocodingClient struct {
	places []openmeteo.Place
	err    error
}

func (m *mockGeocodingClient) Search(ctx context.Context, name string) ([]openmeteo.Place, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.places, nil
}

type memoryStore struct {
	mu     sync.Mutex
	result *models.CachedResult
}

func (s *memoryStore) Load(context.Context) (*models.CachedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, nil
}

func (s *memoryStore) Save(_ context.Context, r models.CachedResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = &r
	return nil
}

// drain feeds every queued state into the model
func drain(t *testing.T, m Model) Model {
	t.Helper()
	for len(m.renderer.states) > 0 {
		msg := waitForState(m.renderer)()
		m, _ = update(t, m, msg)
	}
	return m
}

func newIntegrationModel(forecast *mockForecastClient, geocoder *mockGeocodingClient, store *memoryStore, locator geolocation.Locator) Model {
	renderer := NewStateRenderer()
	ctrl := session.NewController(forecast, geocoder, locator, store, renderer,
		session.WithLogger(logging.Discard()))
	return NewModel(ctrl, renderer)
}

// TestIntegration_SearchAndDisplay tests the complete search workflow
func TestIntegration_SearchAndDisplay(t *testing.T) {
	forecast := &mockForecastClient{conditions: &models.CurrentConditions{
		TemperatureC:         21.6,
		ApparentTemperatureC: 20.4,
		RelativeHumidityPct:  58,
		WeatherCode:          2,
		WindSpeedKmh:         14.4,
		SurfacePressureHpa:   1009.3,
	}}
	geocoder := &mockGeocodingClient{places: []openmeteo.Place{
		{Name: "Paris", Admin1: "Ile-de-France", Latitude: 48.8566, Longitude: 2.3522},
	}}
	store := &memoryStore{}
	m := newIntegrationModel(forecast, geocoder, store, geolocation.Disabled{})

	m = typeText(t, m, "Paris")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if done := cmd().(opDoneMsg); done.err != nil {
		t.Fatalf("search failed: %v", done.err)
	}

	m = drain(t, m)

	if m.state != StateDisplay {
		t.Fatalf("state = %v, want StateDisplay", m.state)
	}
	view := m.View()
	for _, want := range []string{"22°C", "Feels like 20°C", "Partly cloudy", "14 km/h", "1009 hPa", "Paris, Ile-de-France"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if store.result == nil || store.result.Label != "Paris, Ile-de-France" {
		t.Errorf("Expected result to be saved, got %+v", store.result)
	}
}

// TestIntegration_OfflineFallsBackToCache shows the last result when the forecast fails
func TestIntegration_OfflineFallsBackToCache(t *testing.T) {
	cached := models.CachedResult{
		Conditions:     models.CurrentConditions{TemperatureC: 5, WeatherCode: 61},
		Label:          "Bergen",
		SavedAtEpochMs: 1_700_000_000_000,
	}
	forecast := &mockForecastClient{err: errors.New("offline")}
	store := &memoryStore{result: &cached}
	m := newIntegrationModel(forecast, &mockGeocodingClient{}, store, geolocation.StaticLocator{Latitude: 60.39, Longitude: 5.32})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	cmd()
	m = drain(t, m)

	if m.state != StateDisplay {
		t.Fatalf("state = %v, want StateDisplay", m.state)
	}
	view := m.View()
	for _, want := range []string{"Slight rain", "5°C", "Bergen", "updated"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

// TestIntegration_SearchErrorRecovery tests that users can recover from a failed search
func TestIntegration_SearchErrorRecovery(t *testing.T) {
	forecast := &mockForecastClient{conditions: &models.CurrentConditions{TemperatureC: 30, WeatherCode: 0}}
	geocoder := &mockGeocodingClient{}
	m := newIntegrationModel(forecast, geocoder, &memoryStore{}, geolocation.Disabled{})

	m = typeText(t, m, "InvalidCity123")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	cmd()
	m = drain(t, m)

	if m.state != StateError {
		t.Fatalf("state = %v, want StateError", m.state)
	}
	if !strings.Contains(m.View(), "City not found") {
		t.Error("Expected 'City not found' in view")
	}

	geocoder.places = []openmeteo.Place{{Name: "Cairo", Latitude: 30.04, Longitude: 31.24}}
	m = typeText(t, m, "Cairo")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	cmd()
	m = drain(t, m)

	if m.state != StateDisplay {
		t.Fatalf("state = %v, want StateDisplay", m.state)
	}
	if !strings.Contains(m.View(), "Clear sky") {
		t.Error("Expected 'Clear sky' in view")
	}
}

// TestIntegration_StartupWithoutGeolocation shows the unsupported message
func TestIntegration_StartupWithoutGeolocation(t *testing.T) {
	m := newIntegrationModel(&mockForecastClient{}, &mockGeocodingClient{}, &memoryStore{}, geolocation.Disabled{})

	if err := m.session.ResolveInitialLocation(context.Background()); err == nil {
		t.Fatal("Expected startup to fail without geolocation")
	}
	m = drain(t, m)

	if m.state != StateError {
		t.Fatalf("state = %v, want StateError", m.state)
	}
	if !strings.Contains(m.View(), "Geolocation not supported") {
		t.Error("Expected 'Geolocation not supported' in view")
	}
}
