// Package session orchestrates location resolution, the forecast fetch,
// UI state transitions and the last-result fallback.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ngmaloney/skypulse-terminal/internal/geolocation"
	"github.com/ngmaloney/skypulse-terminal/internal/models"
	"github.com/ngmaloney/skypulse-terminal/internal/openmeteo"
	"github.com/ngmaloney/skypulse-terminal/internal/store"
)

// YourLocationLabel labels positions that came from geolocation
const YourLocationLabel = "Your location"

// Controller drives a Renderer through Loading, Weather and Error states.
// Operations may be called concurrently; whichever finishes last decides the visible state.
type Controller struct {
	forecast openmeteo.ForecastClient
	geocoder openmeteo.GeocodingClient
	locator  geolocation.Locator
	store    store.LastResultStore
	renderer Renderer
	logger   *slog.Logger
	now      func() time.Time

	mu   sync.Mutex
	last *models.Location
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithClock overrides time.Now for cache timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController wires a controller. A nil locator behaves like geolocation.Disabled.
func NewController(
	forecast openmeteo.ForecastClient,
	geocoder openmeteo.GeocodingClient,
	locator geolocation.Locator,
	lastResult store.LastResultStore,
	renderer Renderer,
	opts ...Option,
) *Controller {
	if locator == nil {
		locator = geolocation.Disabled{}
	}
	c := &Controller{
		forecast: forecast,
		geocoder: geocoder,
		locator:  locator,
		store:    lastResult,
		renderer: renderer,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolveInitialLocation shows the cached result if there is one, otherwise asks for the device position.
// Exactly one of the two happens.
func (c *Controller) ResolveInitialLocation(ctx context.Context) error {
	if cached := c.loadCached(ctx); cached != nil {
		c.logger.Info("showing cached weather on startup", "label", cached.Label, "saved_at", cached.SavedAt())
		c.renderCached(cached)
		return nil
	}
	return c.LocateByGeolocation(ctx)
}

// LocateByGeolocation makes a single position request and fetches weather for it
func (c *Controller) LocateByGeolocation(ctx context.Context) error {
	pos, err := c.locator.CurrentPosition(ctx)
	if err != nil {
		if errors.Is(err, geolocation.ErrUnsupported) {
			return c.fail(KindLocationUnavailable, MsgGeolocationUnsupported, err)
		}
		return c.fail(KindLocationUnavailable, MsgGeolocationDenied, err)
	}
	return c.FetchAndRender(ctx, pos.Latitude, pos.Longitude, YourLocationLabel)
}

// SearchCity geocodes query and fetches weather for the best match
func (c *Controller) SearchCity(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.fail(KindInputInvalid, MsgEnterCity, nil)
	}

	c.renderer.Render(loadingState())

	places, err := c.geocoder.Search(ctx, query)
	if err != nil {
		c.logger.Warn("geocoding failed", "query", query, "error", err)
		return c.fail(KindCityNotFound, MsgCityNotFound, err)
	}
	if len(places) == 0 {
		return c.fail(KindCityNotFound, MsgCityNotFound, nil)
	}

	place := places[0]
	return c.FetchAndRender(ctx, place.Latitude, place.Longitude, place.Label())
}

// Refresh re-fetches the most recently requested location, or falls back to geolocation
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	last := c.last
	c.mu.Unlock()

	if last == nil {
		return c.LocateByGeolocation(ctx)
	}
	return c.FetchAndRender(ctx, last.Latitude, last.Longitude, last.Label)
}

// FetchAndRender fetches current conditions once. On success it renders and then saves;
// on failure it renders the cached result if one exists.
func (c *Controller) FetchAndRender(ctx context.Context, lat, lon float64, label string) error {
	logger := c.logger.With("fetch_id", uuid.NewString(), "label", label)

	c.mu.Lock()
	c.last = &models.Location{Latitude: lat, Longitude: lon, Label: label}
	c.mu.Unlock()

	c.renderer.Render(loadingState())

	conditions, err := c.forecast.GetCurrent(ctx, lat, lon)
	if err != nil {
		logger.Warn("forecast fetch failed", "lat", lat, "lon", lon, "error", err)

		if cached := c.loadCached(ctx); cached != nil {
			logger.Info("falling back to cached weather", "cached_label", cached.Label, "saved_at", cached.SavedAt())
			c.renderCached(cached)
			return nil
		}
		return c.fail(KindServiceUnavailable, MsgServiceUnavailable, err)
	}

	c.renderer.Render(weatherState(NewWeatherView(*conditions, label)))

	if err := c.store.Save(ctx, models.NewCachedResult(*conditions, label, c.now())); err != nil {
		logger.Error("saving last result failed", "error", err)
	}
	logger.Debug("weather rendered", "weather_code", conditions.WeatherCode)
	return nil
}

func (c *Controller) loadCached(ctx context.Context) *models.CachedResult {
	cached, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn("reading last result failed", "error", err)
		return nil
	}
	return cached
}

func (c *Controller) renderCached(cached *models.CachedResult) {
	view := NewWeatherView(cached.Conditions, cached.Label)
	view.UpdatedAt = cached.SavedAt()
	c.renderer.Render(weatherState(view))
}

func (c *Controller) fail(kind ErrorKind, msg string, cause error) error {
	c.renderer.Render(failedState(msg))
	return &Error{Kind: kind, Message: msg, Cause: cause}
}
