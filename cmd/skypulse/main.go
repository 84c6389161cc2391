package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ngmaloney/skypulse-terminal/internal/config"
	"github.com/ngmaloney/skypulse-terminal/internal/database"
	"github.com/ngmaloney/skypulse-terminal/internal/geolocation"
	"github.com/ngmaloney/skypulse-terminal/internal/logging"
	"github.com/ngmaloney/skypulse-terminal/internal/metrics"
	"github.com/ngmaloney/skypulse-terminal/internal/offline"
	"github.com/ngmaloney/skypulse-terminal/internal/openmeteo"
	"github.com/ngmaloney/skypulse-terminal/internal/session"
	"github.com/ngmaloney/skypulse-terminal/internal/store"
	"github.com/ngmaloney/skypulse-terminal/internal/ui"
)

const httpTimeout = 30 * time.Second

func main() {
	city := flag.String("city", "", "Search a city on startup instead of using your location (e.g. Paris)")
	lat := flag.Float64("lat", 0, "Latitude to use as your location (requires --lon)")
	lon := flag.Float64("lon", 0, "Longitude to use as your location (requires --lat)")
	noCache := flag.Bool("no-cache", false, "Bypass the offline cache and always use the network")
	flag.Parse()

	coords := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { coords[f.Name] = true })
	if coords["lat"] != coords["lon"] {
		fmt.Println("Error: --lat and --lon must be given together.")
		os.Exit(1)
	}

	var locator geolocation.Locator
	if coords["lat"] {
		locator = geolocation.StaticLocator{Latitude: *lat, Longitude: *lon}
	}

	if err := run(*city, locator, *noCache); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}

func run(city string, locator geolocation.Locator, noCache bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.NewFile(cfg.LogFile, cfg.SlogLevel())
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	lastResult, closeStore, err := openStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeStore.Close()

	reg := prometheus.NewRegistry()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, reg, logger); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	transport := http.DefaultTransport
	if !noCache {
		manager, err := startOfflineCache(ctx, cfg, db, logger, metrics.NewOfflineMetrics(reg))
		if err != nil {
			return err
		}
		transport = manager.Transport()
	}
	apiClient := &http.Client{Timeout: httpTimeout, Transport: transport}

	if locator == nil {
		locator = newLocator(cfg)
	}

	renderer := ui.NewStateRenderer()
	defer renderer.Close()

	controller := session.NewController(
		openmeteo.NewForecastClient(cfg.ForecastURL, apiClient),
		openmeteo.NewGeocodingClient(cfg.GeocodingURL, apiClient, cfg.GeocodingRPS),
		locator,
		lastResult,
		renderer,
		session.WithLogger(logger),
	)

	var opts []ui.ModelOption
	if city != "" {
		opts = append(opts, ui.WithInitialQuery(city))
	}

	logger.Info("starting skypulse", "store", cfg.StoreType, "cache_version", cfg.CacheVersion, "offline", !noCache)
	p := tea.NewProgram(ui.NewModel(controller, renderer, opts...), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func openStore(ctx context.Context, cfg *config.Config, db *sql.DB) (store.LastResultStore, io.Closer, error) {
	if cfg.StoreType == "redis" {
		rs, err := store.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return rs, rs, nil
	}
	return store.NewSQLiteStore(db), io.NopCloser(nil), nil
}

// startOfflineCache installs the shell when an origin is configured, then activates.
// A failed install is logged and the manager is left inactive, so its transport
// goes straight to the network and older partitions are kept.
func startOfflineCache(ctx context.Context, cfg *config.Config, db *sql.DB, logger *slog.Logger, om *metrics.OfflineMetrics) (*offline.Manager, error) {
	origin, err := cfg.ShellOriginURL()
	if err != nil {
		return nil, err
	}

	offlineCfg := offline.DefaultConfig()
	offlineCfg.Version = cfg.CacheVersion
	offlineCfg.ShellOrigin = origin

	var storage offline.Storage = offline.NewSQLiteStorage(db)
	if cfg.CacheBackend == "memory" {
		storage = offline.NewMemoryStorage()
	}

	manager := offline.NewManager(offlineCfg, http.DefaultTransport, storage,
		offline.WithLogger(logger),
		offline.WithMetrics(om),
	)

	if origin != nil {
		installCtx, cancel := context.WithTimeout(ctx, httpTimeout)
		defer cancel()
		if err := manager.Install(installCtx); err != nil {
			logger.Warn("offline shell install failed", "origin", origin.String(), "error", err)
			return manager, nil
		}
	}

	if _, err := manager.Activate(ctx); err != nil {
		return nil, fmt.Errorf("activating offline cache: %w", err)
	}
	return manager, nil
}

// newLocator builds the configured geolocation source. It bypasses the offline
// cache so a stale position is never replayed.
func newLocator(cfg *config.Config) geolocation.Locator {
	if cfg.Geolocation == "off" {
		return geolocation.Disabled{}
	}
	return geolocation.NewIPLocator(cfg.IPGeoURL, &http.Client{Timeout: httpTimeout})
}
