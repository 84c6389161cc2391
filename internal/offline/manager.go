// Package offline is an in-process offline asset cache. It sits under every
// HTTP client of the application as an http.RoundTripper and answers from
// versioned cache partitions when the network is unavailable.
package offline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ngmaloney/skypulse-terminal/internal/metrics"
)

const partitionPrefix = "skypulse"

// Class is the routing class of an intercepted request
type Class int

const (
	ClassStatic Class = iota
	ClassNavigation
	ClassAPI
)

func (c Class) String() string {
	switch c {
	case ClassNavigation:
		return "navigation"
	case ClassAPI:
		return "api"
	default:
		return "static"
	}
}

// Config describes the app shell and the API hosts
type Config struct {
	Version          string
	ShellOrigin      *url.URL
	ShellAssets      []string
	FallbackDocument string
	APIHosts         []string
}

// DefaultConfig returns the shell asset list and Open-Meteo hosts for version v1
func DefaultConfig() Config {
	return Config{
		Version: "v1",
		ShellAssets: []string{
			"/",
			"/index.html",
			"/style.css",
			"/script.js",
			"/manifest.json",
			"/icons/icon-192.png",
			"/icons/icon-512.png",
		},
		FallbackDocument: "/index.html",
		APIHosts:         []string{"api.open-meteo.com", "geocoding-api.open-meteo.com"},
	}
}

// Manager implements install, activate and fetch over a Storage
type Manager struct {
	cfg     Config
	network http.RoundTripper
	storage Storage
	logger  *slog.Logger
	metrics *metrics.OfflineMetrics
	now     func() time.Time

	mu          sync.RWMutex
	installed   bool
	controlling bool
}

// Option configures a Manager
type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func WithMetrics(om *metrics.OfflineMetrics) Option {
	return func(m *Manager) { m.metrics = om }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager builds a manager. A nil network uses http.DefaultTransport.
func NewManager(cfg Config, network http.RoundTripper, storage Storage, opts ...Option) *Manager {
	if cfg.Version == "" {
		cfg.Version = "v1"
	}
	if network == nil {
		network = http.DefaultTransport
	}
	m := &Manager{
		cfg:     cfg,
		network: network,
		storage: storage,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) StaticPartition() string {
	return fmt.Sprintf("%s-static-%s", partitionPrefix, m.cfg.Version)
}

func (m *Manager) DynamicPartition() string {
	return fmt.Sprintf("%s-dynamic-%s", partitionPrefix, m.cfg.Version)
}

// Controlling reports whether Activate has completed
func (m *Manager) Controlling() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.controlling
}

// Installed reports whether the app shell was pre-cached
func (m *Manager) Installed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.installed
}

type fetchedAsset struct {
	key  string
	resp *CachedResponse
}

// Install fetches every shell asset and writes them to the static partition.
// Nothing is written unless every asset succeeds.
func (m *Manager) Install(ctx context.Context) error {
	if m.cfg.ShellOrigin == nil {
		return errors.New("offline: no shell origin configured")
	}

	assets := make([]fetchedAsset, len(m.cfg.ShellAssets))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range m.cfg.ShellAssets {
		g.Go(func() error {
			req, err := http.NewRequestWithContext(gctx, http.MethodGet, m.shellURL(path), nil)
			if err != nil {
				return fmt.Errorf("building request for %s: %w", path, err)
			}
			resp, err := m.network.RoundTrip(req)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", path, err)
			}
			if !isSuccess(resp.StatusCode) {
				resp.Body.Close()
				return fmt.Errorf("fetching %s: status %d", path, resp.StatusCode)
			}
			cached, err := cloneResponse(resp, m.now())
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			assets[i] = fetchedAsset{key: RequestKey(req), resp: cached}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.logger.Error("app shell install failed", "version", m.cfg.Version, "error", err)
		return err
	}

	static := m.StaticPartition()
	if err := m.storage.Open(ctx, static); err != nil {
		return err
	}
	for _, a := range assets {
		if err := m.storage.Put(ctx, static, a.key, a.resp); err != nil {
			return err
		}
		m.metrics.ObserveWrite(static)
	}

	m.mu.Lock()
	m.installed = true
	m.mu.Unlock()

	m.metrics.ObserveInstall(len(assets))
	m.logger.Info("app shell installed", "version", m.cfg.Version, "assets", len(assets))
	return nil
}

// Activate deletes every partition other than the current static and dynamic
// ones and starts intercepting requests. It returns the deleted partition names.
func (m *Manager) Activate(ctx context.Context) ([]string, error) {
	names, err := m.storage.Partitions(ctx)
	if err != nil {
		return nil, err
	}

	keep := map[string]bool{m.StaticPartition(): true, m.DynamicPartition(): true}
	var deleted []string
	for _, name := range names {
		if keep[name] {
			continue
		}
		ok, err := m.storage.DeletePartition(ctx, name)
		if err != nil {
			return deleted, err
		}
		if ok {
			deleted = append(deleted, name)
		}
	}

	m.mu.Lock()
	m.controlling = true
	m.mu.Unlock()

	m.metrics.ObservePurge(len(deleted))
	m.logger.Info("offline cache activated", "version", m.cfg.Version, "purged", deleted)
	return deleted, nil
}

// Classify decides the routing class of a GET request
func (m *Manager) Classify(req *http.Request) Class {
	if req.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return ClassNavigation
	}
	if m.sameOrigin(req.URL) && strings.HasPrefix(req.Header.Get("Accept"), "text/html") {
		return ClassNavigation
	}
	for _, host := range m.cfg.APIHosts {
		if strings.EqualFold(req.URL.Hostname(), host) {
			return ClassAPI
		}
	}
	return ClassStatic
}

// Fetch answers req according to its class. Non-GET requests go straight to the network.
func (m *Manager) Fetch(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return m.network.RoundTrip(req)
	}
	req = req.WithContext(ctx)

	class := m.Classify(req)
	switch class {
	case ClassNavigation:
		return m.networkFirst(ctx, req, class, m.navigationFallback)
	case ClassAPI:
		return m.networkFirst(ctx, req, class, m.matchAny)
	default:
		return m.cacheFirst(ctx, req, class)
	}
}

type fallbackFunc func(ctx context.Context, req *http.Request) (*CachedResponse, error)

func (m *Manager) networkFirst(ctx context.Context, req *http.Request, class Class, fallback fallbackFunc) (*http.Response, error) {
	resp, netErr := m.network.RoundTrip(req)
	if netErr == nil {
		m.metrics.ObserveRequest(class.String(), metrics.OutcomeNetwork)
		m.storeDynamic(ctx, req, resp)
		return resp, nil
	}

	cached, err := fallback(ctx, req)
	if err != nil {
		m.logger.Warn("offline cache lookup failed", "url", req.URL.String(), "error", err)
	}
	if cached == nil {
		m.metrics.ObserveRequest(class.String(), metrics.OutcomeError)
		return nil, netErr
	}

	m.metrics.ObserveRequest(class.String(), metrics.OutcomeCache)
	m.logger.Debug("served from offline cache", "class", class.String(), "url", req.URL.String())
	return cached.toResponse(req), nil
}

func (m *Manager) cacheFirst(ctx context.Context, req *http.Request, class Class) (*http.Response, error) {
	cached, err := m.matchAny(ctx, req)
	if err != nil {
		m.logger.Warn("offline cache lookup failed", "url", req.URL.String(), "error", err)
	}
	if cached != nil {
		m.metrics.ObserveRequest(class.String(), metrics.OutcomeCache)
		return cached.toResponse(req), nil
	}

	resp, err := m.network.RoundTrip(req)
	if err != nil {
		m.metrics.ObserveRequest(class.String(), metrics.OutcomeError)
		return nil, err
	}
	m.metrics.ObserveRequest(class.String(), metrics.OutcomeMiss)
	m.storeDynamic(ctx, req, resp)
	return resp, nil
}

func (m *Manager) matchAny(ctx context.Context, req *http.Request) (*CachedResponse, error) {
	return m.storage.MatchAny(ctx, RequestKey(req))
}

func (m *Manager) navigationFallback(ctx context.Context, _ *http.Request) (*CachedResponse, error) {
	return m.storage.MatchAny(ctx, keyFor(http.MethodGet, m.shellURL(m.cfg.FallbackDocument)))
}

// storeDynamic clones a successful response into the dynamic partition.
// Failures are logged and never reach the caller.
func (m *Manager) storeDynamic(ctx context.Context, req *http.Request, resp *http.Response) {
	if !isSuccess(resp.StatusCode) {
		return
	}
	cached, err := cloneResponse(resp, m.now())
	if err != nil {
		m.logger.Warn("could not clone response for cache", "url", req.URL.String(), "error", err)
		return
	}
	dynamic := m.DynamicPartition()
	if err := m.storage.Put(ctx, dynamic, RequestKey(req), cached); err != nil {
		m.logger.Warn("could not write offline cache", "partition", dynamic, "error", err)
		return
	}
	m.metrics.ObserveWrite(dynamic)
}

func (m *Manager) shellURL(path string) string {
	if m.cfg.ShellOrigin == nil {
		return path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return m.cfg.ShellOrigin.String() + path
	}
	return m.cfg.ShellOrigin.ResolveReference(ref).String()
}

func (m *Manager) sameOrigin(u *url.URL) bool {
	o := m.cfg.ShellOrigin
	return o != nil && strings.EqualFold(u.Scheme, o.Scheme) && strings.EqualFold(u.Host, o.Host)
}

// Transport returns a RoundTripper that routes through Fetch once the manager
// is controlling, and straight to the network before that.
func (m *Manager) Transport() http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if !m.Controlling() {
			return m.network.RoundTrip(req)
		}
		return m.Fetch(req.Context(), req)
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
