package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for OfflineMetrics.Requests
const (
	OutcomeNetwork = "network"
	OutcomeCache   = "cache"
	OutcomeMiss    = "miss"
	OutcomeError   = "error"
)

// OfflineMetrics counts how the offline cache manager answered requests
type OfflineMetrics struct {
	Requests         *prometheus.CounterVec
	CacheWrites      *prometheus.CounterVec
	PurgedPartitions prometheus.Counter
	InstalledAssets  prometheus.Gauge
}

// NewOfflineMetrics registers the collectors on reg
func NewOfflineMetrics(reg prometheus.Registerer) *OfflineMetrics {
	factory := promauto.With(reg)
	return &OfflineMetrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypulse_offline_requests_total",
				Help: "Requests seen by the offline cache manager by class and outcome",
			},
			[]string{"class", "outcome"},
		),
		CacheWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skypulse_offline_cache_writes_total",
				Help: "Responses written into a cache partition",
			},
			[]string{"partition"},
		),
		PurgedPartitions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "skypulse_offline_purged_partitions_total",
				Help: "Stale cache partitions deleted on activation",
			},
		),
		InstalledAssets: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "skypulse_offline_installed_assets",
				Help: "App shell assets pre-cached by the last successful install",
			},
		),
	}
}

// ObserveRequest is safe to call on a nil receiver
func (m *OfflineMetrics) ObserveRequest(class, outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(class, outcome).Inc()
}

// ObserveWrite is safe to call on a nil receiver
func (m *OfflineMetrics) ObserveWrite(partition string) {
	if m == nil {
		return
	}
	m.CacheWrites.WithLabelValues(partition).Inc()
}

// ObservePurge is safe to call on a nil receiver
func (m *OfflineMetrics) ObservePurge(n int) {
	if m == nil {
		return
	}
	m.PurgedPartitions.Add(float64(n))
}

// ObserveInstall is safe to call on a nil receiver
func (m *OfflineMetrics) ObserveInstall(n int) {
	if m == nil {
		return
	}
	m.InstalledAssets.Set(float64(n))
}
