package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the resolution
// pipeline. A nil *Metrics is valid and turns every observation into a no-op,
// which keeps tests and tooling free of registry setup.
type Metrics struct {
	Resolutions     *prometheus.CounterVec // labels: plugin, outcome={hit,miss,error}
	ResolveDuration prometheus.Histogram
	AddressCreated  prometheus.Counter

	// External lookup metrics.
	ProviderRequests *prometheus.CounterVec // labels: provider, op={suggest,fias,place}, outcome={success,error,empty}
	ProviderCache    *prometheus.CounterVec // labels: tier={memory,redis}, result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "addrsvc",
			Name:      "resolutions_total",
			Help:      "Resolution attempts by plugin and outcome.",
		}, []string{"plugin", "outcome"}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "addrsvc",
			Name:      "resolve_duration_seconds",
			Help:      "Duration of a complete resolution pass over the plugin chain.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		AddressCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "addrsvc",
			Name:      "addresses_created_total",
			Help:      "Total new canonical addresses persisted.",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "addrsvc",
			Name:      "provider_requests_total",
			Help:      "External provider requests by provider, operation and outcome.",
		}, []string{"provider", "op", "outcome"}),
		ProviderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "addrsvc",
			Name:      "provider_cache_total",
			Help:      "Provider response cache lookups by tier and result.",
		}, []string{"tier", "result"}),
	}

	prometheus.MustRegister(
		m.Resolutions,
		m.ResolveDuration,
		m.AddressCreated,
		m.ProviderRequests,
		m.ProviderCache,
	)

	return m
}

func (m *Metrics) ObserveResolution(plugin, outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(plugin, outcome).Inc()
}

func (m *Metrics) ObserveResolveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.ResolveDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveAddressCreated() {
	if m == nil {
		return
	}
	m.AddressCreated.Inc()
}

func (m *Metrics) ObserveProviderRequest(provider, op, outcome string) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(provider, op, outcome).Inc()
}

func (m *Metrics) ObserveProviderCache(tier, result string) {
	if m == nil {
		return
	}
	m.ProviderCache.WithLabelValues(tier, result).Inc()
}
