// Package metrics exposes Prometheus counters for API calls and query cache
// behaviour. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "notehub"

// Metrics owns a private registry so tests and multiple clients never
// collide on the global default registerer.
type Metrics struct {
	registry     *prometheus.Registry
	apiRequests  *prometheus.CounterVec
	apiDuration  *prometheus.HistogramVec
	cacheFetches *prometheus.CounterVec
	cacheEntries prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Remote notes API calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of remote notes API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		cacheFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "fetches_total",
			Help:      "Query cache fetches by key kind and result (hit, miss, shared, error).",
		}, []string{"kind", "result"}),
		cacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Entries currently held by the query cache.",
		}),
	}
	m.registry.MustRegister(m.apiRequests, m.apiDuration, m.cacheFetches, m.cacheEntries)
	return m
}

// Registry returns the registry holding notehub collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one API call.
func (m *Metrics) ObserveRequest(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(op, outcome).Inc()
	m.apiDuration.WithLabelValues(op).Observe(d.Seconds())
}

// CacheFetch records one cache fetch result.
func (m *Metrics) CacheFetch(kind, result string) {
	if m == nil {
		return
	}
	m.cacheFetches.WithLabelValues(kind, result).Inc()
}

// SetCacheEntries records the current cache size.
func (m *Metrics) SetCacheEntries(n int) {
	if m == nil {
		return
	}
	m.cacheEntries.Set(float64(n))
}
