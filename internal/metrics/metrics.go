package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "heritage"

// Refresh outcomes used as the outcome label of RefreshTotal.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Cache results used as the result label of CacheLookups.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics holds the Prometheus collectors for dataset generation and the API.
type Metrics struct {
	RecordsGenerated prometheus.Counter
	DatasetRecords   prometheus.Gauge

	// Dataset refresh metrics.
	RefreshTotal    *prometheus.CounterVec // labels: outcome={success,error}
	RefreshDuration prometheus.Histogram

	// Query cache metrics.
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}

	// HTTP metrics.
	HTTPRequests        *prometheus.CounterVec   // labels: method, route, status
	HTTPRequestDuration *prometheus.HistogramVec // labels: method, route
}

// New creates all metrics and registers them with the default Prometheus registry.
func New() *Metrics {
	m := build()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewForTesting creates unregistered metrics so tests can build as many as
// they like without "already registered" panics.
func NewForTesting() *Metrics {
	return build()
}

func build() *Metrics {
	return &Metrics{
		RecordsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_generated_total",
			Help:      "Total tourism records synthesized by the generator.",
		}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Number of records in the stored dataset after the last refresh.",
		}),
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_refresh_total",
			Help:      "Dataset refreshes by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_refresh_duration_seconds",
			Help:      "Duration of a generate, store and publish cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Record listing cache lookups by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route template and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RecordsGenerated,
		m.DatasetRecords,
		m.RefreshTotal,
		m.RefreshDuration,
		m.CacheLookups,
		m.HTTPRequests,
		m.HTTPRequestDuration,
	}
}
