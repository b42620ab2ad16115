package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the airport data pipeline
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec
	CacheEntries     prometheus.Gauge

	// Upstream Metrics
	UpstreamRequestsTotal prometheus.CounterVec
	RateLimitRejections   prometheus.Counter
	BatchSize             prometheus.Histogram

	// Business Metrics
	AirportsProcessedTotal prometheus.Counter
	CompletenessScore      prometheus.Histogram
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aerodata_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aerodata_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "aerodata_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aerodata_cache_hits_total",
				Help: "Total airport cache hits by lookup kind",
			},
			[]string{"kind"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aerodata_cache_misses_total",
				Help: "Total airport cache misses by lookup kind",
			},
			[]string{"kind"},
		),
		CacheEntries: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "aerodata_cache_entries",
				Help: "Current number of cached airports",
			},
		),

		// Upstream Metrics
		UpstreamRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aerodata_upstream_requests_total",
				Help: "Total upstream provider requests by outcome",
			},
			[]string{"outcome"},
		),
		RateLimitRejections: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aerodata_rate_limit_rejections_total",
				Help: "Total upstream requests rejected by the local rate limiter",
			},
		),
		BatchSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "aerodata_batch_size",
				Help:    "Distribution of identifiers per batch lookup",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
			},
		),

		// Business Metrics
		AirportsProcessedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aerodata_airports_processed_total",
				Help: "Total raw airport records processed into typed form",
			},
		),
		CompletenessScore: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "aerodata_completeness_score",
				Help:    "Distribution of completeness scores on processed airports",
				Buckets: []float64{10, 25, 50, 75, 90, 100},
			},
		),
	}
}
