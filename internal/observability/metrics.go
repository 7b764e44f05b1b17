// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Projection metrics
	ProjectionRequests   *prometheus.CounterVec
	ProjectionDuration   prometheus.Histogram
	SimulationsExecuted  prometheus.Counter
	StabilityAnalyses    prometheus.Counter
	SyntheticFallbacks   prometheus.Counter

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// History source metrics
	UpstreamFetchErrors prometheus.Counter
	TradesFetched       *prometheus.CounterVec

	// Ingestion metrics
	FillsIngested    prometheus.Counter
	DuplicateFills   prometheus.Counter
	FeedReconnects   prometheus.Counter
	IngestionErrors  *prometheus.CounterVec

	// Database metrics
	DBQueryDuration  *prometheus.HistogramVec
	DBQueryErrors    *prometheus.CounterVec
	SnapshotsWritten prometheus.Counter

	// Health metrics
	LastSuccessfulProjection prometheus.Gauge
	UptimeSeconds            prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pnl_projection"
	}

	return &Metrics{
		// Projection metrics
		ProjectionRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "requests_total",
			Help:      "Total number of projection requests by status",
		}, []string{"status"}),
		ProjectionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "duration_seconds",
			Help:      "Projection computation duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SimulationsExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "simulations_executed_total",
			Help:      "Total number of Monte Carlo simulation paths executed",
		}),
		StabilityAnalyses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "stability_analyses_total",
			Help:      "Total number of walk-forward stability analyses run",
		}),
		SyntheticFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "synthetic_fallbacks_total",
			Help:      "Total number of projections computed from synthetic trade data",
		}),

		// Cache metrics
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of cache hits by backend",
		}, []string{"backend"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of cache misses by backend",
		}, []string{"backend"}),

		// History source metrics
		UpstreamFetchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "upstream_fetch_errors_total",
			Help:      "Total number of failed upstream trade-history fetches",
		}),
		TradesFetched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "trades_fetched_total",
			Help:      "Total number of trades fetched by source",
		}, []string{"source"}),

		// Ingestion metrics
		FillsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "fills_ingested_total",
			Help:      "Total number of live fills stored",
		}),
		DuplicateFills: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "duplicate_fills_total",
			Help:      "Total number of fills skipped as already stored",
		}),
		FeedReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "feed_reconnects_total",
			Help:      "Total number of fill feed reconnect attempts",
		}),
		IngestionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "errors_total",
			Help:      "Total number of ingestion errors by type",
		}, []string{"error_type"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
		SnapshotsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "snapshots_written_total",
			Help:      "Total number of projection snapshots persisted",
		}),

		// Health metrics
		LastSuccessfulProjection: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_projection_timestamp",
			Help:      "Unix timestamp of last successful projection",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordProjectionRequest records a completed projection request by status.
func RecordProjectionRequest(status string) {
	DefaultMetrics.ProjectionRequests.WithLabelValues(status).Inc()
}

// RecordProjectionComputed records the duration and path count of a fresh computation.
func RecordProjectionComputed(seconds float64, simulations int) {
	DefaultMetrics.ProjectionDuration.Observe(seconds)
	DefaultMetrics.SimulationsExecuted.Add(float64(simulations))
	DefaultMetrics.LastSuccessfulProjection.SetToCurrentTime()
}

// RecordStabilityAnalysis increments the stability analyses counter.
func RecordStabilityAnalysis() {
	DefaultMetrics.StabilityAnalyses.Inc()
}

// RecordSyntheticFallback increments the synthetic fallback counter.
func RecordSyntheticFallback() {
	DefaultMetrics.SyntheticFallbacks.Inc()
}

// RecordCacheHit increments the cache hit counter for a backend.
func RecordCacheHit(backend string) {
	DefaultMetrics.CacheHits.WithLabelValues(backend).Inc()
}

// RecordCacheMiss increments the cache miss counter for a backend.
func RecordCacheMiss(backend string) {
	DefaultMetrics.CacheMisses.WithLabelValues(backend).Inc()
}

// RecordUpstreamFetchError increments the upstream fetch error counter.
func RecordUpstreamFetchError() {
	DefaultMetrics.UpstreamFetchErrors.Inc()
}

// RecordTradesFetched adds to the per-source fetched trade counter.
func RecordTradesFetched(source string, count int) {
	DefaultMetrics.TradesFetched.WithLabelValues(source).Add(float64(count))
}

// RecordFillIngested increments the fills ingested counter.
func RecordFillIngested() {
	DefaultMetrics.FillsIngested.Inc()
}

// RecordDuplicateFill increments the duplicate fills counter.
func RecordDuplicateFill() {
	DefaultMetrics.DuplicateFills.Inc()
}

// RecordFeedReconnect increments the feed reconnect counter.
func RecordFeedReconnect() {
	DefaultMetrics.FeedReconnects.Inc()
}

// RecordIngestionError records an ingestion error by type.
func RecordIngestionError(errorType string) {
	DefaultMetrics.IngestionErrors.WithLabelValues(errorType).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordSnapshotWritten increments the snapshots written counter.
func RecordSnapshotWritten() {
	DefaultMetrics.SnapshotsWritten.Inc()
}
