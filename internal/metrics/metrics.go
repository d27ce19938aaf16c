package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Widget request counters by kind and outcome
	WidgetRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "widget_requests_total",
			Help: "Total number of widget data requests",
		},
		[]string{"kind", "status"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"kind"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"kind"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache store errors",
		},
		[]string{"level", "operation"},
	)

	// Get operation latency only
	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of cache get operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "level"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream source fetches",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	UpstreamFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_failures_total",
			Help: "Total number of failed upstream source fetches",
		},
		[]string{"kind"},
	)

	AuthVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_verifications_total",
			Help: "Total number of bearer token verifications",
		},
		[]string{"status"},
	)

	// Memory store capacity metrics, only set when the in-process store is active
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity_bytes",
			Help: "Memory cache capacity in bytes",
		},
		[]string{"level"},
	)

	CacheKeys = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_keys",
			Help: "Number of entries held by the cache",
		},
		[]string{"level"},
	)
)

// RecordWidgetRequest records a finished widget request with its HTTP status
func RecordWidgetRequest(kind string, status int) {
	WidgetRequests.WithLabelValues(kind, strconv.Itoa(status)).Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit(kind string) {
	CacheHits.WithLabelValues(kind).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(kind string) {
	CacheMisses.WithLabelValues(kind).Inc()
}

// RecordCacheError records a failed store operation
func RecordCacheError(level, operation string) {
	CacheErrors.WithLabelValues(level, operation).Inc()
}

// RecordUpstreamFailure records a failed source fetch
func RecordUpstreamFailure(kind string) {
	UpstreamFailures.WithLabelValues(kind).Inc()
}

// RecordAuthVerification records a token check; status is "success", "failed" or "expired"
func RecordAuthVerification(status string) {
	AuthVerifications.WithLabelValues(status).Inc()
}

// UpdateMemoryCacheStats updates memory store capacity and key count
func UpdateMemoryCacheStats(capacity, keys int64) {
	CacheCapacity.WithLabelValues("memory").Set(float64(capacity))
	CacheKeys.WithLabelValues("memory").Set(float64(keys))
}

// TimeCacheGetOperation returns a timer function for measuring cache get operation duration
func TimeCacheGetOperation(level string) func() {
	timer := prometheus.NewTimer(CacheOperationDuration.WithLabelValues("get", level))
	return func() {
		timer.ObserveDuration()
	}
}

// TimeUpstreamFetch returns a timer function for measuring a source fetch
func TimeUpstreamFetch(kind string) func() {
	timer := prometheus.NewTimer(UpstreamDuration.WithLabelValues(kind))
	return func() {
		timer.ObserveDuration()
	}
}
