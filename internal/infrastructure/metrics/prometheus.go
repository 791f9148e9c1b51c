package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the coinbit sync service
var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinbit_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coinbit_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPResponseSizeBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coinbit_http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"method", "path"},
	)

	StreamSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coinbit_stream_sessions_active",
			Help: "Number of open websocket stream sessions",
		},
	)

	// Cache Metrics
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinbit_cache_operations_total",
			Help: "Total number of local store operations",
		},
		[]string{"collection", "operation", "result"}, // result: hit/miss/success/error
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coinbit_cache_operation_duration_seconds",
			Help:    "Local store operation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"backend", "operation"},
	)

	// External API Metrics
	ExternalAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinbit_external_api_requests_total",
			Help: "Total number of external API requests",
		},
		[]string{"service", "endpoint", "status_code"},
	)

	ExternalAPIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coinbit_external_api_request_duration_seconds",
			Help:    "External API request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"service", "endpoint"},
	)

	ExternalAPIRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinbit_external_api_retries_total",
			Help: "Total number of external API retry attempts",
		},
		[]string{"service", "endpoint", "attempt"},
	)

	ExternalAPICallsInWindow = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coinbit_external_api_calls_in_window",
			Help: "Calls made to the external API in the current rate window",
		},
		[]string{"service"},
	)

	// Sync Metrics
	SyncFlowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinbit_sync_flows_total",
			Help: "Sync flows by resource and terminal outcome",
		},
		[]string{"resource", "outcome"}, // outcome: cache/network/stale_cache/error/noop
	)

	SyncFlowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coinbit_sync_flow_duration_seconds",
			Help:    "Duration of complete sync flows",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 15.0},
		},
		[]string{"resource"},
	)

	FallbackActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinbit_fallback_activations_total",
			Help: "Times a flow served cached data instead of fresh data",
		},
		[]string{"reason", "resource"}, // reason: offline/timeout/rate_limited/http_status/malformed/transport
	)

	FavoriteTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinbit_favorite_toggles_total",
			Help: "Favorite toggles by resulting state",
		},
		[]string{"state"},
	)

	// Rate Limiting Metrics
	RateLimitRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinbit_rate_limit_requests_total",
			Help: "Total number of requests processed by rate limiters",
		},
		[]string{"limiter", "result"}, // result: allowed/blocked/waited
	)

	RateLimitTokensRemaining = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coinbit_rate_limit_tokens_remaining",
			Help: "Number of tokens remaining in rate limiter buckets",
		},
		[]string{"limiter"},
	)

	// Connectivity
	ConnectivityOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coinbit_connectivity_online",
			Help: "Connectivity status (1=online, 0=offline)",
		},
	)

	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coinbit_application_info",
			Help: "Application information",
		},
		[]string{"version", "store_backend", "go_version"},
	)
)

func RecordHTTPRequest(method, path string, statusCode int, duration float64, responseSize int64) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)

	if responseSize > 0 {
		HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordCacheOperation records a local store operation result
func RecordCacheOperation(collection, operation, result string) {
	CacheOperationsTotal.WithLabelValues(collection, operation, result).Inc()
}

func RecordCacheDuration(backend, operation string, seconds float64) {
	CacheOperationDuration.WithLabelValues(backend, operation).Observe(seconds)
}

// RecordExternalAPICall records external API call metrics
func RecordExternalAPICall(service, endpoint string, statusCode int, seconds float64) {
	ExternalAPIRequestsTotal.WithLabelValues(service, endpoint, strconv.Itoa(statusCode)).Inc()
	ExternalAPIRequestDuration.WithLabelValues(service, endpoint).Observe(seconds)
}

func RecordExternalAPIRetry(service, endpoint string, attempt int) {
	ExternalAPIRetries.WithLabelValues(service, endpoint, strconv.Itoa(attempt)).Inc()
}

func UpdateCallsInWindow(service string, calls int) {
	ExternalAPICallsInWindow.WithLabelValues(service).Set(float64(calls))
}

// RecordSyncFlow records the terminal outcome of a sync flow
func RecordSyncFlow(resource, outcome string, seconds float64) {
	SyncFlowsTotal.WithLabelValues(resource, outcome).Inc()
	SyncFlowDuration.WithLabelValues(resource).Observe(seconds)
}

func RecordFallbackActivation(reason, resource string) {
	FallbackActivationsTotal.WithLabelValues(reason, resource).Inc()
}

func RecordFavoriteToggle(favorite bool) {
	state := "removed"
	if favorite {
		state = "added"
	}
	FavoriteTogglesTotal.WithLabelValues(state).Inc()
}

func RecordRateLimitResult(limiter, result string) {
	RateLimitRequestsTotal.WithLabelValues(limiter, result).Inc()
}

func UpdateRateLimitTokens(limiter string, tokens float64) {
	RateLimitTokensRemaining.WithLabelValues(limiter).Set(tokens)
}

func UpdateConnectivity(online bool) {
	status := 0.0
	if online {
		status = 1.0
	}
	ConnectivityOnline.Set(status)
}

func SetApplicationInfo(version, storeBackend, goVersion string) {
	ApplicationInfo.WithLabelValues(version, storeBackend, goVersion).Set(1)
}
