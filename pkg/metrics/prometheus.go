// Package metrics provides Prometheus metrics for the club statistics service.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Pipeline metrics
	questions           *prometheus.CounterVec
	answerLatency       prometheus.Histogram
	spellingCorrections prometheus.Counter
	fallbacks           prometheus.Counter

	// Entity resolution metrics
	corpusCacheHits    *prometheus.CounterVec
	corpusCacheMisses  *prometheus.CounterVec
	corpusFetchErrors  *prometheus.CounterVec
	corpusSize         *prometheus.GaugeVec
	entityResolutions  *prometheus.CounterVec
	resolutionDuration prometheus.Histogram

	// Query metrics
	queryLatency     prometheus.Histogram
	queryErrors      prometheus.Counter
	unsafeParameters prometheus.Counter
	breakerState     prometheus.Gauge

	// Template metrics
	templateCacheHits   prometheus.Counter
	templateCacheMisses prometheus.Counter
	templateCacheSize   prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "clubstats",
		subsystem:        "chatbot",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.questions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("questions_total"),
		Help:        "Questions answered, by outcome template",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.answerLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("answer_latency_milliseconds"),
		Help:        "End-to-end latency of answering one question",
		Buckets:     []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		ConstLabels: labels,
	})

	m.spellingCorrections = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("spelling_corrections_total"),
		Help:        "Tokens replaced by the spelling corrector",
		ConstLabels: labels,
	})

	m.fallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("fallback_responses_total"),
		Help:        "Questions answered by the fallback matcher",
		ConstLabels: labels,
	})

	m.corpusCacheHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("corpus_cache_hits_total"),
		Help:        "Entity corpus cache hits by entity type",
		ConstLabels: labels,
	}, []string{"entity_type"})

	m.corpusCacheMisses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("corpus_cache_misses_total"),
		Help:        "Entity corpus cache misses by entity type",
		ConstLabels: labels,
	}, []string{"entity_type"})

	m.corpusFetchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("corpus_fetch_errors_total"),
		Help:        "Failed corpus fetches (served as empty corpus)",
		ConstLabels: labels,
	}, []string{"entity_type"})

	m.corpusSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("corpus_size"),
		Help:        "Number of names in the last fetched corpus by entity type",
		ConstLabels: labels,
	}, []string{"entity_type"})

	m.entityResolutions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("entity_resolutions_total"),
		Help:        "Entity resolutions by entity type and result (exact, fuzzy, ambiguous, not_found)",
		ConstLabels: labels,
	}, []string{"entity_type", "result"})

	m.resolutionDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("entity_resolution_milliseconds"),
		Help:        "Time spent resolving one entity name",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
		ConstLabels: labels,
	})

	m.queryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("query_latency_milliseconds"),
		Help:        "Graph query execution latency",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.queryErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("query_errors_total"),
		Help:        "Graph query executions that failed",
		ConstLabels: labels,
	})

	m.unsafeParameters = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("unsafe_parameters_total"),
		Help:        "Queries rejected because a parameter looked like an injection attempt",
		ConstLabels: labels,
	})

	m.breakerState = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("query_breaker_state"),
		Help:        "Query executor circuit breaker state (0 closed, 1 half-open, 2 open)",
		ConstLabels: labels,
	})

	m.templateCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("template_cache_hits_total"),
		Help:        "Rendered template cache hits",
		ConstLabels: labels,
	})

	m.templateCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("template_cache_misses_total"),
		Help:        "Rendered template cache misses",
		ConstLabels: labels,
	})

	m.templateCacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("template_cache_entries"),
		Help:        "Entries held by the rendered template cache",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_endpoint_total"),
		Help:        "Errors by endpoint, method and error type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_type_total"),
		Help:        "Errors by type and severity",
		ConstLabels: labels,
	}, []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// RecordQuestion increments the question counter for the given outcome.
func RecordQuestion(outcome string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.questions.WithLabelValues(outcome).Inc()
}

// RecordAnswerLatency records end-to-end answer latency in milliseconds.
func RecordAnswerLatency(latencyMs float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.answerLatency.Observe(latencyMs)
}

// RecordSpellingCorrections adds n corrected tokens.
func RecordSpellingCorrections(n int) {
	if !globalManager.enabled.Load() {
		return
	}
	if n > 0 {
		globalManager.spellingCorrections.Add(float64(n))
	}
}

// RecordFallback increments the fallback counter.
func RecordFallback() {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.fallbacks.Inc()
}

// RecordCorpusCacheHit increments the corpus cache hit counter.
func RecordCorpusCacheHit(entityType string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.corpusCacheHits.WithLabelValues(entityType).Inc()
}

// RecordCorpusCacheMiss increments the corpus cache miss counter.
func RecordCorpusCacheMiss(entityType string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.corpusCacheMisses.WithLabelValues(entityType).Inc()
}

// RecordCorpusFetchError increments the corpus fetch error counter.
func RecordCorpusFetchError(entityType string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.corpusFetchErrors.WithLabelValues(entityType).Inc()
}

// UpdateCorpusSize sets the size of the last fetched corpus.
func UpdateCorpusSize(entityType string, size int) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.corpusSize.WithLabelValues(entityType).Set(float64(size))
}

// RecordEntityResolution counts a resolution outcome.
func RecordEntityResolution(entityType, result string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.entityResolutions.WithLabelValues(entityType, result).Inc()
}

// RecordResolutionDuration records resolution time in milliseconds.
func RecordResolutionDuration(latencyMs float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.resolutionDuration.Observe(latencyMs)
}

// RecordQueryLatency records graph query latency in milliseconds.
func RecordQueryLatency(latencyMs float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.queryLatency.Observe(latencyMs)
}

// RecordQueryError increments the query error counter.
func RecordQueryError() {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.queryErrors.Inc()
}

// RecordUnsafeParameter increments the rejected-parameter counter.
func RecordUnsafeParameter() {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.unsafeParameters.Inc()
}

// UpdateBreakerState sets the breaker state gauge.
func UpdateBreakerState(state int) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.breakerState.Set(float64(state))
}

// RecordTemplateCacheHit increments the template cache hit counter.
func RecordTemplateCacheHit() {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.templateCacheHits.Inc()
}

// RecordTemplateCacheMiss increments the template cache miss counter.
func RecordTemplateCacheMiss() {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.templateCacheMisses.Inc()
}

// UpdateTemplateCacheSize sets the template cache entry gauge.
func UpdateTemplateCacheSize(size int) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.templateCacheSize.Set(float64(size))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records errors by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records errors by type and severity.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// Enabled reports whether m records observations.
func (m *Manager) Enabled() bool {
	return m.enabled.Load()
}

// RefreshInterval is how often polled gauges such as the system metrics are updated.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// SetEnabled turns the Record and Update helpers on or off.
func SetEnabled(enabled bool) {
	globalManager.enabled.Store(enabled)
}

// SetRefreshInterval changes the polling interval; non-positive values are ignored.
// Call it before starting pollers.
func SetRefreshInterval(interval time.Duration) {
	if interval > 0 {
		globalManager.refreshInterval = interval
	}
}

// RefreshInterval returns the polling interval of the global manager.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
