// Package metrics provides Prometheus metrics for the octofit client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by callers.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// latencyBuckets are in milliseconds; remote calls dominate.
var latencyBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // immutable defaults

// Manager owns every collector exported by the client and the sandbox.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Resource Fetcher
	fetchRequests *prometheus.CounterVec
	fetchLatency  *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
	fetchRecords  *prometheus.GaugeVec

	// Edit transactions
	saveTransactions *prometheus.CounterVec
	saveFailures     *prometheus.CounterVec
	saveLatency      prometheus.Histogram

	// Screens
	viewTransitions *prometheus.CounterVec

	// Sandbox upstream
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	storeDocuments      *prometheus.GaugeVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "octofit",
		subsystem:        "client",
		histogramBuckets: latencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.fetchRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_requests_total",
		Help:      "Collection fetches by resource and outcome",
	}, []string{"resource", "outcome"})

	m.fetchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_latency_milliseconds",
		Help:      "Round trip of collection fetches and patches in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"resource", "method"})

	m.fetchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_errors_total",
		Help:      "Remote call failures by resource and error kind",
	}, []string{"resource", "kind"})

	m.fetchRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "collection_records",
		Help:      "Size of the last collection fetched per resource",
	}, []string{"resource"})

	m.saveTransactions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "save_transactions_total",
		Help:      "Edit transactions by outcome",
	}, []string{"outcome"})

	m.saveFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "save_failures_total",
		Help:      "Failed edit transactions by the step that failed",
	}, []string{"step"})

	m.saveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "save_latency_milliseconds",
		Help:      "Duration of edit transactions from submit to refreshed data",
		Buckets:   m.histogramBuckets,
	})

	m.viewTransitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "view_transitions_total",
		Help:      "View state transitions by screen and target state",
	}, []string{"screen", "state"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "sandbox",
		Name:      "http_requests_total",
		Help:      "Sandbox HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "sandbox",
		Name:      "http_request_duration_milliseconds",
		Help:      "Sandbox HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method", "status_code"})

	m.storeDocuments = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "sandbox",
		Name:      "store_documents",
		Help:      "Documents held by the sandbox store per collection",
	}, []string{"collection"})
}

// RecordFetch records the outcome of one collection fetch.
func (m *Manager) RecordFetch(resource, outcome string) {
	m.fetchRequests.WithLabelValues(resource, outcome).Inc()
}

// RecordFetchLatency records a remote call round trip in milliseconds.
func (m *Manager) RecordFetchLatency(resource, method string, latencyMs float64) {
	m.fetchLatency.WithLabelValues(resource, method).Observe(latencyMs)
}

// RecordFetchError counts a remote call failure by error kind.
func (m *Manager) RecordFetchError(resource, kind string) {
	m.fetchErrors.WithLabelValues(resource, kind).Inc()
}

// UpdateCollectionSize sets the size of the last fetched collection.
func (m *Manager) UpdateCollectionSize(resource string, size int) {
	m.fetchRecords.WithLabelValues(resource).Set(float64(size))
}

// RecordSave records an edit transaction outcome.
func (m *Manager) RecordSave(outcome string) {
	m.saveTransactions.WithLabelValues(outcome).Inc()
}

// RecordSaveFailure counts a failed edit transaction by step.
func (m *Manager) RecordSaveFailure(step string) {
	m.saveFailures.WithLabelValues(step).Inc()
}

// RecordSaveLatency records the edit transaction duration.
func (m *Manager) RecordSaveLatency(latencyMs float64) {
	m.saveLatency.Observe(latencyMs)
}

// RecordViewTransition counts a screen entering state.
func (m *Manager) RecordViewTransition(screen, state string) {
	m.viewTransitions.WithLabelValues(screen, state).Inc()
}

// RecordHTTPRequest records one sandbox request.
func (m *Manager) RecordHTTPRequest(route, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(route, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, statusCode).Observe(durationMs)
}

// UpdateStoredDocuments sets the document count of one sandbox collection.
func (m *Manager) UpdateStoredDocuments(collection string, n int) {
	m.storeDocuments.WithLabelValues(collection).Set(float64(n))
}

// Default returns the process-wide manager bound to GetRegistry.
func Default() *Manager {
	return globalManager
}

// RecordFetch records the outcome of one collection fetch.
func RecordFetch(resource, outcome string) { globalManager.RecordFetch(resource, outcome) }

// RecordFetchLatency records a remote call round trip in milliseconds.
func RecordFetchLatency(resource, method string, latencyMs float64) {
	globalManager.RecordFetchLatency(resource, method, latencyMs)
}

// RecordFetchError counts a remote call failure by error kind.
func RecordFetchError(resource, kind string) { globalManager.RecordFetchError(resource, kind) }

// UpdateCollectionSize sets the size of the last fetched collection.
func UpdateCollectionSize(resource string, size int) {
	globalManager.UpdateCollectionSize(resource, size)
}

// RecordSave records an edit transaction outcome.
func RecordSave(outcome string) { globalManager.RecordSave(outcome) }

// RecordSaveFailure counts a failed edit transaction by step.
func RecordSaveFailure(step string) { globalManager.RecordSaveFailure(step) }

// RecordSaveLatency records the edit transaction duration.
func RecordSaveLatency(latencyMs float64) { globalManager.RecordSaveLatency(latencyMs) }

// RecordViewTransition counts a screen entering state.
func RecordViewTransition(screen, state string) { globalManager.RecordViewTransition(screen, state) }

// RecordHTTPRequest records one sandbox request.
func RecordHTTPRequest(route, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(route, method, statusCode, durationMs)
}

// UpdateStoredDocuments sets the document count of one sandbox collection.
func UpdateStoredDocuments(collection string, n int) {
	globalManager.UpdateStoredDocuments(collection, n)
}

// GetRegistry returns the registry that holds the global collectors.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
