// Package metrics provides the centralized Prometheus metrics registry for the competition platform.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ScheduleValidationErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tightlines",
		Name:      "schedule_validation_errors_total",
		Help:      "Competition schedules that failed civil date/time validation",
	}, []string{"field"})
	StatusTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tightlines",
		Name:      "status_transitions_total",
		Help:      "Competition lifecycle transitions observed by the scheduler",
	}, []string{"from", "to"})
	WeighInsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tightlines",
		Name:      "weigh_ins_total",
		Help:      "Total number of weigh-ins recorded",
	})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tightlines",
		Name:      "cache_lookups_total",
		Help:      "Cache lookups by cache name and result",
	}, []string{"cache", "result"})
	LiveMessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tightlines",
		Name:      "live_messages_total",
		Help:      "Live update messages by type and delivery outcome",
	}, []string{"type", "outcome"})
)

// Gauge metrics
var (
	CompetitionsByStatus = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tightlines",
		Name:      "competitions_by_status",
		Help:      "Published competitions in each lifecycle status",
	}, []string{"status"})
	LiveConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tightlines",
		Name:      "live_connections",
		Help:      "Open live leaderboard websocket connections",
	})
)

// Histogram metrics
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tightlines",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of API requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "code"})
	StatusRefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tightlines",
		Name:      "status_refresh_duration_seconds",
		Help:      "Duration of scheduled status refresh runs in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ScheduleValidationErrorsTotal)
		registry.MustRegister(StatusTransitionsTotal)
		registry.MustRegister(WeighInsTotal)
		registry.MustRegister(CacheLookupsTotal)
		registry.MustRegister(LiveMessagesTotal)

		registry.MustRegister(CompetitionsByStatus)
		registry.MustRegister(LiveConnections)

		registry.MustRegister(HTTPRequestDuration)
		registry.MustRegister(StatusRefreshDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordScheduleValidationError records a schedule field that failed to parse.
func RecordScheduleValidationError(field string) {
	ScheduleValidationErrorsTotal.WithLabelValues(field).Inc()
}

// RecordStatusTransition records a competition moving between lifecycle statuses.
func RecordStatusTransition(from, to string) {
	StatusTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordWeighIn records a weigh-in.
func RecordWeighIn() {
	WeighInsTotal.Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

// RecordLiveMessage records a live update delivery outcome.
func RecordLiveMessage(messageType, outcome string) {
	LiveMessagesTotal.WithLabelValues(messageType, outcome).Inc()
}

// UpdateCompetitionsByStatus replaces the per-status competition counts.
func UpdateCompetitionsByStatus(counts map[string]int) {
	CompetitionsByStatus.Reset()
	for status, n := range counts {
		CompetitionsByStatus.WithLabelValues(status).Set(float64(n))
	}
}

// UpdateLiveConnections sets the open websocket connection gauge.
func UpdateLiveConnections(n int) {
	LiveConnections.Set(float64(n))
}

// RecordHTTPRequest records API request latency.
func RecordHTTPRequest(method, route, code string, durationSeconds float64) {
	HTTPRequestDuration.WithLabelValues(method, route, code).Observe(durationSeconds)
}

// RecordStatusRefresh records the duration of a status refresh run.
func RecordStatusRefresh(durationSeconds float64) {
	StatusRefreshDuration.Observe(durationSeconds)
}
