// Package metrics provides the centralized Prometheus metrics registry for
// the tracker.
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
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tdv_tracker",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status",
	}, []string{"route", "status"})
	MutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tdv_tracker",
		Name:      "mutations_total",
		Help:      "Total number of successful record mutations by operation",
	}, []string{"operation"})
	AuthFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tdv_tracker",
		Name:      "auth_failures_total",
		Help:      "Total number of rejected credentials",
	})
	StorageErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tdv_tracker",
		Name:      "storage_errors_total",
		Help:      "Total number of storage failures by path (read or write)",
	}, []string{"path"})
)

// Gauge metrics
var (
	TotalKm = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tdv_tracker",
		Name:      "total_km",
		Help:      "Distance ridden so far in kilometers",
	})
	RemainingKm = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tdv_tracker",
		Name:      "remaining_km",
		Help:      "Distance still to ride toward the target in kilometers",
	})
	ProgressPercent = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tdv_tracker",
		Name:      "progress_percent",
		Help:      "Completion percentage of the distance target",
	})
	SortiesCompleted = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tdv_tracker",
		Name:      "sorties_completed",
		Help:      "Number of sorties with a recorded distance",
	})
	SortiesPlanned = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tdv_tracker",
		Name:      "sorties_planned",
		Help:      "Total number of scheduled sorties",
	})
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tdv_tracker",
		Name:      "websocket_clients",
		Help:      "Number of connected live-update clients",
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(MutationsTotal)
		registry.MustRegister(AuthFailuresTotal)
		registry.MustRegister(StorageErrorsTotal)

		registry.MustRegister(TotalKm)
		registry.MustRegister(RemainingKm)
		registry.MustRegister(ProgressPercent)
		registry.MustRegister(SortiesCompleted)
		registry.MustRegister(SortiesPlanned)
		registry.MustRegister(WebsocketClients)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordMutation records a successful record mutation.
func RecordMutation(operation string) {
	MutationsTotal.WithLabelValues(operation).Inc()
}

// RecordAuthFailure records a rejected credential.
func RecordAuthFailure() {
	AuthFailuresTotal.Inc()
}

// RecordStorageError records a storage failure on the given path.
func RecordStorageError(path string) {
	StorageErrorsTotal.WithLabelValues(path).Inc()
}
