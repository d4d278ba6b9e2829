package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	errors            *prometheus.CounterVec
	authRejections    *prometheus.CounterVec
	revocationsPruned prometheus.Counter
	activitiesPruned  prometheus.Counter
}

// NewMetrics registers collectors, including Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Errors rendered by the HTTP error handler, by code.",
		}, []string{"route", "method", "code"}),
		authRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Rejected credentials by reason.",
		}, []string{"reason"}),
		revocationsPruned: factory.NewCounter(prometheus.CounterOpts{
			Name: "revocations_pruned_total",
			Help: "Revocation records deleted after their credential expired.",
		}),
		activitiesPruned: factory.NewCounter(prometheus.CounterOpts{
			Name: "activities_pruned_total",
			Help: "Activity feed entries deleted by retention.",
		}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordAuthRejection counts a rejected credential.
func (m *Metrics) RecordAuthRejection(reason string) {
	if m == nil {
		return
	}
	m.authRejections.WithLabelValues(reason).Inc()
}

// RecordRevocationsPruned adds n pruned revocation records.
func (m *Metrics) RecordRevocationsPruned(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.revocationsPruned.Add(float64(n))
}

// RecordActivitiesPruned adds n pruned activities.
func (m *Metrics) RecordActivitiesPruned(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.activitiesPruned.Add(float64(n))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
