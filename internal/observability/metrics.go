package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	httpErrors       *prometheus.CounterVec
	logins           *prometheus.CounterVec
	passwordChanges  *prometheus.CounterVec
	loginLogFailures prometheus.Counter
}

// NewMetrics initializes and registers collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "HTTP requests that ended in a domain error, by code.",
		}, []string{"method", "path", "code"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		passwordChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_password_changes_total",
			Help: "Password change attempts by outcome.",
		}, []string{"outcome"}),
		loginLogFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_login_log_append_failures_total",
			Help: "Successful logins whose audit entry could not be stored.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.httpErrors,
		m.logins,
		m.passwordChanges,
		m.loginLogFailures,
	)
	return m
}

// RecordRequest observes a finished request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, path, code).Inc()
	m.httpDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.httpErrors.WithLabelValues(method, path, code).Inc()
}

// RecordLogin counts a login outcome (success or an error code).
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

// RecordPasswordChange counts a password change outcome.
func (m *Metrics) RecordPasswordChange(outcome string) {
	if m == nil {
		return
	}
	m.passwordChanges.WithLabelValues(outcome).Inc()
}

// RecordLoginLogFailure counts an audit entry that was dropped.
func (m *Metrics) RecordLoginLogFailure() {
	if m == nil {
		return
	}
	m.loginLogFailures.Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
