// Package metrics owns the Prometheus collectors of the service. Collectors live
// on a private registry so tests can create as many recorders as they need.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login attempt results recorded by LoginAttempt.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// Recorder records database, HTTP and authentication metrics.
// It is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	dbQueries       *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	httpRequests        *prometheus.CounterVec
	httpErrors          *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	loginAttempts *prometheus.CounterVec
}

// NewRecorder creates a Recorder with all collectors registered on a fresh registry,
// together with the Go runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		dbQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Number of catalog queries executed, by operation.",
		}, []string{"operation"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of catalog queries, by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests served.",
		}, []string{"method", "route", "status"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_errors_total",
			Help: "Number of HTTP requests answered with a 4xx or 5xx status.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "user_login_attempts_total",
			Help: "Number of login attempts, by result.",
		}, []string{"result"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.dbQueries,
		r.dbQueryDuration,
		r.httpRequests,
		r.httpErrors,
		r.httpRequestDuration,
		r.loginAttempts,
	)

	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveQuery counts one execution of the named query and records its duration.
func (r *Recorder) ObserveQuery(operation string, elapsed time.Duration) {
	r.dbQueries.WithLabelValues(operation).Inc()
	r.dbQueryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveRequest records one served HTTP request. Statuses of 400 and above
// are also counted as errors.
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	r.httpRequests.WithLabelValues(method, route, code).Inc()
	if status >= http.StatusBadRequest {
		r.httpErrors.WithLabelValues(method, route, code).Inc()
	}
	r.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// LoginAttempt counts one authentication attempt.
func (r *Recorder) LoginAttempt(success bool) {
	result := LoginFailure
	if success {
		result = LoginSuccess
	}
	r.loginAttempts.WithLabelValues(result).Inc()
}

// NopRecorder discards every observation.
type NopRecorder struct{}

// ObserveQuery does nothing.
func (NopRecorder) ObserveQuery(string, time.Duration) {}

// ObserveRequest does nothing.
func (NopRecorder) ObserveRequest(string, string, int, time.Duration) {}

// LoginAttempt does nothing.
func (NopRecorder) LoginAttempt(bool) {}
