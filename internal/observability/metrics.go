// Package observability wires the Prometheus registry, HTTP metrics
// middleware and the impersonation counters.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the application.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	impersonationStarted prometheus.Counter
	impersonationStopped prometheus.Counter
	impersonationDenied  prometheus.Counter
}

// NewMetrics initialises the registry and base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chancery_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chancery_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	started := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chancery_impersonation_started_total",
		Help: "Impersonation sessions started.",
	})
	stopped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chancery_impersonation_stopped_total",
		Help: "Impersonation sessions ended.",
	})
	denied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chancery_impersonation_denied_total",
		Help: "Impersonation attempts rejected by the authorizer.",
	})
	registry.MustRegister(requests, duration, started, stopped, denied)
	return &Metrics{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:        requests,
		requestDuration:      duration,
		impersonationStarted: started,
		impersonationStopped: stopped,
		impersonationDenied:  denied,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ImpersonationStarted counts a successful impersonation start.
func (m *Metrics) ImpersonationStarted() {
	if m != nil {
		m.impersonationStarted.Inc()
	}
}

// ImpersonationStopped counts a return to the original identity.
func (m *Metrics) ImpersonationStopped() {
	if m != nil {
		m.impersonationStopped.Inc()
	}
}

// ImpersonationDenied counts a rejected impersonation attempt.
func (m *Metrics) ImpersonationDenied() {
	if m != nil {
		m.impersonationDenied.Inc()
	}
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
