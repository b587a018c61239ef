// Package metrics defines and registers the portal's Prometheus metrics. It
// is the single source of truth for metric names, labels, and help strings.
//
// Metrics register with the default registry on package init; /metrics
// serves them through promhttp.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portal"

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts calls to the marketplace API.
// Labels:
//   - endpoint: logical endpoint name (e.g. "messages.send")
//   - outcome: "ok", "canceled", or the error kind ("unreachable", "validation", ...)
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of marketplace API calls, by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// BackendRequestDuration measures marketplace API latency.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of marketplace API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ObserveBackend matches backend.Observer.
func ObserveBackend(endpoint, outcome string, elapsed time.Duration) {
	BackendRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	BackendRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts successful logins and registrations.
// Label:
//   - role: "client", "prestataire", or "fournisseur"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins and registrations, by role.",
	},
	[]string{"role"},
)

// MessagesSentTotal counts messages delivered through the portal.
var MessagesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of messages sent through the portal.",
	},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts portal page requests.
// Labels:
//   - route: the matched echo route (e.g. "/users/:id")
//   - method: HTTP method
//   - code: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served, by route, method and status.",
	},
	[]string{"route", "method", "code"},
)

// HTTPRequestDuration measures page rendering time, backend calls included.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests served by the portal.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

// Middleware records HTTPRequestsTotal and HTTPRequestDuration. A handler
// error is passed to the echo error handler here, so the recorded code is
// the status actually written.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			HTTPRequestsTotal.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()
			HTTPRequestDuration.WithLabelValues(route, c.Request().Method).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// Handler serves the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
