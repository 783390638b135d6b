package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Watched update results
const (
	ResultUpdated  = "updated"
	ResultNotFound = "not_found"
)

// Metrics holds the Prometheus collectors on a private registry
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	watchedUpdates  *prometheus.CounterVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		watchedUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movieguide_watched_updates_total",
				Help: "Watched flag updates by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.watchedUpdates)
	return m
}

// ObserveWatchedUpdate counts a watched update. A nil receiver is a no-op so
// callers can run without metrics.
func (m *Metrics) ObserveWatchedUpdate(matched bool) {
	if m == nil {
		return
	}
	result := ResultUpdated
	if !matched {
		result = ResultNotFound
	}
	m.watchedUpdates.WithLabelValues(result).Inc()
}

// Middleware records request count and latency per route
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}

			m.requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			m.requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
