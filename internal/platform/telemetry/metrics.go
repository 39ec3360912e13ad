// Package telemetry exposes Prometheus metrics for the HTTP layer and the
// occupancy domain.
package telemetry

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	admissionsTotal *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hms_http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hms_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		admissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hms_admission_events_total",
			Help: "Admission lifecycle events by type.",
		}, []string{"event"}),
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.admissionsTotal)
	return m
}

// Middleware records request counts and latency. Route is the echo route
// pattern, not the raw path, to keep cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			m.requestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			m.requestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// CountAdmissionEvent increments the lifecycle event counter. Event is one of
// admitted, transferred, discharged.
func (m *Metrics) CountAdmissionEvent(event string) {
	m.admissionsTotal.WithLabelValues(event).Inc()
}

// Handler serves the scrape endpoint from the private registry.
func (m *Metrics) Handler() echo.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}

// RegisterOccupancy installs a collector that reads ward occupancy on scrape.
func (m *Metrics) RegisterOccupancy(source OccupancySource) {
	m.registry.MustRegister(newOccupancyCollector(source))
}
