package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics are registered per Service so several services can coexist in one
// process, as in tests.
type metrics struct {
	registry *prometheus.Registry

	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	projections        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	catalogReloads     prometheus.Counter
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &metrics{
		registry: reg,
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartflow_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smartflow_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"route"},
		),
		projections: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartflow_projections_total",
				Help: "Projections computed by plan",
			},
			[]string{"plan"},
		),
		validationFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartflow_validation_failures_total",
				Help: "Rejected profiles by error code",
			},
			[]string{"code"},
		),
		catalogReloads: f.NewCounter(prometheus.CounterOpts{
			Name: "smartflow_catalog_reloads_total",
			Help: "Catalog replacements since start",
		}),
	}
}

func (m *metrics) observeRequest(method, route string, status int, seconds float64) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(seconds)
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
