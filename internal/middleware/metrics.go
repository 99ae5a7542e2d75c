package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/deppfellow/eventhub/internal/config"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsMiddleware records Prometheus HTTP metrics on its own registry,
// so several instances (tests) never collide on the global one.
type MetricsMiddleware struct {
	serviceName string
	registry    *prometheus.Registry

	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	statusCategory  *prometheus.CounterVec
	inFlightRequest prometheus.Gauge
}

func NewMetricsMiddleware(serviceName string) *MetricsMiddleware {
	m := &MetricsMiddleware{
		serviceName: serviceName,
		registry:    prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		statusCategory: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category", "method", "path"},
		),
		inFlightRequest: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests being served",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.statusCategory,
		m.inFlightRequest,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// NewDefaultMetricsMiddleware uses the fixed service name.
func NewDefaultMetricsMiddleware() *MetricsMiddleware {
	return NewMetricsMiddleware(config.ServiceName)
}

// Middleware records count, latency and status category of every request.
func (m *MetricsMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			m.inFlightRequest.Inc()
			defer m.inFlightRequest.Dec()

			err := next(c)

			status := statusFromError(err, c.Response().Status)
			method := c.Request().Method
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			statusStr := strconv.Itoa(status)

			m.requests.WithLabelValues(m.serviceName, method, path, statusStr).Inc()
			m.duration.WithLabelValues(m.serviceName, method, path, statusStr).Observe(time.Since(start).Seconds())

			if category := statusCategory(status); category != "" {
				m.statusCategory.WithLabelValues(m.serviceName, category, method, path).Inc()
			}

			return err
		}
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *MetricsMiddleware) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *MetricsMiddleware) Registry() *prometheus.Registry {
	return m.registry
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}
