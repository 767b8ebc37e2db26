package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics exposes request-level prometheus instruments.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inflight        prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP instruments on the default registry.
func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "svs_http_requests_total",
			Help: "Total HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "svs_http_request_duration_seconds",
			Help:    "HTTP request duration by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		inflight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "svs_http_requests_inflight",
			Help: "In-flight HTTP requests.",
		}),
	}
}

// GinMiddleware records request counts and latencies per route.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		m.inflight.Inc()
		c.Next()
		m.inflight.Dec()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.requestsTotal.WithLabelValues(route, method, status).Inc()
		m.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
