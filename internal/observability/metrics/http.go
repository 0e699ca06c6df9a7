package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics exposes Prometheus request instruments for the API.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the request instruments on the default registry.
func NewHTTPMetrics() *HTTPMetrics {
	return NewHTTPMetricsWith(prometheus.DefaultRegisterer)
}

// NewHTTPMetricsWith registers the request instruments on reg.
func NewHTTPMetricsWith(reg prometheus.Registerer) *HTTPMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mentorhub_http_requests_total",
		Help: "Counts API requests by method, route, status and tenant.",
	}, []string{"method", "route", "status", "tenant"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mentorhub_http_request_duration_seconds",
		Help:    "API request latency per method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	reg.MustRegister(requests, duration)

	return &HTTPMetrics{requests: requests, duration: duration}
}

// ObserveRequest records an API request and its latency.
func (m *HTTPMetrics) ObserveRequest(method, route string, status int, tenant string, elapsed time.Duration) {
	if m == nil {
		return
	}
	methodLabel := sanitizeLabel(method)
	routeLabel := sanitizeLabel(route)
	m.requests.WithLabelValues(methodLabel, routeLabel, strconv.Itoa(status), sanitizeTenant(tenant)).Inc()
	m.duration.WithLabelValues(methodLabel, routeLabel).Observe(elapsed.Seconds())
}

// GinMiddleware observes every request after the handler chain returns.
// tenantOf extracts the tenant label from the request; it may be nil.
func (m *HTTPMetrics) GinMiddleware(tenantOf func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		tenant := ""
		if tenantOf != nil {
			tenant = tenantOf(c)
		}
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), tenant, time.Since(start))
	}
}

func sanitizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}

func sanitizeTenant(tenant string) string {
	tenant = strings.TrimSpace(tenant)
	if tenant == "" {
		return "anonymous"
	}
	return tenant
}
