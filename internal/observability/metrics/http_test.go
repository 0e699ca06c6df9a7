package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetricsMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewHTTPMetricsWith(reg)

	r := gin.New()
	r.Use(m.GinMiddleware(func(c *gin.Context) string { return c.GetHeader("X-Org-ID") }))
	r.GET("/api/mentorados/:id/alerts", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/mentorados/42/alerts", nil)
	req.Header.Set("X-Org-ID", "7")
	r.ServeHTTP(httptest.NewRecorder(), req)

	count := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/mentorados/:id/alerts", "200", "7"))
	assert.Equal(t, float64(1), count)
}

func TestSanitizeTenantDefaultsToAnonymous(t *testing.T) {
	assert.Equal(t, "anonymous", sanitizeTenant("  "))
	assert.Equal(t, "unknown", sanitizeLabel(""))
}
