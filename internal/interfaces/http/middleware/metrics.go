package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	prom "steeldex/internal/infrastructure/monitoring/prometheus"
)

// Metrics records per-request counters and latency.  The route template
// (":id" rather than the concrete value) keeps label cardinality bounded.
func Metrics(m *prom.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
