package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"partybus/internal/observability"
)

// MetricsMiddleware returns middleware that records request counts and
// latency per route. The route template is used as the label, not the raw
// path, to keep cardinality bounded.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		observability.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		observability.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
