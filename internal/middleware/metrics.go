package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"spendlog/internal/metrics"
)

// Metrics records the duration of every request by method, matched route
// and status. Unmatched paths share one route label.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
