package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillport/institute-api/internal/service"
)

// Metrics records method, route, status and latency for every request.
// The route template (c.FullPath) is used so path parameters do not
// explode label cardinality; unmatched routes fall back to the raw
// path.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
