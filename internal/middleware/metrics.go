package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"quote-pipeline-api/internal/metrics"
)

// unmetered excludes probe and scrape endpoints, including base-path
// variants, so they do not drown the request series.
func unmetered(path string) bool {
	return strings.HasSuffix(path, "/health") || strings.HasSuffix(path, "/metrics")
}

// Metrics returns a middleware that records request count and latency
// per route pattern.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if unmetered(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		// Route pattern, not the raw path; unmatched requests share
		// one label so 404 scans cannot explode cardinality
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
