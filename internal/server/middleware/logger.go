package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger emits one structured line per request after the handler chain
// completes. The acting user header is included when present so ledger
// mutations can be traced back to a person.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}

		c.Next()

		l := logger
		if id := GetCorrelationID(c); id != "" {
			l = l.With("correlation_id", id)
		}
		if actor := c.GetHeader("X-User-ID"); actor != "" {
			l = l.With("user_id", actor)
		}

		l.Info("HTTP request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
