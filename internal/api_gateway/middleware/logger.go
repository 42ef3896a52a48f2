package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger emits one structured access log line per request after the handler
// chain completes. The correlation ID is attached when present so gateway
// logs can be joined with processor logs for the same transfer.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		fullPath := c.Request.URL.Path
		if query := c.Request.URL.RawQuery; query != "" {
			fullPath += "?" + query
		}

		c.Next()

		requestLogger := logger
		if correlationID := GetCorrelationID(c); correlationID != "" {
			requestLogger = logger.With("correlation_id", correlationID)
		}

		requestLogger.Info("HTTP request",
			"method", c.Request.Method,
			"path", fullPath,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)
	}
}
