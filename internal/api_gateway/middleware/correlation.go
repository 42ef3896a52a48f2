package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationIDHeader carries the request correlation ID. Mobile clients
	// send one per session action; we mint one if it is missing so every
	// transfer can be traced from submission through the processor.
	CorrelationIDHeader = "X-Correlation-ID"

	// CorrelationIDKey is the gin context key holding the correlation ID
	CorrelationIDKey = "correlation_id"
)

// CorrelationID tags every request with a correlation ID and echoes it back
// in the response headers.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(CorrelationIDHeader, id)
		c.Set(CorrelationIDKey, id)
		c.Next()
	}
}

// GetCorrelationID returns the request's correlation ID, or "" when the
// middleware did not run.
func GetCorrelationID(c *gin.Context) string {
	id, exists := c.Get(CorrelationIDKey)
	if !exists {
		return ""
	}
	s, ok := id.(string)
	if !ok {
		return ""
	}
	return s
}
