package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	correlationHeader = "X-Correlation-ID"
	correlationKey    = "correlation_id"
)

// CorrelationID tags every request with an identifier, honoring one supplied
// by the caller and minting a fresh one otherwise. The identifier is echoed
// back in the response headers and exposed to handlers via the gin context.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(correlationHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Header(correlationHeader, id)
		c.Set(correlationKey, id)

		c.Next()
	}
}

// GetCorrelationID returns the request's correlation identifier, or "" when
// the middleware did not run.
func GetCorrelationID(c *gin.Context) string {
	id, ok := c.Get(correlationKey)
	if !ok {
		return ""
	}
	s, _ := id.(string)
	return s
}
