package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"

	RequestIDKey = "request_id"
	// ProviderKey is set by the chat handler once the request names a provider.
	ProviderKey = "provider"
)

// RequestID tags every request with an id, reusing the caller's X-Request-ID
// when it is a valid UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
