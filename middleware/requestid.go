package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDMiddleware ensures every request carries a stable X-Request-ID.
// A client-provided id is propagated, otherwise a new UUIDv4 is generated.
// The value is echoed in the response header and stored in the gin context
// under "requestId" for the access logger.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Set("requestId", reqID)
		c.Next()
	}
}
