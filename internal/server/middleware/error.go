package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ruizTechServices/new-main-1/pkg/api"
	"go.uber.org/zap"
)

// ErrorHandler maps the last error pushed by a handler onto a status code and
// a {"error": ...} body. Responses that already started are left alone.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status := api.StatusCode(err)

		fields := []zap.Field{
			zap.String("path", c.Request.URL.Path),
			zap.String("provider", c.GetString(ProviderKey)),
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.Error(err),
		}
		if status >= 500 {
			logger.Error("Request failed", fields...)
		} else {
			logger.Debug("Request rejected", fields...)
		}

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(status, api.Body(err))
	}
}
