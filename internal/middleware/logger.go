package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/s3-uploads-api/internal/logger"
)

// RequestLogger logs every request and stores log in the request context.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(log.WithContext(c.Request.Context()))

		c.Next()

		log.Request(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}
