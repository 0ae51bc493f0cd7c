package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
)

// RequestLog emits one structured line per request.
func RequestLog(baseLog *logger.Logger) gin.HandlerFunc {
	log := baseLog.With("middleware", "request_log")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
