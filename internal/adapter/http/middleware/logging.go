package middleware

import (
	"time"

	"taskflow/pkg/config"
	ct "taskflow/pkg/context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func LoggingMiddleware(logger *config.LokiLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", ClientIP(c)),
			zap.String("request_id", ct.RequestID(c.Request.Context())),
		}

		if userID := UserID(c); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.ErrorWithTrace(c.Request.Context(), "HTTP Request", fields...)
		case status >= 400:
			logger.WarnWithTrace(c.Request.Context(), "HTTP Request", fields...)
		default:
			logger.InfoWithTrace(c.Request.Context(), "HTTP Request", fields...)
		}
	}
}
