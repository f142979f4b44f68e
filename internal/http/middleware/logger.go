package middleware

import (
	"time"

	"busbackend/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger writes one structured line per request including request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Float64("latency_ms", float64(latency.Microseconds())/1000.0),
			zap.String("ip", c.ClientIP()),
		}
		if p, ok := CurrentPrincipal(c); ok {
			fields = append(fields, zap.Int64("user_id", int64(p.UserID)))
		}

		l := utils.Logger()
		switch status := c.Writer.Status(); {
		case status >= 500:
			l.Error("[HTTP]", fields...)
		case status >= 400:
			l.Warn("[HTTP]", fields...)
		default:
			l.Info("[HTTP]", fields...)
		}
	}
}
