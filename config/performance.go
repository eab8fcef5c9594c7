package config

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// SlowRequestThreshold marks requests worth a warning.
const SlowRequestThreshold = 200 * time.Millisecond

func PerformanceLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", latency,
		}
		slog.InfoContext(c.Request.Context(), "request", attrs...)

		if latency > SlowRequestThreshold {
			slog.WarnContext(c.Request.Context(), "slow request", attrs...)
		}
	}
}
