package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request; 4xx at warn, 5xx at error.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		request := slog.Group("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", status,
			"duration_ms", float64(time.Since(start).Nanoseconds())/float64(time.Millisecond),
		)
		user := slog.Group("user", "ip", c.ClientIP(), "agent", c.Request.UserAgent())

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.ErrorContext(ctx, "Request", user, request)
		case status >= 400:
			logger.WarnContext(ctx, "Request", user, request)
		default:
			logger.InfoContext(ctx, "Request", user, request)
		}
	}
}
