package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"steeldex/internal/infrastructure/monitoring/logging"
)

// LoggingConfig tunes the request log middleware.
type LoggingConfig struct {
	// SkipPaths are high-frequency paths excluded from the log.
	SkipPaths []string

	// SlowThreshold promotes a request to Warn level.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig skips the probe endpoints and flags requests slower
// than three seconds.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/metrics"},
		SlowThreshold: 3 * time.Second,
	}
}

// RequestLogging logs one line per request with method, route, status,
// duration, and request ID.  5xx log at Error, 4xx and slow requests at
// Warn.
func RequestLogging(logger logging.Logger, cfg LoggingConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("duration", duration),
			logging.String("request_id", GetRequestID(c)),
		}

		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("request rejected", fields...)
		case cfg.SlowThreshold > 0 && duration > cfg.SlowThreshold:
			logger.Warn("slow request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
