// Package middleware - structured_logger.go
//
// StructuredLogger emits one zerolog event per completed HTTP request, with
// the request ID, route, status, latency and (if authenticated) user id so
// request logs correlate with the Database/Sandbox/Analysis component logs
// emitted further down the call chain.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/streamspace-dev/codesandbox/internal/logger"
)

// StructuredLoggerConfig controls what StructuredLoggerWithConfig logs.
type StructuredLoggerConfig struct {
	// SkipPaths lists request paths that should not be logged (e.g. health checks).
	SkipPaths []string

	// LogQuery, if true, includes the raw query string.
	LogQuery bool
}

// DefaultStructuredLoggerConfig skips the health endpoint and logs queries.
func DefaultStructuredLoggerConfig() StructuredLoggerConfig {
	return StructuredLoggerConfig{
		SkipPaths: []string{"/healthz"},
		LogQuery:  true,
	}
}

// StructuredLogger logs every request using the default configuration.
func StructuredLogger() gin.HandlerFunc {
	return StructuredLoggerWithConfig(DefaultStructuredLoggerConfig())
}

// StructuredLoggerWithConfig logs each request that is not in config.SkipPaths.
func StructuredLoggerWithConfig(config StructuredLoggerConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}
	log := logger.HTTP()

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip[path] {
			c.Next()
			return
		}

		start := time.Now()
		raw := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		evt := log.Info()
		if status >= 500 {
			evt = log.Error()
		} else if status >= 400 {
			evt = log.Warn()
		}

		evt = evt.
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP())

		if config.LogQuery && raw != "" {
			evt = evt.Str("query", raw)
		}
		if userID, exists := c.Get("user_id"); exists {
			evt = evt.Interface("user_id", userID)
		}
		if len(c.Errors) > 0 {
			evt = evt.Str("errors", c.Errors.String())
		}

		evt.Msg("request")
	}
}
