package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/doktor-na-dohled/booking-api/pkg/logger"
)

// Logger logs every request with latency and outcome. Request bodies are
// never logged; they carry health data.
func Logger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		if raw != "" {
			path = path + "?" + raw
		}

		event := l.ZL.Info()
		switch {
		case status >= 500:
			event = l.ZL.Error()
		case status >= 400:
			event = l.ZL.Warn()
		}

		event.
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("request processed")
	}
}
