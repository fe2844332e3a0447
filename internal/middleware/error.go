package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/doktor-na-dohled/booking-api/pkg/errors"
	"github.com/doktor-na-dohled/booking-api/pkg/httputil"
)

// ErrorHandler logs every error attached to the context and writes the
// response for errors no handler responded to. Handlers that already
// rendered an error envelope only get the logging.
func ErrorHandler(l interface {
	Error(err error, msg string, fields ...interface{})
}) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			l.Error(e.Err, "request error",
				"request_id", requestID,
				"path", c.Request.URL.Path,
				"method", c.Request.Method)
		}

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last().Err
		if appErr, ok := apperrors.AsAppError(lastErr); ok {
			httputil.RespondWithError(c, appErr)
			return
		}
		httputil.RespondWithError(c, apperrors.Internal("Interní chyba serveru", lastErr))
	}
}
