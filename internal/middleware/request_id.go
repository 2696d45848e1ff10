package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/join-board/join-api/internal/constants"
	"github.com/sirupsen/logrus"
)

const contextKeyLogger = "logger"

// RequestLogger tags each request with an X-Request-ID (reusing the
// caller's when present) and writes one access log line per request.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderRequestID, requestID)

		entry := log.WithField("request_id", requestID)
		c.Set(contextKeyLogger, entry)

		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}
		if userID, ok := GetUserID(c); ok {
			fields["user_id"] = userID
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.WithFields(fields).Error("request completed")
		case status >= 400:
			entry.WithFields(fields).Warn("request completed")
		default:
			entry.WithFields(fields).Info("request completed")
		}
	}
}

// Logger returns the request-scoped log entry, or the standard logger when
// RequestLogger is not installed.
func Logger(c *gin.Context) logrus.FieldLogger {
	if value, exists := c.Get(contextKeyLogger); exists {
		if entry, ok := value.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.StandardLogger()
}
