package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one entry per request. Errors attached with c.Error
// are logged at warn for client failures and at error for server failures.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if userID := c.GetString(ContextUserID); userID != "" {
			fields[ContextUserID] = userID
		}
		if roundID := c.Param("id"); roundID != "" {
			fields["round_id"] = roundID
		} else if roundID := c.Param("roundId"); roundID != "" {
			fields["round_id"] = roundID
		}

		entry := log.WithFields(fields)
		if len(c.Errors) == 0 {
			entry.Debug("request handled")
			return
		}

		entry = entry.WithField("errors", c.Errors.String())
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled with errors")
		}
	}
}
