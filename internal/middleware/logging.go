package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Logging writes one line per request through the service logger.
// Server errors log at error level, client errors at warn.
func (mw Middleware) Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		format := "%s %s %d %s %s"
		args := []any{c.Request.Method, path, status, time.Since(start).Round(time.Microsecond), c.ClientIP()}
		switch {
		case status >= 500:
			mw.l.Errorf(ctx, format, args...)
		case status >= 400:
			mw.l.Warnf(ctx, format, args...)
		default:
			mw.l.Infof(ctx, format, args...)
		}
	}
}
