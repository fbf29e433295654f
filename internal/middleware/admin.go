package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"intent-router/pkg/response"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminAuth requires the configured token in the X-Admin-Token header.
func (mw Middleware) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if mw.adminToken == "" {
			c.Next()
			return
		}
		got := c.GetHeader(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(mw.adminToken)) != 1 {
			mw.l.Warnf(c.Request.Context(), "middleware.AdminAuth: rejected admin request from %s", c.ClientIP())
			response.Unauthorized(c)
			return
		}
		c.Next()
	}
}
