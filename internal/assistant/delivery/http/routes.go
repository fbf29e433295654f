package http

import (
	"intent-router/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
// Ask is rate limited per client; admin routes need the admin token.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	rg.POST("/ask", mw.RateLimit(), h.Ask)
	rg.GET("/routes", h.Routes)

	admin := rg.Group("/admin", mw.AdminAuth())
	{
		admin.POST("/sync", h.Sync)
	}
}
