package httpserver

import (
	"context"

	assistantHTTP "intent-router/internal/assistant/delivery/http"
	"intent-router/internal/middleware"

	"github.com/gin-gonic/gin"
)

// setupAssistantDomain registers /api/v1/ask, /api/v1/routes and
// /api/v1/admin/sync.
func (srv HTTPServer) setupAssistantDomain(ctx context.Context, api *gin.RouterGroup, mw middleware.Middleware) error {
	h := assistantHTTP.New(srv.l, srv.assistantUC)
	assistantHTTP.RegisterRoutes(api, h, mw)

	srv.l.Infof(ctx, "Assistant domain registered")
	return nil
}
