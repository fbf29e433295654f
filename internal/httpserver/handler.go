package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"intent-router/internal/middleware"
	"intent-router/internal/model"
)

func (srv HTTPServer) mapHandlers() error {
	ctx := context.Background()
	mw := middleware.New(srv.l, srv.requestsPerMin, srv.adminToken)

	srv.gin.Use(gin.Recovery(), mw.Logging())
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "HTTP server mode: production")
	} else {
		srv.l.Infof(ctx, "HTTP server mode: %s", srv.environment)
	}

	srv.registerSystemRoutes()

	api := srv.gin.Group("/api/v1")
	if err := srv.setupAssistantDomain(ctx, api, mw); err != nil {
		return err
	}
	if srv.adminToken == "" {
		srv.l.Warnf(ctx, "Admin token not configured, /api/v1/admin routes are open")
	}
	return nil
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	// The UI reads doc.json generated by swag init from the handler annotations.
	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}
