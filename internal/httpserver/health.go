package httpserver

import (
	"intent-router/pkg/response"

	"github.com/gin-gonic/gin"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "Intent router is up"
	HealthVersion = "1.0.0"
	ServiceName   = "intent-router"
)

func statusBody(status string) gin.H {
	return gin.H{
		"status":  status,
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	}
}

// healthCheck godoc
// @Summary Health Check
// @Tags    Health
// @Produce json
// @Success 200 {object} response.Resp
// @Router  /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, statusBody("healthy"))
}

// liveCheck godoc
// @Summary Liveness Check
// @Tags    Health
// @Produce json
// @Success 200 {object} response.Resp
// @Router  /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, statusBody("alive"))
}

// readyCheck reports ready once the routing index holds entries.
// @Summary Readiness Check
// @Tags    Health
// @Produce json
// @Success 200 {object} response.Resp
// @Failure 503 {object} response.Resp "Index not loaded"
// @Router  /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()
	out, err := srv.assistantUC.Routes(ctx)
	if err != nil {
		srv.l.Warnf(ctx, "httpserver.readyCheck: %v", err)
		response.ServiceUnavailable(c, "routing index unavailable")
		return
	}
	if out.IndexSize == 0 {
		response.ServiceUnavailable(c, "routing index is empty")
		return
	}

	body := statusBody("ready")
	body["routes"] = len(out.Routes)
	body["index_size"] = out.IndexSize
	response.OK(c, body)
}
