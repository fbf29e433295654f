package http

import (
	"github.com/gin-gonic/gin"

	"intent-router/pkg/response"
)

// Ask godoc
// @Summary     Ask a question
// @Description Routes the query to the closest route and returns its handler's answer.
// @Tags        Assistant
// @Accept      json
// @Produce     json
// @Param       body body askReq true "Query"
// @Success     200  {object} askResp
// @Failure     400  {object} response.Resp "Bad Request"
// @Failure     502  {object} response.Resp "Route handler failed"
// @Failure     503  {object} response.Resp "Encoder unavailable"
// @Router      /api/v1/ask [POST]
func (h *handler) Ask(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processAskReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.Ask(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Ask: %v", err)
		h.mapError(c, err)
		return
	}

	response.OK(c, h.newAskResp(output))
}

// Routes godoc
// @Summary     List routes
// @Description Lists declared routes with their effective thresholds and handler wiring.
// @Tags        Assistant
// @Produce     json
// @Success     200 {object} routesResp
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/routes [GET]
func (h *handler) Routes(c *gin.Context) {
	ctx := c.Request.Context()

	output, err := h.uc.Routes(ctx)
	if err != nil {
		h.l.Errorf(ctx, "uc.Routes: %v", err)
		h.mapError(c, err)
		return
	}

	response.OK(c, h.newRoutesResp(output))
}

// Sync godoc
// @Summary     Resync the routing index
// @Description Rebuilds the index from the declared routes and swaps it in.
// @Tags        Admin
// @Produce     json
// @Param       mode query string false "full or incremental"
// @Param       X-Admin-Token header string false "Admin token"
// @Success     200 {object} syncResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     409 {object} response.Resp "Sync already running"
// @Failure     503 {object} response.Resp "Encoder unavailable"
// @Router      /api/v1/admin/sync [POST]
func (h *handler) Sync(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processSyncReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.Sync(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Sync: %v", err)
		h.mapError(c, err)
		return
	}

	response.OK(c, h.newSyncResp(output))
}
