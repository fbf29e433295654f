package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"intent-router/internal/assistant"
	"intent-router/internal/dispatch"
	"intent-router/internal/encoder"
	"intent-router/internal/route"
	"intent-router/internal/router"
	"intent-router/pkg/response"
)

const (
	msgEncoderUnavailable = "The assistant is temporarily unavailable, please try again"
	msgHandlerFailed      = "The service for this question failed to answer"
)

// mapError translates use-case errors into HTTP responses. Backend details
// are logged by the caller and never sent to the client.
func (h *handler) mapError(c *gin.Context, err error) {
	var encErr *encoder.Error
	switch {
	case errors.Is(err, router.ErrInvalidQuery), errors.Is(err, route.ErrInvalidSyncMode):
		response.Error(c, err, nil)
	case errors.As(err, &encErr):
		if encErr.Kind == encoder.KindInvalidInput {
			response.Error(c, encErr.Err, nil)
			return
		}
		response.ServiceUnavailable(c, msgEncoderUnavailable)
	case errors.Is(err, dispatch.ErrHandlerFailed):
		response.BadGateway(c, msgHandlerFailed)
	case errors.Is(err, assistant.ErrSyncInProgress):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
