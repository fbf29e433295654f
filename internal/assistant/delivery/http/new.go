package http

import (
	"github.com/gin-gonic/gin"

	"intent-router/internal/assistant"
	"intent-router/pkg/log"
)

// Handler is the public interface for the assistant HTTP delivery layer.
type Handler interface {
	Ask(c *gin.Context)
	Routes(c *gin.Context)
	Sync(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc assistant.UseCase
}

// New creates a new HTTP handler for the assistant domain.
func New(l log.Logger, uc assistant.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
