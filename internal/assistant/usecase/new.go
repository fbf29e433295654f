package usecase

import (
	"context"
	"sync"

	"intent-router/internal/dispatch"
	"intent-router/internal/encoder"
	"intent-router/internal/index"
	"intent-router/internal/model"
	"intent-router/internal/route"
	"intent-router/internal/router"
	"intent-router/internal/snapshot"
	"intent-router/pkg/log"
)

// Dispatcher is the part of dispatch.Dispatcher the use case needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, decision model.RouteDecision) (dispatch.Result, error)
	Has(route string) bool
	DefaultRoute() string
}

// Config holds the routing defaults shared with the router.
type Config struct {
	DefaultThreshold float64
	SyncMode         route.SyncMode
}

// implUseCase is the private implementation of assistant.UseCase.
type implUseCase struct {
	l       log.Logger
	reg     *route.Registry
	enc     encoder.Encoder
	router  router.Router
	disp    Dispatcher
	factory index.Factory
	snap    snapshot.Store // nil disables snapshots
	cfg     Config

	syncMu sync.Mutex
}

// New creates a new assistant UseCase implementation.
func New(
	l log.Logger,
	reg *route.Registry,
	enc encoder.Encoder,
	rt router.Router,
	disp Dispatcher,
	factory index.Factory,
	snap snapshot.Store,
	cfg Config,
) *implUseCase {
	if cfg.SyncMode == "" {
		cfg.SyncMode = route.SyncIncremental
	}
	return &implUseCase{
		l:       l,
		reg:     reg,
		enc:     enc,
		router:  rt,
		disp:    disp,
		factory: factory,
		snap:    snap,
		cfg:     cfg,
	}
}
