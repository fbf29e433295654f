package router

import (
	"context"
	"sync"
	"sync/atomic"

	"intent-router/internal/encoder"
	"intent-router/internal/index"
	"intent-router/internal/model"
	"intent-router/internal/route"
	"intent-router/pkg/log"
)

// Router maps a query to a route decision.
type Router interface {
	Route(ctx context.Context, query string) (model.RouteDecision, error)
	// Index returns the index currently used by Route.
	Index() index.VectorIndex
	// Acquire pins the current index until release is called. A pinned
	// generation is not reported idle by SwapIndex.
	Acquire() (idx index.VectorIndex, release func())
	// SwapIndex installs idx for subsequent queries and returns the previous
	// one. idle is closed once no reader holds the previous index.
	SwapIndex(idx index.VectorIndex) (old index.VectorIndex, idle <-chan struct{})
}

// indexHolder is one index generation plus the readers pinning it.
type indexHolder struct {
	idx index.VectorIndex

	mu      sync.Mutex
	readers int
	retired bool
	idle    chan struct{}
}

func newHolder(idx index.VectorIndex) *indexHolder {
	return &indexHolder{idx: idx, idle: make(chan struct{})}
}

func (h *indexHolder) acquire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.retired {
		return false
	}
	h.readers++
	return true
}

func (h *indexHolder) release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readers--
	if h.retired && h.readers == 0 {
		close(h.idle)
	}
}

func (h *indexHolder) retire() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.retired {
		h.retired = true
		if h.readers == 0 {
			close(h.idle)
		}
	}
	return h.idle
}

// SemanticRouter scores queries by embedding similarity against the
// utterances of a registry.
type SemanticRouter struct {
	l   log.Logger
	reg *route.Registry
	enc encoder.Encoder
	cfg Config
	cur atomic.Pointer[indexHolder]
}

var _ Router = (*SemanticRouter)(nil)

// New creates a SemanticRouter. A TopK below 1 is replaced by DefaultTopK.
func New(l log.Logger, reg *route.Registry, enc encoder.Encoder, idx index.VectorIndex, cfg Config) *SemanticRouter {
	if cfg.TopK < 1 {
		cfg.TopK = DefaultTopK
	}
	r := &SemanticRouter{
		l:   l,
		reg: reg,
		enc: enc,
		cfg: cfg,
	}
	r.cur.Store(newHolder(idx))
	return r
}

func (r *SemanticRouter) Index() index.VectorIndex {
	return r.cur.Load().idx
}

func (r *SemanticRouter) Acquire() (index.VectorIndex, func()) {
	for {
		h := r.cur.Load()
		// A holder is retired only after it was swapped out, so the next
		// load sees its successor.
		if h.acquire() {
			var once sync.Once
			return h.idx, func() { once.Do(h.release) }
		}
	}
}

func (r *SemanticRouter) SwapIndex(idx index.VectorIndex) (index.VectorIndex, <-chan struct{}) {
	old := r.cur.Swap(newHolder(idx))
	return old.idx, old.retire()
}
