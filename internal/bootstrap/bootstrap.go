// Package bootstrap wires configuration into a ready-to-serve assistant.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nats-io/nats.go"

	"intent-router/config"
	"intent-router/internal/assistant"
	"intent-router/internal/assistant/usecase"
	"intent-router/internal/chain"
	"intent-router/internal/dispatch"
	"intent-router/internal/encoder"
	"intent-router/internal/index"
	"intent-router/internal/index/memory"
	qdrantIndex "intent-router/internal/index/qdrant"
	"intent-router/internal/model"
	"intent-router/internal/route"
	"intent-router/internal/router"
	"intent-router/internal/snapshot"
	"intent-router/pkg/log"
	"intent-router/pkg/natsutil"
	"intent-router/pkg/ollama"
	"intent-router/pkg/qdrant"
	"intent-router/pkg/voyage"
)

const closeTimeout = 10 * time.Second

// App is the assembled assistant.
type App struct {
	UseCase assistant.UseCase
	Router  router.Router
	Encoder encoder.Encoder

	l       log.Logger
	closers []func() error
}

// Build assembles every component described by cfg. The router starts with
// an empty index; call Warmup before serving.
func Build(ctx context.Context, cfg *config.Config, l log.Logger) (*App, error) {
	app := &App{l: l}

	enc, err := NewEncoder(cfg.Encoder, cfg.Voyage, cfg.Ollama)
	if err != nil {
		return nil, err
	}
	app.Encoder = enc
	l.Infof(ctx, "Encoder: %s", encoder.Fingerprint(enc))

	reg, err := route.New(toRoutes(cfg.Routes))
	if err != nil {
		return nil, fmt.Errorf("routes: %w", err)
	}

	factory := newIndexFactory(cfg.Index, enc.Dimension(), l)

	var store snapshot.Store
	if cfg.Snapshot.Enabled {
		s, err := openSnapshot(ctx, cfg.Snapshot.Path, l)
		if err != nil {
			return nil, err
		}
		store = s
		app.closers = append(app.closers, s.Close)
	}

	var requester natsutil.Requester
	if needsNATS(cfg.Chains) {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name("intent-router"))
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("nats connect %s: %w", cfg.NATS.URL, err)
		}
		requester = nc
		app.closers = append(app.closers, func() error { nc.Close(); return nil })
		l.Infof(ctx, "NATS connected: %s", cfg.NATS.URL)
	}

	handlers, err := chain.Build(toSpecs(cfg.Chains), requester, l)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("chains: %w", err)
	}

	var opts []dispatch.Option
	if cfg.Router.DefaultRoute != "" {
		opts = append(opts, dispatch.WithDefaultRoute(cfg.Router.DefaultRoute))
	}
	if cfg.Router.UnresolvedMessage != "" {
		opts = append(opts, dispatch.WithUnresolvedMessage(cfg.Router.UnresolvedMessage))
	}
	disp := dispatch.New(l, handlers, opts...)

	app.Router = router.New(l, reg, enc, memory.New(enc.Dimension()), router.Config{
		TopK:             cfg.Router.TopK,
		DefaultThreshold: cfg.Router.DefaultThreshold,
	})

	app.UseCase = usecase.New(l, reg, enc, app.Router, disp, factory, store, usecase.Config{
		DefaultThreshold: cfg.Router.DefaultThreshold,
		SyncMode:         route.SyncMode(cfg.Router.SyncMode),
	})
	return app, nil
}

// Warmup runs the startup sync with the configured mode. Serving without a
// synced index is not allowed, so callers treat an error as fatal.
func (a *App) Warmup(ctx context.Context) error {
	out, err := a.UseCase.Sync(ctx, assistant.SyncInput{})
	if err != nil {
		return fmt.Errorf("startup sync: %w", err)
	}
	a.l.Infof(ctx, "Routes synced: %d entries (%d encoded, %d reused)", out.Result.Total, out.Result.Encoded, out.Result.Reused)
	return nil
}

// Close retires the served index generation, then releases connections in
// reverse order of creation.
func (a *App) Close() error {
	var errs []error
	if a.Router != nil {
		if d, ok := a.Router.Index().(index.Dropper); ok {
			ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			if err := d.Drop(ctx); err != nil {
				errs = append(errs, fmt.Errorf("drop index: %w", err))
			}
			cancel()
		}
		a.Router = nil
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewEncoder builds the configured backend and wraps it as
// Validating -> Cached -> RateLimited -> Timeout -> backend.
func NewEncoder(ec config.EncoderConfig, vc config.VoyageConfig, oc config.OllamaConfig) (encoder.Encoder, error) {
	var enc encoder.Encoder
	switch ec.Provider {
	case "hash":
		enc = encoder.NewHash(ec.Dimension)
	case "voyage":
		client, err := voyage.New(vc.APIKey)
		if err != nil {
			return nil, err
		}
		client.WithModel(vc.Model).WithBaseURL(vc.BaseURL).WithOutputDimension(ec.Dimension)
		enc = encoder.NewVoyage(client, ec.Dimension)
	case "ollama":
		enc = encoder.NewOllama(ollama.NewClient(oc.URL, oc.Model), ec.Dimension)
	default:
		return nil, fmt.Errorf("unknown encoder provider %q", ec.Provider)
	}

	if ec.Timeout > 0 {
		enc = encoder.NewTimeout(enc, ec.Timeout)
	}
	if ec.RatePerSec > 0 {
		enc = encoder.NewRateLimited(enc, ec.RatePerSec, ec.Burst)
	}
	if ec.CacheSize > 0 {
		cached, err := encoder.NewCached(enc, ec.CacheSize)
		if err != nil {
			return nil, err
		}
		enc = cached
	}
	return encoder.NewValidating(enc, ec.MaxInputChars), nil
}

// TODO: drop generation collections left behind by a process that exited
// without Close.
func newIndexFactory(ic config.IndexConfig, dim int, l log.Logger) index.Factory {
	if ic.Backend != "qdrant" {
		return memory.NewFactory(dim)
	}
	client := qdrant.NewClient(ic.Qdrant.URL)
	if ic.Qdrant.APIKey != "" {
		client.WithAPIKey(ic.Qdrant.APIKey)
	}
	return qdrantIndex.NewFactory(client, ic.Qdrant.CollectionPrefix, dim, l)
}

func openSnapshot(ctx context.Context, path string, l log.Logger) (*snapshot.SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("snapshot dir: %w", err)
		}
	}
	return snapshot.Open(ctx, path, l)
}

func needsNATS(chains []config.ChainConfig) bool {
	for _, c := range chains {
		if c.Transport == chain.TransportNATS {
			return true
		}
	}
	return false
}

func toRoutes(in []config.RouteConfig) []model.Route {
	out := make([]model.Route, 0, len(in))
	for _, r := range in {
		out = append(out, model.Route{Name: r.Name, Utterances: r.Utterances, Threshold: r.Threshold})
	}
	return out
}

func toSpecs(in []config.ChainConfig) []chain.Spec {
	out := make([]chain.Spec, 0, len(in))
	for _, c := range in {
		out = append(out, chain.Spec{
			Route:     c.Route,
			Transport: c.Transport,
			URL:       c.URL,
			Subject:   c.Subject,
			Response:  c.Response,
			Timeout:   c.Timeout,
		})
	}
	return out
}
