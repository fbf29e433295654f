package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"intent-router/internal/assistant"
	"intent-router/internal/dispatch"
	"intent-router/internal/encoder"
	"intent-router/internal/index"
	"intent-router/internal/index/memory"
	"intent-router/internal/model"
	"intent-router/internal/route"
	"intent-router/internal/router"
	"intent-router/internal/snapshot"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

// countingEncoder counts Encode calls on top of the hash encoder.
type countingEncoder struct {
	*encoder.Hash
	calls atomic.Int64
}

func (c *countingEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	c.calls.Add(1)
	return c.Hash.Encode(ctx, text)
}

var errCollectionGone = errors.New("collection not found")

// droppable records Drop calls on a memory index. Like a deleted backend
// collection it refuses searches once dropped. A gate parks the next Search.
type droppable struct {
	*memory.Index
	dropped atomic.Bool
	gate    atomic.Pointer[searchGate]
}

type searchGate struct {
	entered chan struct{}
	release chan struct{}
}

func newSearchGate() *searchGate {
	return &searchGate{entered: make(chan struct{}), release: make(chan struct{})}
}

func (d *droppable) Drop(context.Context) error {
	d.dropped.Store(true)
	return nil
}

func (d *droppable) Search(ctx context.Context, query []float32, topK int) ([]model.Hit, error) {
	if g := d.gate.Swap(nil); g != nil {
		close(g.entered)
		<-g.release
	}
	if d.dropped.Load() {
		return nil, errCollectionGone
	}
	return d.Index.Search(ctx, query, topK)
}

// memStore is an in-memory snapshot.Store.
type memStore struct {
	mu          sync.Mutex
	fingerprint string
	entries     []model.IndexEntry
	saves       int
}

func (s *memStore) Load(_ context.Context, fingerprint string) ([]model.IndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fingerprint != fingerprint {
		return nil, nil
	}
	return s.entries, nil
}

func (s *memStore) Save(_ context.Context, fingerprint string, entries []model.IndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprint = fingerprint
	s.entries = entries
	s.saves++
	return nil
}

func (s *memStore) Close() error { return nil }

const dim = 64

func sampleRoutes() []model.Route {
	return []model.Route{
		{Name: "faq", Utterances: []string{"how do I reset my password", "where can I find the documentation"}},
		{Name: "sql", Utterances: []string{"show me total sales by region", "count the orders from last week"}},
	}
}

type fixture struct {
	uc        *implUseCase
	enc       *countingEncoder
	rt        *router.SemanticRouter
	generated []*droppable
	genMu     sync.Mutex
}

func (f *fixture) generation(i int) *droppable {
	f.genMu.Lock()
	defer f.genMu.Unlock()
	if i < len(f.generated) {
		return f.generated[i]
	}
	return nil
}

// waitServed blocks until the router serves generation i.
func (f *fixture) waitServed(t *testing.T, i int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		if g := f.generation(i); g != nil && f.rt.Index() == index.VectorIndex(g) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("generation %d was never swapped in", i)
		}
		time.Sleep(time.Millisecond)
	}
}

func newFixture(t *testing.T, routes []model.Route, snap *memStore, threshold float64, opts ...dispatch.Option) *fixture {
	t.Helper()
	reg, err := route.New(routes)
	if err != nil {
		t.Fatalf("route.New: %v", err)
	}
	f := &fixture{enc: &countingEncoder{Hash: encoder.NewHash(dim)}}
	l := &mockLogger{}
	f.rt = router.New(l, reg, f.enc, memory.New(dim), router.Config{TopK: 5, DefaultThreshold: threshold})
	disp := dispatch.New(l, map[string]dispatch.Handler{
		"faq": func(_ context.Context, q string) (string, error) { return "faq: " + q, nil },
	}, opts...)
	factory := func(context.Context) (index.VectorIndex, error) {
		d := &droppable{Index: memory.New(dim)}
		f.genMu.Lock()
		f.generated = append(f.generated, d)
		f.genMu.Unlock()
		return d, nil
	}
	var store snapshot.Store
	if snap != nil {
		store = snap
	}
	f.uc = New(l, reg, f.enc, f.rt, disp, factory, store, Config{DefaultThreshold: threshold, SyncMode: route.SyncIncremental})
	return f
}

func TestAsk(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleRoutes(), nil, 0.9, dispatch.WithDefaultRoute("sql"))
	if _, err := f.uc.Sync(ctx, assistant.SyncInput{Mode: "full"}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	t.Run("Routed", func(t *testing.T) {
		out, err := f.uc.Ask(ctx, assistant.AskInput{Query: "how do I reset my password"})
		if err != nil {
			t.Fatalf("Ask: %v", err)
		}
		if out.Outcome != dispatch.OutcomeRouted || out.Handler != "faq" {
			t.Errorf("expected routed to faq, got %+v", out)
		}
		if out.Answer != "faq: how do I reset my password" {
			t.Errorf("unexpected answer %q", out.Answer)
		}
		if out.Decision.Confidence < 0.999 {
			t.Errorf("expected self-similarity near 1, got %f", out.Decision.Confidence)
		}
	})

	t.Run("Matched Route Without Handler", func(t *testing.T) {
		out, err := f.uc.Ask(ctx, assistant.AskInput{Query: "count the orders from last week"})
		if err != nil {
			t.Fatalf("Ask: %v", err)
		}
		if out.Outcome != dispatch.OutcomeUnimplemented || out.Answer != "Route sql not implemented yet" {
			t.Errorf("unexpected output %+v", out)
		}
	})

	t.Run("Fallback To Default Route", func(t *testing.T) {
		out, err := f.uc.Ask(ctx, assistant.AskInput{Query: "banana"})
		if err != nil {
			t.Fatalf("Ask: %v", err)
		}
		if out.Decision.Matched() {
			t.Fatalf("expected no match, got %q at %f", out.Decision.RouteName, out.Decision.Confidence)
		}
		// sql is the default but has no handler.
		if out.Outcome != dispatch.OutcomeUnimplemented {
			t.Errorf("expected unimplemented fallback, got %s", out.Outcome)
		}
	})

	t.Run("Invalid Query", func(t *testing.T) {
		_, err := f.uc.Ask(ctx, assistant.AskInput{Query: "   "})
		if !errors.Is(err, router.ErrInvalidQuery) {
			t.Errorf("expected ErrInvalidQuery, got %v", err)
		}
	})
}

func TestAskHandlerFailure(t *testing.T) {
	ctx := context.Background()
	reg, _ := route.New(sampleRoutes())
	l := &mockLogger{}
	enc := encoder.NewHash(dim)
	rt := router.New(l, reg, enc, memory.New(dim), router.Config{DefaultThreshold: 0.5})
	disp := dispatch.New(l, map[string]dispatch.Handler{
		"sql": func(context.Context, string) (string, error) { return "", errors.New("db down") },
	})
	uc := New(l, reg, enc, rt, disp, memory.NewFactory(dim), nil, Config{DefaultThreshold: 0.5})
	if _, err := uc.Sync(ctx, assistant.SyncInput{}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	out, err := uc.Ask(ctx, assistant.AskInput{Query: "show me total sales by region"})
	if !errors.Is(err, dispatch.ErrHandlerFailed) {
		t.Fatalf("expected ErrHandlerFailed, got %v", err)
	}
	if out.Decision.RouteName != "sql" {
		t.Errorf("expected decision to be returned with the error, got %+v", out.Decision)
	}
}

func TestSync(t *testing.T) {
	ctx := context.Background()

	t.Run("Swaps And Drops Previous Generation", func(t *testing.T) {
		f := newFixture(t, sampleRoutes(), nil, 0.5)
		first, err := f.uc.Sync(ctx, assistant.SyncInput{Mode: "full"})
		if err != nil {
			t.Fatalf("Sync: %v", err)
		}
		if first.Result.Encoded != 4 || first.Result.Total != 4 {
			t.Errorf("unexpected first result %+v", first.Result)
		}
		if first.Fingerprint != "hash-v1:64" {
			t.Errorf("unexpected fingerprint %q", first.Fingerprint)
		}

		second, err := f.uc.Sync(ctx, assistant.SyncInput{})
		if err != nil {
			t.Fatalf("Sync: %v", err)
		}
		if second.Result.Mode != route.SyncIncremental || second.Result.Encoded != 0 || second.Result.Reused != 4 {
			t.Errorf("expected incremental sync to reuse every vector, got %+v", second.Result)
		}

		if len(f.generated) != 2 {
			t.Fatalf("expected 2 generations, got %d", len(f.generated))
		}
		if !f.generated[0].dropped.Load() || f.generated[1].dropped.Load() {
			t.Error("expected only the retired generation to be dropped")
		}
		if f.rt.Index() != index.VectorIndex(f.generated[1]) {
			t.Error("router does not serve the latest generation")
		}
	})

	t.Run("Failure Keeps Live Index", func(t *testing.T) {
		f := newFixture(t, append(sampleRoutes(), model.Route{Name: "empty"}), nil, 0.5)
		live := f.rt.Index()

		_, err := f.uc.Sync(ctx, assistant.SyncInput{Mode: "full"})
		var emptyErr *route.EmptyRouteError
		if !errors.As(err, &emptyErr) || emptyErr.Route != "empty" {
			t.Fatalf("expected EmptyRouteError, got %v", err)
		}
		if f.rt.Index() != live {
			t.Error("live index was replaced after a failed sync")
		}
		if !f.generated[0].dropped.Load() {
			t.Error("expected the unused generation to be dropped")
		}
	})

	t.Run("Invalid Mode", func(t *testing.T) {
		f := newFixture(t, sampleRoutes(), nil, 0.5)
		if _, err := f.uc.Sync(ctx, assistant.SyncInput{Mode: "partial"}); !errors.Is(err, route.ErrInvalidSyncMode) {
			t.Errorf("expected ErrInvalidSyncMode, got %v", err)
		}
		if len(f.generated) != 0 {
			t.Error("no index should be built for an invalid mode")
		}
	})

	t.Run("Snapshot Seeds First Sync", func(t *testing.T) {
		snap := &memStore{}
		f := newFixture(t, sampleRoutes(), snap, 0.5)
		if _, err := f.uc.Sync(ctx, assistant.SyncInput{}); err != nil {
			t.Fatalf("Sync: %v", err)
		}
		if snap.saves != 1 || len(snap.entries) != 4 {
			t.Fatalf("expected snapshot of 4 entries, got saves=%d entries=%d", snap.saves, len(snap.entries))
		}

		// A restarted process starts from an empty index.
		restarted := newFixture(t, append(sampleRoutes(), model.Route{Name: "greeting", Utterances: []string{"hello there"}}), snap, 0.5)
		out, err := restarted.uc.Sync(ctx, assistant.SyncInput{})
		if err != nil {
			t.Fatalf("Sync: %v", err)
		}
		if out.Result.Reused != 4 || out.Result.Encoded != 1 {
			t.Errorf("expected 4 reused and 1 encoded, got %+v", out.Result)
		}
		if restarted.enc.calls.Load() != 1 {
			t.Errorf("expected one encoder call, got %d", restarted.enc.calls.Load())
		}
	})

	t.Run("Snapshot With Other Fingerprint Is Ignored", func(t *testing.T) {
		snap := &memStore{fingerprint: "voyage/voyage-3:1024", entries: []model.IndexEntry{
			{RouteName: "faq", Utterance: "how do I reset my password", Vector: make([]float32, 1024)},
		}}
		f := newFixture(t, sampleRoutes(), snap, 0.5)
		out, err := f.uc.Sync(ctx, assistant.SyncInput{})
		if err != nil {
			t.Fatalf("Sync: %v", err)
		}
		if out.Result.Encoded != 4 || out.Result.Reused != 0 {
			t.Errorf("expected a full encode, got %+v", out.Result)
		}
	})
}

func TestSyncWithQueryInFlight(t *testing.T) {
	ctx := context.Background()
	const query = "how do I reset my password"

	startAsk := func(t *testing.T, f *fixture) (*searchGate, chan error) {
		t.Helper()
		g := newSearchGate()
		f.generation(0).gate.Store(g)
		done := make(chan error, 1)
		go func() {
			out, err := f.uc.Ask(ctx, assistant.AskInput{Query: query})
			if err == nil && out.Handler != "faq" {
				err = errors.New("query routed to " + out.Handler)
			}
			done <- err
		}()
		<-g.entered
		return g, done
	}

	t.Run("Previous Generation Outlives The Query", func(t *testing.T) {
		f := newFixture(t, sampleRoutes(), nil, 0.5)
		if _, err := f.uc.Sync(ctx, assistant.SyncInput{Mode: "full"}); err != nil {
			t.Fatalf("Sync: %v", err)
		}
		g, askDone := startAsk(t, f)

		syncDone := make(chan error, 1)
		go func() {
			_, err := f.uc.Sync(ctx, assistant.SyncInput{})
			syncDone <- err
		}()
		f.waitServed(t, 1)

		if f.generation(0).dropped.Load() {
			t.Fatal("previous generation dropped while a query was searching it")
		}
		select {
		case err := <-syncDone:
			t.Fatalf("sync returned before the query finished: %v", err)
		default:
		}

		close(g.release)
		if err := <-askDone; err != nil {
			t.Fatalf("in-flight query failed: %v", err)
		}
		if err := <-syncDone; err != nil {
			t.Fatalf("Sync: %v", err)
		}
		if !f.generation(0).dropped.Load() {
			t.Error("expected the previous generation to be dropped after the query")
		}
	})

	t.Run("Cancelled Sync Drops Later", func(t *testing.T) {
		f := newFixture(t, sampleRoutes(), nil, 0.5)
		if _, err := f.uc.Sync(ctx, assistant.SyncInput{Mode: "full"}); err != nil {
			t.Fatalf("Sync: %v", err)
		}
		g, askDone := startAsk(t, f)

		syncCtx, cancel := context.WithCancel(ctx)
		syncDone := make(chan error, 1)
		go func() {
			_, err := f.uc.Sync(syncCtx, assistant.SyncInput{})
			syncDone <- err
		}()
		f.waitServed(t, 1)
		cancel()
		if err := <-syncDone; err != nil {
			t.Fatalf("Sync: %v", err)
		}
		if f.generation(0).dropped.Load() {
			t.Fatal("previous generation dropped while a query was searching it")
		}

		close(g.release)
		if err := <-askDone; err != nil {
			t.Fatalf("in-flight query failed: %v", err)
		}
		deadline := time.Now().Add(5 * time.Second)
		for !f.generation(0).dropped.Load() {
			if time.Now().After(deadline) {
				t.Fatal("previous generation was never dropped")
			}
			time.Sleep(time.Millisecond)
		}
	})
}

// blockingEncoder parks the first Encode call until release is closed.
type blockingEncoder struct {
	*encoder.Hash
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (b *blockingEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
	return b.Hash.Encode(ctx, text)
}

func TestSyncInProgress(t *testing.T) {
	ctx := context.Background()
	reg, _ := route.New(sampleRoutes())
	l := &mockLogger{}
	enc := &blockingEncoder{Hash: encoder.NewHash(dim), entered: make(chan struct{}), release: make(chan struct{})}
	rt := router.New(l, reg, enc, memory.New(dim), router.Config{})
	uc := New(l, reg, enc, rt, dispatch.New(l, nil), memory.NewFactory(dim), nil, Config{})

	done := make(chan error, 1)
	go func() {
		_, err := uc.Sync(ctx, assistant.SyncInput{})
		done <- err
	}()
	<-enc.entered

	if _, err := uc.Sync(ctx, assistant.SyncInput{}); !errors.Is(err, assistant.ErrSyncInProgress) {
		t.Errorf("expected ErrSyncInProgress, got %v", err)
	}
	close(enc.release)
	if err := <-done; err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
}

func TestRoutes(t *testing.T) {
	ctx := context.Background()
	routes := sampleRoutes()
	strict := 0.8
	routes[1].Threshold = &strict
	f := newFixture(t, routes, nil, 0.5, dispatch.WithDefaultRoute("sql"))
	if _, err := f.uc.Sync(ctx, assistant.SyncInput{}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	out, err := f.uc.Routes(ctx)
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	if out.DefaultRoute != "sql" || out.IndexSize != 4 || len(out.Routes) != 2 {
		t.Fatalf("unexpected output %+v", out)
	}
	want := []assistant.RouteInfo{
		{Name: "faq", Utterances: 2, Threshold: 0.5, HasHandler: true},
		{Name: "sql", Utterances: 2, Threshold: 0.8, IsDefault: true},
	}
	for i, w := range want {
		if out.Routes[i] != w {
			t.Errorf("route %d: expected %+v, got %+v", i, w, out.Routes[i])
		}
	}
}
