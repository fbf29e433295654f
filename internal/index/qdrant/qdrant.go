// Package qdrant stores the route index in a Qdrant collection.
package qdrant

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"intent-router/internal/index"
	"intent-router/internal/model"
	pkgLog "intent-router/pkg/log"
	pkgQdrant "intent-router/pkg/qdrant"
)

const (
	payloadRoute     = "route_name"
	payloadUtterance = "utterance"
	payloadSeq       = "seq"

	scrollPageSize  = 256
	searchOverfetch = 8
)

// pointNamespace seeds the deterministic point ids.
var pointNamespace = uuid.MustParse("6ba7b812-9dad-11d1-80b4-00c04fd430c8") // OID namespace

// Client is the subset of pkg/qdrant used by the index.
type Client interface {
	CreateCollection(ctx context.Context, req pkgQdrant.CreateCollectionRequest) error
	DeleteCollection(ctx context.Context, name string) error
	UpsertPoints(ctx context.Context, collection string, req pkgQdrant.UpsertPointsRequest) error
	SearchPoints(ctx context.Context, collection string, req pkgQdrant.SearchRequest) (*pkgQdrant.SearchResponse, error)
	ScrollPoints(ctx context.Context, collection string, req pkgQdrant.ScrollRequest) (*pkgQdrant.ScrollResponse, error)
	DeletePoints(ctx context.Context, collection string, ids []string) error
}

var _ Client = (*pkgQdrant.Client)(nil)

// Index is a VectorIndex backed by one Qdrant collection. Insertion order
// is kept in a seq payload field; the collection is expected to be written
// only through this value.
type Index struct {
	client     Client
	collection string
	dim        int
	l          pkgLog.Logger

	mu      sync.Mutex
	nextSeq int64
	seqs    map[model.EntryKey]int64
}

var (
	_ index.VectorIndex = (*Index)(nil)
	_ index.Dropper     = (*Index)(nil)
)

// New creates the collection and returns an empty index over it.
func New(ctx context.Context, client Client, collection string, dim int, l pkgLog.Logger) (*Index, error) {
	err := client.CreateCollection(ctx, pkgQdrant.CreateCollectionRequest{
		Name:    collection,
		Vectors: pkgQdrant.VectorConfig{Size: dim, Distance: pkgQdrant.DistanceCosine},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant index: create collection %s: %w", collection, err)
	}
	return &Index{
		client:     client,
		collection: collection,
		dim:        dim,
		l:          l,
		seqs:       make(map[model.EntryKey]int64),
	}, nil
}

// NewFactory returns a Factory that creates a new generation collection,
// named <prefix>_<uuid>, on every call.
func NewFactory(client Client, prefix string, dim int, l pkgLog.Logger) index.Factory {
	return func(ctx context.Context) (index.VectorIndex, error) {
		name := fmt.Sprintf("%s_%s", prefix, uuid.NewString())
		idx, err := New(ctx, client, name, dim, l)
		if err != nil {
			return nil, err
		}
		l.Infof(ctx, "qdrant index: created generation %s", name)
		return idx, nil
	}
}

// Collection returns the backing collection name.
func (q *Index) Collection() string { return q.collection }

func (q *Index) Dimension() int { return q.dim }

func (q *Index) Upsert(ctx context.Context, entries []model.IndexEntry) error {
	if err := index.CheckEntries(q.dim, entries); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	assigned := make(map[model.EntryKey]int64, len(entries))
	next := q.nextSeq
	points := make([]pkgQdrant.Point, 0, len(entries))
	for _, e := range entries {
		seq, ok := q.seqs[e.Key()]
		if !ok {
			if seq, ok = assigned[e.Key()]; !ok {
				seq = next
				next++
			}
		}
		assigned[e.Key()] = seq
		points = append(points, pkgQdrant.Point{
			ID:     pointID(e.Key()),
			Vector: e.Vector,
			Payload: map[string]interface{}{
				payloadRoute:     e.RouteName,
				payloadUtterance: e.Utterance,
				payloadSeq:       seq,
			},
		})
	}

	if err := q.client.UpsertPoints(ctx, q.collection, pkgQdrant.UpsertPointsRequest{Points: points}); err != nil {
		q.l.Errorf(ctx, "qdrant index: upsert %d points into %s: %v", len(points), q.collection, err)
		return fmt.Errorf("qdrant index: upsert: %w", err)
	}
	for k, seq := range assigned {
		q.seqs[k] = seq
	}
	q.nextSeq = next
	return nil
}

func (q *Index) Delete(ctx context.Context, keys []model.EntryKey) error {
	if len(keys) == 0 {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = pointID(k)
	}
	if err := q.client.DeletePoints(ctx, q.collection, ids); err != nil {
		q.l.Errorf(ctx, "qdrant index: delete %d points from %s: %v", len(ids), q.collection, err)
		return fmt.Errorf("qdrant index: delete: %w", err)
	}
	for _, k := range keys {
		delete(q.seqs, k)
	}
	return nil
}

// Clear recreates the collection.
func (q *Index) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.client.DeleteCollection(ctx, q.collection); err != nil {
		return fmt.Errorf("qdrant index: clear: %w", err)
	}
	err := q.client.CreateCollection(ctx, pkgQdrant.CreateCollectionRequest{
		Name:    q.collection,
		Vectors: pkgQdrant.VectorConfig{Size: q.dim, Distance: pkgQdrant.DistanceCosine},
	})
	if err != nil {
		return fmt.Errorf("qdrant index: clear: %w", err)
	}
	q.seqs = make(map[model.EntryKey]int64)
	q.nextSeq = 0
	return nil
}

// Drop deletes the collection. The index must not be used afterwards.
func (q *Index) Drop(ctx context.Context) error {
	if err := q.client.DeleteCollection(ctx, q.collection); err != nil {
		return fmt.Errorf("qdrant index: drop %s: %w", q.collection, err)
	}
	q.l.Infof(ctx, "qdrant index: dropped generation %s", q.collection)
	return nil
}

func (q *Index) Search(ctx context.Context, query []float32, topK int) ([]model.Hit, error) {
	if err := index.CheckQuery(q.dim, query, topK); err != nil {
		return nil, err
	}

	// Qdrant orders equal scores arbitrarily, so fetch past the cut-off and
	// apply insertion order here before trimming.
	resp, err := q.client.SearchPoints(ctx, q.collection, pkgQdrant.SearchRequest{
		Vector:      query,
		Limit:       topK + max(topK, searchOverfetch),
		WithPayload: true,
	})
	if err != nil {
		q.l.Errorf(ctx, "qdrant index: search %s: %v", q.collection, err)
		return nil, fmt.Errorf("qdrant index: search: %w", err)
	}

	type ranked struct {
		hit model.Hit
		seq int64
	}
	rs := make([]ranked, 0, len(resp.Result))
	for _, p := range resp.Result {
		e, seq, ok := decodePayload(p)
		if !ok {
			q.l.Warnf(ctx, "qdrant index: skipping point %s with malformed payload %+v", p.ID, p.Payload)
			continue
		}
		rs = append(rs, ranked{hit: model.Hit{Entry: e, Score: clamp(p.Score)}, seq: seq})
	}
	slices.SortFunc(rs, func(a, b ranked) int {
		if c := cmp.Compare(b.hit.Score, a.hit.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	if len(rs) > topK {
		rs = rs[:topK]
	}
	hits := make([]model.Hit, len(rs))
	for i, r := range rs {
		hits[i] = r.hit
	}
	return hits, nil
}

// Entries returns stored entries in insertion order. Qdrant keeps cosine
// vectors normalised, so vectors come back with unit length.
func (q *Index) Entries(ctx context.Context) ([]model.IndexEntry, error) {
	type stored struct {
		entry model.IndexEntry
		seq   int64
	}
	var all []stored
	var offset interface{}
	for {
		resp, err := q.client.ScrollPoints(ctx, q.collection, pkgQdrant.ScrollRequest{
			Limit:       scrollPageSize,
			Offset:      offset,
			WithPayload: true,
			WithVector:  true,
		})
		if err != nil {
			return nil, fmt.Errorf("qdrant index: scroll: %w", err)
		}
		for _, p := range resp.Result.Points {
			e, seq, ok := decodePayload(p)
			if !ok {
				continue
			}
			e.Vector = p.Vector
			all = append(all, stored{entry: e, seq: seq})
		}
		if resp.Result.NextPageOffset == nil {
			break
		}
		offset = resp.Result.NextPageOffset
	}

	slices.SortFunc(all, func(a, b stored) int { return cmp.Compare(a.seq, b.seq) })
	out := make([]model.IndexEntry, len(all))
	for i, s := range all {
		out[i] = s.entry
	}
	return out, nil
}

func pointID(k model.EntryKey) string {
	return uuid.NewSHA1(pointNamespace, []byte(k.RouteName+"\x00"+k.Utterance)).String()
}

func decodePayload(p pkgQdrant.ScoredPoint) (model.IndexEntry, int64, bool) {
	route, ok1 := p.Payload[payloadRoute].(string)
	utt, ok2 := p.Payload[payloadUtterance].(string)
	seq, ok3 := p.Payload[payloadSeq].(float64)
	if !ok1 || !ok2 || !ok3 {
		return model.IndexEntry{}, 0, false
	}
	return model.IndexEntry{RouteName: route, Utterance: utt}, int64(seq), true
}

func clamp(s float64) float64 {
	return max(-1, min(1, s))
}
