// Package memory is an exact, in-process VectorIndex.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"intent-router/internal/index"
	"intent-router/internal/model"
)

// Index scans every entry on each search.
type Index struct {
	mu      sync.RWMutex
	dim     int
	entries []model.IndexEntry
	pos     map[model.EntryKey]int
}

var (
	_ index.VectorIndex = (*Index)(nil)
	_ index.Replacer    = (*Index)(nil)
)

func New(dim int) *Index {
	return &Index{dim: dim, pos: make(map[model.EntryKey]int)}
}

// NewFactory returns an index.Factory producing empty indexes of dimension dim.
func NewFactory(dim int) index.Factory {
	return func(context.Context) (index.VectorIndex, error) {
		return New(dim), nil
	}
}

func (m *Index) Dimension() int { return m.dim }

func (m *Index) Upsert(_ context.Context, entries []model.IndexEntry) error {
	if err := index.CheckEntries(m.dim, entries); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.put(e.Clone())
	}
	return nil
}

func (m *Index) put(e model.IndexEntry) {
	if i, ok := m.pos[e.Key()]; ok {
		m.entries[i] = e
		return
	}
	m.pos[e.Key()] = len(m.entries)
	m.entries = append(m.entries, e)
}

func (m *Index) Delete(_ context.Context, keys []model.EntryKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	drop := make(map[model.EntryKey]bool, len(keys))
	for _, k := range keys {
		if _, ok := m.pos[k]; ok {
			drop[k] = true
		}
	}
	if len(drop) == 0 {
		return nil
	}

	kept := m.entries[:0]
	for _, e := range m.entries {
		if !drop[e.Key()] {
			kept = append(kept, e)
		}
	}
	clear(m.entries[len(kept):])
	m.entries = kept
	m.reindex()
	return nil
}

func (m *Index) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.pos = make(map[model.EntryKey]int)
	return nil
}

// Replace swaps the content for entries, in their given order.
func (m *Index) Replace(_ context.Context, entries []model.IndexEntry) error {
	if err := index.CheckEntries(m.dim, entries); err != nil {
		return err
	}
	fresh := New(m.dim)
	for _, e := range entries {
		fresh.put(e.Clone())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries, m.pos = fresh.entries, fresh.pos
	return nil
}

func (m *Index) Search(_ context.Context, query []float32, topK int) ([]model.Hit, error) {
	if err := index.CheckQuery(m.dim, query, topK); err != nil {
		return nil, err
	}

	m.mu.RLock()
	hits := make([]model.Hit, len(m.entries))
	for i, e := range m.entries {
		hits[i] = model.Hit{Entry: e.Clone(), Score: index.Cosine(query, e.Vector)}
	}
	m.mu.RUnlock()

	slices.SortStableFunc(hits, func(a, b model.Hit) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (m *Index) Entries(_ context.Context) ([]model.IndexEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.IndexEntry, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Clone()
	}
	return out, nil
}

func (m *Index) reindex() {
	m.pos = make(map[model.EntryKey]int, len(m.entries))
	for i, e := range m.entries {
		m.pos[e.Key()] = i
	}
}
