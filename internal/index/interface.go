// Package index stores utterance embeddings and answers nearest-neighbour
// queries by cosine similarity.
package index

import (
	"context"

	"intent-router/internal/model"
)

// VectorIndex is a searchable collection of IndexEntry values.
// Implementations are safe for concurrent use.
type VectorIndex interface {
	Dimension() int
	// Upsert is idempotent by EntryKey. An existing key keeps its position.
	Upsert(ctx context.Context, entries []model.IndexEntry) error
	Delete(ctx context.Context, keys []model.EntryKey) error
	Clear(ctx context.Context) error
	// Search returns at most topK hits, best first. Equal scores keep
	// insertion order. An empty index yields no hits and no error.
	Search(ctx context.Context, query []float32, topK int) ([]model.Hit, error)
	// Entries returns every entry in insertion order.
	Entries(ctx context.Context) ([]model.IndexEntry, error)
}

// Replacer swaps the whole content of an index in one step.
type Replacer interface {
	Replace(ctx context.Context, entries []model.IndexEntry) error
}

// Dropper releases backend storage once an index is retired.
type Dropper interface {
	Drop(ctx context.Context) error
}

// Factory builds a new, empty index.
type Factory func(ctx context.Context) (VectorIndex, error)
