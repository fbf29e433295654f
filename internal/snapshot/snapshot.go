// Package snapshot persists synced index entries so a restart only has to
// encode utterances that changed.
package snapshot

import (
	"context"

	"intent-router/internal/model"
)

// Store saves and restores index entries tagged with an encoder fingerprint.
type Store interface {
	// Load returns the saved entries, or nil when nothing was saved or the
	// saved fingerprint differs from fingerprint.
	Load(ctx context.Context, fingerprint string) ([]model.IndexEntry, error)
	// Save replaces the stored entries.
	Save(ctx context.Context, fingerprint string, entries []model.IndexEntry) error
	Close() error
}
