package route

import (
	"context"
	"fmt"

	"intent-router/internal/encoder"
	"intent-router/internal/index"
	"intent-router/internal/model"
)

// Sync makes idx hold exactly one entry per declared (route, utterance).
// Validation and every encoder call happen before idx is modified, so a
// failed sync leaves idx untouched.
func (r *Registry) Sync(ctx context.Context, enc encoder.Encoder, idx index.VectorIndex, mode SyncMode) (SyncResult, error) {
	if _, err := ParseSyncMode(string(mode)); err != nil {
		return SyncResult{}, err
	}
	for _, rt := range r.routes {
		if len(rt.Utterances) == 0 {
			return SyncResult{}, &EmptyRouteError{Route: rt.Name}
		}
	}
	dim := enc.Dimension()
	if dim != idx.Dimension() {
		return SyncResult{}, fmt.Errorf("%w: encoder %d, index %d", ErrDimensionMismatch, dim, idx.Dimension())
	}

	res := SyncResult{Mode: mode}
	existing := make(map[model.EntryKey][]float32)
	if mode == SyncIncremental {
		entries, err := idx.Entries(ctx)
		if err != nil {
			return SyncResult{}, fmt.Errorf("route: read index: %w", err)
		}
		for _, e := range entries {
			existing[e.Key()] = e.Vector
		}
	}

	keys := r.keys()
	declared := make(map[model.EntryKey]bool, len(keys))
	desired := make([]model.IndexEntry, 0, len(keys))
	var fresh []model.IndexEntry
	for _, k := range keys {
		declared[k] = true
		if vec, ok := existing[k]; ok && len(vec) == dim {
			desired = append(desired, model.IndexEntry{RouteName: k.RouteName, Utterance: k.Utterance, Vector: vec})
			res.Reused++
			continue
		}
		vec, err := enc.Encode(ctx, k.Utterance)
		if err != nil {
			return SyncResult{}, fmt.Errorf("route: encode %q utterance %q: %w", k.RouteName, k.Utterance, err)
		}
		e := model.IndexEntry{RouteName: k.RouteName, Utterance: k.Utterance, Vector: vec}
		desired = append(desired, e)
		fresh = append(fresh, e)
		res.Encoded++
	}

	var orphans []model.EntryKey
	for k := range existing {
		if !declared[k] {
			orphans = append(orphans, k)
		}
	}
	res.Removed = len(orphans)
	res.Total = len(desired)

	if err := apply(ctx, idx, mode, desired, fresh, orphans); err != nil {
		return SyncResult{}, err
	}
	return res, nil
}

func apply(ctx context.Context, idx index.VectorIndex, mode SyncMode, desired, fresh []model.IndexEntry, orphans []model.EntryKey) error {
	if rp, ok := idx.(index.Replacer); ok {
		if err := rp.Replace(ctx, desired); err != nil {
			return fmt.Errorf("route: replace index: %w", err)
		}
		return nil
	}

	if mode == SyncFull {
		if err := idx.Clear(ctx); err != nil {
			return fmt.Errorf("route: clear index: %w", err)
		}
		fresh = desired
	}
	if err := idx.Delete(ctx, orphans); err != nil {
		return fmt.Errorf("route: delete orphans: %w", err)
	}
	if err := idx.Upsert(ctx, fresh); err != nil {
		return fmt.Errorf("route: upsert: %w", err)
	}
	return nil
}
