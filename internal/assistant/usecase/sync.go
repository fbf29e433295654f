package usecase

import (
	"context"
	"fmt"

	"intent-router/internal/assistant"
	"intent-router/internal/encoder"
	"intent-router/internal/index"
	"intent-router/internal/model"
	"intent-router/internal/route"
)

// Sync builds a fresh index generation, fills it from the registry and
// swaps it into the router. The live index is never written to, so queries
// keep being answered from the previous generation until the swap.
func (uc *implUseCase) Sync(ctx context.Context, input assistant.SyncInput) (assistant.SyncOutput, error) {
	mode := uc.cfg.SyncMode
	if input.Mode != "" {
		m, err := route.ParseSyncMode(input.Mode)
		if err != nil {
			return assistant.SyncOutput{}, err
		}
		mode = m
	}

	if !uc.syncMu.TryLock() {
		return assistant.SyncOutput{}, assistant.ErrSyncInProgress
	}
	defer uc.syncMu.Unlock()

	fingerprint := encoder.Fingerprint(uc.enc)

	next, err := uc.factory(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "%s: new index: %v", LogPrefixSync, err)
		return assistant.SyncOutput{}, fmt.Errorf("new index: %w", err)
	}

	if mode == route.SyncIncremental {
		if err := uc.seed(ctx, next, fingerprint); err != nil {
			uc.l.Errorf(ctx, "%s: seed: %v", LogPrefixSync, err)
			uc.retire(ctx, next)
			return assistant.SyncOutput{}, fmt.Errorf("seed index: %w", err)
		}
	}

	res, err := uc.reg.Sync(ctx, uc.enc, next, mode)
	if err != nil {
		uc.l.Errorf(ctx, "%s: %v", LogPrefixSync, err)
		uc.retire(ctx, next)
		return assistant.SyncOutput{}, err
	}

	if old, idle := uc.router.SwapIndex(next); old != nil && old != next {
		uc.retireWhenIdle(ctx, old, idle)
	}
	uc.persist(ctx, next, fingerprint)

	uc.l.Infof(ctx, "%s: mode=%s encoded=%d reused=%d removed=%d total=%d",
		LogPrefixSync, res.Mode, res.Encoded, res.Reused, res.Removed, res.Total)
	return assistant.SyncOutput{Result: res, Fingerprint: fingerprint}, nil
}

// seed copies the vectors of the live index into next. On first start the
// live index is empty and the snapshot is used instead.
func (uc *implUseCase) seed(ctx context.Context, next index.VectorIndex, fingerprint string) error {
	var entries []model.IndexEntry
	if cur := uc.router.Index(); cur != nil {
		var err error
		if entries, err = cur.Entries(ctx); err != nil {
			return err
		}
	}

	if len(entries) == 0 && uc.snap != nil {
		saved, err := uc.snap.Load(ctx, fingerprint)
		if err != nil {
			uc.l.Warnf(ctx, "%s: snapshot unreadable, encoding everything: %v", LogPrefixSync, err)
		}
		entries = saved
	}

	dim := next.Dimension()
	usable := entries[:0:0]
	for _, e := range entries {
		if e.Dim() == dim {
			usable = append(usable, e)
		}
	}
	if len(usable) == 0 {
		return nil
	}
	return next.Upsert(ctx, usable)
}

// retireWhenIdle drops old once the queries still searching it are done.
// If ctx ends first the drop is left to a background goroutine.
func (uc *implUseCase) retireWhenIdle(ctx context.Context, old index.VectorIndex, idle <-chan struct{}) {
	select {
	case <-idle:
		uc.retire(ctx, old)
	case <-ctx.Done():
		uc.l.Warnf(ctx, "%s: retired index still in use, dropping it in the background", LogPrefixSync)
		bg := context.WithoutCancel(ctx)
		go func() {
			<-idle
			uc.retire(bg, old)
		}()
	}
}

// retire drops the backend storage of an index that is no longer served.
func (uc *implUseCase) retire(ctx context.Context, idx index.VectorIndex) {
	d, ok := idx.(index.Dropper)
	if !ok {
		return
	}
	if err := d.Drop(ctx); err != nil {
		uc.l.Warnf(ctx, "%s: drop retired index: %v", LogPrefixSync, err)
	}
}

func (uc *implUseCase) persist(ctx context.Context, idx index.VectorIndex, fingerprint string) {
	if uc.snap == nil {
		return
	}
	entries, err := idx.Entries(ctx)
	if err != nil {
		uc.l.Warnf(ctx, "%s: read entries for snapshot: %v", LogPrefixSync, err)
		return
	}
	if err := uc.snap.Save(ctx, fingerprint, entries); err != nil {
		uc.l.Warnf(ctx, "%s: save snapshot: %v", LogPrefixSync, err)
	}
}
