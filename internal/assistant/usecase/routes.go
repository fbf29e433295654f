package usecase

import (
	"context"

	"intent-router/internal/assistant"
)

// Routes lists the declared routes in declaration order.
func (uc *implUseCase) Routes(ctx context.Context) (assistant.RoutesOutput, error) {
	def := uc.disp.DefaultRoute()
	out := assistant.RoutesOutput{DefaultRoute: def}

	for _, rt := range uc.reg.Routes() {
		out.Routes = append(out.Routes, assistant.RouteInfo{
			Name:       rt.Name,
			Utterances: len(rt.Utterances),
			Threshold:  uc.reg.Threshold(rt.Name, uc.cfg.DefaultThreshold),
			HasHandler: uc.disp.Has(rt.Name),
			IsDefault:  rt.Name == def,
		})
	}

	idx, release := uc.router.Acquire()
	entries, err := idx.Entries(ctx)
	release()
	if err != nil {
		uc.l.Errorf(ctx, "%s: read index: %v", LogPrefixRoutes, err)
		return assistant.RoutesOutput{}, err
	}
	out.IndexSize = len(entries)
	return out, nil
}
