package usecase

import (
	"context"

	"intent-router/internal/assistant"
)

// Ask routes the query and hands the decision to the dispatcher. The
// decision is returned even when the handler fails.
func (uc *implUseCase) Ask(ctx context.Context, input assistant.AskInput) (assistant.AskOutput, error) {
	decision, err := uc.router.Route(ctx, input.Query)
	if err != nil {
		return assistant.AskOutput{}, err
	}

	res, err := uc.disp.Dispatch(ctx, decision)
	if err != nil {
		uc.l.Errorf(ctx, "%s: dispatch %q: %v", LogPrefixAsk, decision.BestRoute, err)
		return assistant.AskOutput{Decision: decision}, err
	}

	return assistant.AskOutput{
		Answer:   res.Response,
		Outcome:  res.Outcome,
		Handler:  res.Handler,
		Decision: decision,
	}, nil
}
