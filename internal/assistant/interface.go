package assistant

import "context"

//go:generate mockery --name UseCase
type UseCase interface {
	// Ask routes a query and returns the answer of the chosen handler.
	Ask(ctx context.Context, input AskInput) (AskOutput, error)
	// Sync rebuilds the routing index from the registry and swaps it in.
	Sync(ctx context.Context, input SyncInput) (SyncOutput, error)
	Routes(ctx context.Context) (RoutesOutput, error)
}
