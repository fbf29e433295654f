package assistant

import (
	"intent-router/internal/dispatch"
	"intent-router/internal/model"
	"intent-router/internal/route"
)

// AskInput is the input for Ask.
type AskInput struct {
	Query string
}

// AskOutput is the output of Ask.
type AskOutput struct {
	Answer   string
	Outcome  dispatch.Outcome
	Handler  string
	Decision model.RouteDecision
}

// SyncInput is the input for Sync. An empty Mode uses the configured one.
type SyncInput struct {
	Mode string
}

// SyncOutput is the output of Sync.
type SyncOutput struct {
	Result      route.SyncResult
	Fingerprint string
}

// RouteInfo describes one declared route.
type RouteInfo struct {
	Name       string
	Utterances int
	Threshold  float64 // Effective threshold
	HasHandler bool
	IsDefault  bool
}

// RoutesOutput is the output of Routes.
type RoutesOutput struct {
	Routes       []RouteInfo
	DefaultRoute string
	IndexSize    int
}
