package dispatch

import "context"

// Handler answers a query routed to it.
type Handler func(ctx context.Context, query string) (string, error)

// Outcome says how a response was produced.
type Outcome string

const (
	OutcomeRouted        Outcome = "routed"
	OutcomeFallback      Outcome = "fallback"
	OutcomeUnimplemented Outcome = "unimplemented"
	OutcomeUnresolved    Outcome = "unresolved"
)

// Result is the outcome of one dispatch.
type Result struct {
	Response string
	Handler  string // Route whose handler ran, empty when none did
	Outcome  Outcome
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDefaultRoute sends unmatched queries to the handler of route.
func WithDefaultRoute(route string) Option {
	return func(d *Dispatcher) { d.defaultRoute = route }
}

// WithUnresolvedMessage replaces the reply used when nothing can answer.
func WithUnresolvedMessage(msg string) Option {
	return func(d *Dispatcher) { d.unresolved = msg }
}
