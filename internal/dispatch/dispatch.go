// Package dispatch turns a route decision into a response by invoking the
// handler wired to the chosen route.
package dispatch

import (
	"context"
	"fmt"
	"sort"

	"intent-router/internal/model"
	"intent-router/pkg/log"
)

// Dispatcher maps route names to handlers.
type Dispatcher struct {
	l            log.Logger
	handlers     map[string]Handler
	defaultRoute string
	unresolved   string
}

func New(l log.Logger, handlers map[string]Handler, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		l:          l,
		handlers:   make(map[string]Handler, len(handlers)),
		unresolved: DefaultUnresolvedMessage,
	}
	for name, h := range handlers {
		d.handlers[name] = h
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch answers decision. A matched route without a handler and an
// unmatched query are normal outcomes; only a failing handler is an error.
func (d *Dispatcher) Dispatch(ctx context.Context, decision model.RouteDecision) (Result, error) {
	if decision.Matched() {
		return d.invoke(ctx, decision.RouteName, decision.Query, OutcomeRouted)
	}

	if d.defaultRoute != "" {
		d.l.Debugf(ctx, "%s: no confident match, falling back to %s", LogPrefixDispatch, d.defaultRoute)
		return d.invoke(ctx, d.defaultRoute, decision.Query, OutcomeFallback)
	}

	return Result{Response: d.unresolved, Outcome: OutcomeUnresolved}, nil
}

func (d *Dispatcher) invoke(ctx context.Context, route, query string, outcome Outcome) (Result, error) {
	h, ok := d.handlers[route]
	if !ok {
		d.l.Warnf(ctx, "%s: no handler wired for route %s", LogPrefixDispatch, route)
		return Result{Response: fmt.Sprintf(placeholderFormat, route), Outcome: OutcomeUnimplemented}, nil
	}

	resp, err := h(ctx, query)
	if err != nil {
		d.l.Errorf(ctx, "%s: handler %s: %v", LogPrefixDispatch, route, err)
		return Result{}, fmt.Errorf("%w: %s: %w", ErrHandlerFailed, route, err)
	}
	return Result{Response: resp, Handler: route, Outcome: outcome}, nil
}

// Has reports whether a handler is wired for route.
func (d *Dispatcher) Has(route string) bool {
	_, ok := d.handlers[route]
	return ok
}

// DefaultRoute returns the configured fallback route.
func (d *Dispatcher) DefaultRoute() string { return d.defaultRoute }

// Handlers lists wired route names, sorted.
func (d *Dispatcher) Handlers() []string {
	out := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
