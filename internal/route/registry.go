// Package route holds the declared routes and keeps a vector index in
// step with them.
package route

import (
	"fmt"

	"intent-router/internal/model"
)

// Registry is the immutable, ordered set of declared routes.
type Registry struct {
	routes []model.Route
	pos    map[string]int
}

// New validates names and deep-copies routes. Empty utterance lists are
// accepted here and rejected by Sync.
func New(routes []model.Route) (*Registry, error) {
	r := &Registry{
		routes: make([]model.Route, 0, len(routes)),
		pos:    make(map[string]int, len(routes)),
	}
	for _, rt := range routes {
		if rt.Name == "" {
			return nil, ErrUnnamedRoute
		}
		if _, dup := r.pos[rt.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRoute, rt.Name)
		}
		r.pos[rt.Name] = len(r.routes)
		r.routes = append(r.routes, rt.Clone())
	}
	return r, nil
}

// Routes returns copies of the routes in declaration order.
func (r *Registry) Routes() []model.Route {
	out := make([]model.Route, len(r.routes))
	for i, rt := range r.routes {
		out[i] = rt.Clone()
	}
	return out
}

func (r *Registry) Get(name string) (model.Route, bool) {
	i, ok := r.pos[name]
	if !ok {
		return model.Route{}, false
	}
	return r.routes[i].Clone(), true
}

// Position is the declaration index of name, or -1.
func (r *Registry) Position(name string) int {
	if i, ok := r.pos[name]; ok {
		return i
	}
	return -1
}

// Threshold returns the route's own threshold or def.
func (r *Registry) Threshold(name string, def float64) float64 {
	if i, ok := r.pos[name]; ok && r.routes[i].Threshold != nil {
		return *r.routes[i].Threshold
	}
	return def
}

func (r *Registry) Len() int { return len(r.routes) }

// keys lists every (route, utterance) pair in declaration order, without
// repeats.
func (r *Registry) keys() []model.EntryKey {
	seen := make(map[model.EntryKey]bool)
	var out []model.EntryKey
	for _, rt := range r.routes {
		for _, u := range rt.Utterances {
			k := model.EntryKey{RouteName: rt.Name, Utterance: u}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
