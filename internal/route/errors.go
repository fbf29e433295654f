package route

import (
	"errors"
	"fmt"
)

var (
	ErrUnnamedRoute      = errors.New("route name is required")
	ErrDuplicateRoute    = errors.New("duplicate route name")
	ErrDimensionMismatch = errors.New("encoder dimension does not match index dimension")
	ErrInvalidSyncMode   = errors.New("invalid sync mode")
)

// EmptyRouteError reports a route declared without utterances.
type EmptyRouteError struct {
	Route string
}

func (e *EmptyRouteError) Error() string {
	return fmt.Sprintf("route %q has no utterances", e.Route)
}
