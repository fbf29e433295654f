package chain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTransport = errors.New("unknown chain transport")
	ErrMissingTarget    = errors.New("chain target is required")
	ErrDuplicateChain   = errors.New("duplicate chain for route")
	ErrNoNATS           = errors.New("nats connection required")
)

// StatusError is returned when an http handler answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chain: status %d: %s", e.StatusCode, e.Body)
}

// RemoteError carries the error reported inside a Reply.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "chain: remote error: " + e.Message
}
