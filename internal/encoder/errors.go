package encoder

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"intent-router/pkg/ollama"
	"intent-router/pkg/voyage"
)

var (
	ErrEmptyInput   = errors.New("empty input")
	ErrInputTooLong = errors.New("input too long")
	ErrNoTokens     = errors.New("no encodable tokens")
	ErrBadDimension = errors.New("unexpected embedding dimension")
)

// Kind classifies an encoding failure.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindTransient
	KindTimeout
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindTransient:
		return "transient"
	case KindTimeout:
		return "timeout"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Error is returned by every Encoder in this package.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("encoder %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of an encoding error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var encErr *Error
	if errors.As(err, &encErr) {
		return encErr.Kind, true
	}
	return 0, false
}

// IsTransient reports whether a single retry is worthwhile.
func IsTransient(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindTransient
}

func invalidInput(err error) *Error {
	return &Error{Kind: KindInvalidInput, Err: err}
}

// classify wraps a backend failure with the kind callers act on.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := KindOf(err); ok {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindBackend, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &Error{Kind: KindTimeout, Err: err}
		}
		return &Error{Kind: KindTransient, Err: err}
	}

	var vErr *voyage.APIError
	if errors.As(err, &vErr) {
		return &Error{Kind: kindForStatus(vErr.StatusCode), Err: err}
	}
	var oErr *ollama.APIError
	if errors.As(err, &oErr) {
		return &Error{Kind: kindForStatus(oErr.StatusCode), Err: err}
	}

	return &Error{Kind: KindBackend, Err: err}
}

func kindForStatus(code int) Kind {
	if code == http.StatusTooManyRequests || code >= http.StatusInternalServerError {
		return KindTransient
	}
	return KindBackend
}
