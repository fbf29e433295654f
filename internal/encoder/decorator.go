package encoder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// base forwards Dimension and Model to the wrapped encoder.
type base struct {
	next Encoder
}

func (b base) Dimension() int { return b.next.Dimension() }
func (b base) Model() string  { return b.next.Model() }

// Validating rejects empty input and input longer than maxChars runes.
type Validating struct {
	base
	maxChars int
}

// NewValidating wraps next. maxChars <= 0 disables the length check.
func NewValidating(next Encoder, maxChars int) *Validating {
	return &Validating{base: base{next}, maxChars: maxChars}
}

func (v *Validating) Encode(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalidInput(ErrEmptyInput)
	}
	if v.maxChars > 0 {
		if n := utf8.RuneCountInString(text); n > v.maxChars {
			return nil, invalidInput(fmt.Errorf("%w: %d > %d characters", ErrInputTooLong, n, v.maxChars))
		}
	}
	return v.next.Encode(ctx, text)
}

// Cached memoises successful encodings in an LRU.
type Cached struct {
	base
	cache *lru.Cache[string, []float32]
}

func NewCached(next Encoder, size int) (*Cached, error) {
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &Cached{base: base{next}, cache: cache}, nil
}

func (c *Cached) Encode(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.cache.Get(text); ok {
		return append([]float32(nil), vec...), nil
	}
	vec, err := c.next.Encode(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, append([]float32(nil), vec...))
	return vec, nil
}

// RateLimited throttles calls to the wrapped encoder.
type RateLimited struct {
	base
	limiter *rate.Limiter
}

func NewRateLimited(next Encoder, perSec float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{base: base{next}, limiter: rate.NewLimiter(rate.Limit(perSec), burst)}
}

func (r *RateLimited) Encode(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, &Error{Kind: KindBackend, Err: err}
		}
		// Wait also fails early when the reservation would outlive the deadline.
		return nil, &Error{Kind: KindTimeout, Err: err}
	}
	return r.next.Encode(ctx, text)
}

// Timeout bounds each call to the wrapped encoder.
type Timeout struct {
	base
	d time.Duration
}

func NewTimeout(next Encoder, d time.Duration) *Timeout {
	return &Timeout{base: base{next}, d: d}
}

func (t *Timeout) Encode(ctx context.Context, text string) ([]float32, error) {
	if t.d <= 0 {
		return t.next.Encode(ctx, text)
	}
	cctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()

	vec, err := t.next.Encode(cctx, text)
	if err != nil && errors.Is(cctx.Err(), context.DeadlineExceeded) {
		if k, _ := KindOf(err); k != KindTimeout {
			return nil, &Error{Kind: KindTimeout, Err: err}
		}
	}
	return vec, err
}
