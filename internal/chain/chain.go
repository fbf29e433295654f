// Package chain provides route handlers that call out to the services
// answering each route.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"intent-router/internal/dispatch"
	"intent-router/pkg/log"
	"intent-router/pkg/natsutil"
)

const DefaultTimeout = 30 * time.Second

// Build returns one handler per spec. nc may be nil when no spec uses nats.
func Build(specs []Spec, nc natsutil.Requester, l log.Logger) (map[string]dispatch.Handler, error) {
	handlers := make(map[string]dispatch.Handler, len(specs))
	for _, s := range specs {
		if _, dup := handlers[s.Route]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateChain, s.Route)
		}
		timeout := s.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}

		switch s.Transport {
		case TransportHTTP:
			if s.URL == "" {
				return nil, fmt.Errorf("%w: %s needs url", ErrMissingTarget, s.Route)
			}
			handlers[s.Route] = HTTP(s.URL, timeout)
		case TransportNATS:
			if s.Subject == "" {
				return nil, fmt.Errorf("%w: %s needs subject", ErrMissingTarget, s.Route)
			}
			if nc == nil {
				return nil, fmt.Errorf("%w: %s", ErrNoNATS, s.Route)
			}
			handlers[s.Route] = NATS(nc, s.Subject, timeout)
		case TransportStatic:
			handlers[s.Route] = Static(s.Response)
		default:
			return nil, fmt.Errorf("%w: %q for %s", ErrUnknownTransport, s.Transport, s.Route)
		}
		l.Infof(context.Background(), "chain: wired %s handler for route %s", s.Transport, s.Route)
	}
	return handlers, nil
}

// HTTP posts the query as JSON to url.
func HTTP(url string, timeout time.Duration) dispatch.Handler {
	client := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return func(ctx context.Context, query string) (string, error) {
		body, err := json.Marshal(Request{Query: query})
		if err != nil {
			return "", err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("chain: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return "", fmt.Errorf("chain: call %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return "", &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
		}

		var reply Reply
		if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
			return "", fmt.Errorf("chain: decode reply: %w", err)
		}
		if reply.Error != "" {
			return "", &RemoteError{Message: reply.Error}
		}
		return reply.Answer, nil
	}
}

// NATS sends the query as a request on subject.
func NATS(nc natsutil.Requester, subject string, timeout time.Duration) dispatch.Handler {
	return func(ctx context.Context, query string) (string, error) {
		reply, err := natsutil.Request[Request, Reply](ctx, nc, subject, Request{Query: query}, timeout)
		if err != nil {
			return "", fmt.Errorf("chain: request %s: %w", subject, err)
		}
		if reply.Error != "" {
			return "", &RemoteError{Message: reply.Error}
		}
		return reply.Answer, nil
	}
}

// Static always answers text.
func Static(text string) dispatch.Handler {
	return func(context.Context, string) (string, error) {
		return text, nil
	}
}
