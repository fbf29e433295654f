package router

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"intent-router/internal/encoder"
	"intent-router/internal/model"
)

// Route encodes query, searches the current index and picks the route with
// the highest per-route maximum score. A transient encoder failure is
// retried once; every other encoder error is returned as is.
func (r *SemanticRouter) Route(ctx context.Context, query string) (model.RouteDecision, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "router.Route")
	defer span.End()

	if strings.TrimSpace(query) == "" {
		return model.RouteDecision{}, ErrInvalidQuery
	}

	vec, err := r.enc.Encode(ctx, query)
	if encoder.IsTransient(err) {
		r.l.Warnf(ctx, "%s: transient encoder error, retrying once: %v", LogPrefixRoute, err)
		vec, err = r.enc.Encode(ctx, query)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode failed")
		r.l.Errorf(ctx, "%s: encode: %v", LogPrefixRoute, err)
		return model.RouteDecision{}, err
	}

	idx, release := r.Acquire()
	hits, err := idx.Search(ctx, vec, r.cfg.TopK)
	release()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return model.RouteDecision{}, fmt.Errorf("%s: search: %w", LogPrefixRoute, err)
	}

	decision := model.RouteDecision{Query: query, Threshold: r.cfg.DefaultThreshold}
	best := make(map[string]float64)
	for _, h := range hits {
		name := h.Entry.RouteName
		if r.reg.Position(name) < 0 {
			r.l.Warnf(ctx, "%s: skipping hit for unknown route %q", LogPrefixRoute, name)
			continue
		}
		decision.Hits = append(decision.Hits, model.SupportingHit{
			RouteName: name,
			Utterance: h.Entry.Utterance,
			Score:     h.Score,
		})
		if s, ok := best[name]; !ok || h.Score > s {
			best[name] = h.Score
		}
	}

	for name, score := range best {
		if decision.BestRoute == "" || score > decision.Confidence ||
			(score == decision.Confidence && r.reg.Position(name) < r.reg.Position(decision.BestRoute)) {
			decision.BestRoute = name
			decision.Confidence = score
		}
	}

	if decision.BestRoute != "" {
		decision.Threshold = r.reg.Threshold(decision.BestRoute, r.cfg.DefaultThreshold)
		if decision.Confidence >= decision.Threshold {
			decision.RouteName = decision.BestRoute
		}
	}

	span.SetAttributes(
		attribute.String("router.route", decision.RouteName),
		attribute.String("router.best_route", decision.BestRoute),
		attribute.Float64("router.confidence", decision.Confidence),
		attribute.Int("router.hits", len(decision.Hits)),
	)
	r.l.Infof(ctx, "%s: query=%q route=%q confidence=%.4f threshold=%.2f", LogPrefixRoute, query, decision.RouteName, decision.Confidence, decision.Threshold)
	return decision, nil
}
