package calculator

import (
	"context"
	"log/slog"

	"lendcore/native/fees"
	"lendcore/observability/metrics"
)

// Quote is a fee quote tagged with the route class and the call id, which
// callers attach to the swap they build.
type Quote struct {
	ID    string
	Class fees.RouteClass
	Fee   fees.FeeQuote
}

// QuoteRoute prices a swap route.
func (s *Service) QuoteRoute(ctx context.Context, route fees.Route) Quote {
	c := s.begin(ctx, "quote_route")
	q := Quote{
		ID:    c.id,
		Class: s.evaluator.Classify(route),
		Fee:   s.evaluator.Evaluate(route),
	}
	s.metrics.ObserveFeeQuote(q.Class.String(), q.Fee.IntegratorKey)
	c.finish(metrics.OutcomeOK, nil,
		slog.String("class", q.Class.String()),
		slog.String("integrator_key", q.Fee.IntegratorKey),
		slog.String("fee", q.Fee.Fee.String()),
	)
	return q
}
