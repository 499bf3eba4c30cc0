package calculator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"lendcore/config"
	"lendcore/native/fees"
	"lendcore/native/lending"
	"lendcore/native/numeric"
	"lendcore/observability/metrics"
)

const instrumentationName = "lendcore/calculator"

// Service wraps the pure lending, savings and fee engines with logging,
// counters and tracing. It holds only configuration and is safe for
// concurrent use.
type Service struct {
	evaluator     *fees.Evaluator
	interest      lending.InterestModel
	reserveFactor numeric.Percentage

	logger  *slog.Logger
	metrics *metrics.CalculatorMetrics
	tracer  trace.Tracer
	latency metric.Float64Histogram
	newID   func() string
	clock   func() time.Time

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option customises a Service.
type Option func(*Service)

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics replaces the process-wide Prometheus counters.
func WithMetrics(m *metrics.CalculatorMetrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithIDGenerator replaces the random UUID used to tag each call.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock replaces time.Now for latency measurement and default timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.clock = fn
		}
	}
}

// WithTracerProvider replaces the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tracerProvider = tp
		}
	}
}

// WithMeterProvider replaces the global OpenTelemetry meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) {
		if mp != nil {
			s.meterProvider = mp
		}
	}
}

// New builds a Service from validated configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	route, err := cfg.FeeRouteConfig()
	if err != nil {
		return nil, fmt.Errorf("calculator: fees: %w", err)
	}
	evaluator, err := fees.NewEvaluator(route)
	if err != nil {
		return nil, fmt.Errorf("calculator: fees: %w", err)
	}
	model, err := cfg.InterestModel()
	if err != nil {
		return nil, fmt.Errorf("calculator: interest: %w", err)
	}
	reserveFactor, err := cfg.ReserveFactor()
	if err != nil {
		return nil, fmt.Errorf("calculator: interest: %w", err)
	}

	s := &Service{
		evaluator:      evaluator,
		interest:       model,
		reserveFactor:  reserveFactor,
		logger:         slog.Default(),
		newID:          func() string { return uuid.NewString() },
		clock:          time.Now,
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.Calculator()
	}
	s.tracer = s.tracerProvider.Tracer(instrumentationName)
	s.latency, err = s.meterProvider.Meter(instrumentationName).Float64Histogram(
		"lendcore.calculator.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Latency of calculator calls."),
	)
	if err != nil {
		return nil, fmt.Errorf("calculator: latency histogram: %w", err)
	}
	s.logger = s.logger.With(slog.String("component", "calculator"))
	return s, nil
}

// Evaluator exposes the configured fee evaluator.
func (s *Service) Evaluator() *fees.Evaluator { return s.evaluator }

// Now returns the current unix time according to the service clock.
func (s *Service) Now() int64 { return s.clock().Unix() }

// call tracks a single calculator invocation from start to finish.
type call struct {
	s     *Service
	ctx   context.Context
	span  trace.Span
	op    string
	id    string
	start time.Time
}

func (s *Service) begin(ctx context.Context, op string) *call {
	if ctx == nil {
		ctx = context.Background()
	}
	id := s.newID()
	ctx, span := s.tracer.Start(ctx, "calculator."+op,
		trace.WithAttributes(attribute.String("calc.id", id)))
	return &call{s: s, ctx: ctx, span: span, op: op, id: id, start: s.clock()}
}

// finish records the outcome exactly once per call.
func (c *call) finish(outcome string, err error, attrs ...slog.Attr) {
	elapsed := c.s.clock().Sub(c.start)
	c.s.metrics.ObserveOperation(c.op, outcome, elapsed)
	c.s.latency.Record(c.ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("operation", c.op),
		attribute.String("outcome", outcome),
	))

	args := make([]any, 0, len(attrs)+4)
	args = append(args,
		slog.String("operation", c.op),
		slog.String("calc_id", c.id),
		slog.String("outcome", outcome),
	)
	for _, attr := range attrs {
		args = append(args, attr)
	}
	if err != nil {
		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, err.Error())
		args = append(args, slog.String("error", err.Error()))
		c.s.logger.WarnContext(c.ctx, "calculation failed", args...)
	} else {
		c.span.SetAttributes(attribute.String("calc.outcome", outcome))
		c.span.SetStatus(codes.Ok, outcome)
		c.s.logger.InfoContext(c.ctx, "calculation complete", args...)
	}
	c.span.End()
}

func (c *call) blocked(issue lending.ValidationIssue, attrs ...slog.Attr) {
	c.s.metrics.ObserveBlocked(issue.String())
	c.span.SetAttributes(attribute.String("calc.issue", issue.String()))
	c.finish(metrics.OutcomeBlocked, nil, append(attrs, slog.String("issue", issue.String()))...)
}
