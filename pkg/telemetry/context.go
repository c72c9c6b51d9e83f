package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry bundles the logger, tracer and metrics used by a primer process.
type Telemetry struct {
	Logger  *Logger
	Tracer  *Tracer
	Metrics *Metrics
	Config  *Config
}

// telemetryContextKey is the context key for telemetry instances.
type telemetryContextKey struct{}

// New builds every telemetry component from cfg.
func New(cfg *Config) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	tracer, err := NewTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}

	metrics, err := NewMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	return &Telemetry{
		Logger:  logger,
		Tracer:  tracer,
		Metrics: metrics,
		Config:  cfg,
	}, nil
}

// Discard returns telemetry that records nothing. Tests and library callers
// without a config use it.
func Discard() *Telemetry {
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = false
	tracer, _ := NewTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion)
	metrics, _ := NewMetrics(cfg.Metrics)
	return &Telemetry{
		Logger:  Nop(),
		Tracer:  tracer,
		Metrics: metrics,
		Config:  cfg,
	}
}

// WithContext adds the telemetry instance and its logger to the context.
func (t *Telemetry) WithContext(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, telemetryContextKey{}, t)
	return t.Logger.WithContext(ctx)
}

// FromTelemetryContext retrieves the telemetry instance from the context.
func FromTelemetryContext(ctx context.Context) *Telemetry {
	if t, ok := ctx.Value(telemetryContextKey{}).(*Telemetry); ok {
		return t
	}
	return nil
}

// Shutdown flushes the tracer.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.Tracer.Shutdown(ctx)
}

// Operation is an instrumented unit of work: a span, a logger carrying the
// trace IDs, and a timer.
type Operation struct {
	Ctx    context.Context
	Span   trace.Span
	Logger *Logger
	Timer  *Timer
}

// StartOperation begins an instrumented operation using the telemetry
// stored in ctx. Without telemetry it still returns a usable Operation.
func StartOperation(ctx context.Context, name string, attrs ...attribute.KeyValue) *Operation {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return &Operation{
			Ctx:    ctx,
			Span:   trace.SpanFromContext(context.Background()),
			Logger: FromContext(ctx),
			Timer:  NewTimer(),
		}
	}

	spanCtx, span := tel.Tracer.StartSpan(ctx, name, attrs...)
	logger := tel.Logger.WithField("operation", name).WithSpan(span)

	return &Operation{
		Ctx:    spanCtx,
		Span:   span,
		Logger: logger,
		Timer:  NewTimer(),
	}
}

// End closes the span, marking it failed when err is non-nil.
func (op *Operation) End(err error) {
	if err != nil {
		RecordError(op.Span, err)
		var classed interface{ ErrorClass() string }
		if errors.As(err, &classed) {
			op.Span.SetAttributes(AttrErrorClass.String(classed.ErrorClass()))
		}
	} else {
		RecordSuccess(op.Span)
	}
	op.Span.End()
}
