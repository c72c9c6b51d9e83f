package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc/credentials/insecure"
)

// Tracer hands out spans for lesson runs and challenge grading. It is a
// no-op unless tracing is enabled with a real exporter.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewTracer builds the tracer described by cfg.
func NewTracer(cfg TracingConfig, serviceName, serviceVersion string) (*Tracer, error) {
	if !cfg.Enabled || cfg.Exporter == "none" {
		return &Tracer{tracer: noop.NewTracerProvider().Tracer(serviceName)}, nil
	}

	exporter, err := newSpanExporter(cfg)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(serviceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(cfg.ExportTimeout)),
	)
	return &Tracer{provider: provider, tracer: provider.Tracer(serviceName)}, nil
}

func newSpanExporter(cfg TracingConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "stdout":
		// stderr keeps spans out of lesson output.
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("stdout trace exporter: %w", err)
		}
		return exp, nil
	case "otlp":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
		}
		exp, err := otlptracegrpc.New(context.Background(), opts...)
		if err != nil {
			return nil, fmt.Errorf("otlp trace exporter %s: %w", cfg.Endpoint, err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.Exporter)
	}
}

// StartSpan starts a span with the given attributes.
func (t *Tracer) StartSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
}

// StartLessonSpan starts a span for one lesson run.
func (t *Tracer) StartLessonSpan(ctx context.Context, lessonID, track, mode string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, "lesson.run",
		AttrLessonID.String(lessonID),
		AttrLessonTrack.String(track),
		AttrAttemptMode.String(mode),
	)
}

// StartChallengeSpan starts a span for grading one submission. digest is
// the submission's BLAKE2b-256 hex digest.
func (t *Tracer) StartChallengeSpan(ctx context.Context, challengeID, scriptPath, digest string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, "challenge.grade",
		AttrLessonID.String(challengeID),
		AttrScriptPath.String(scriptPath),
		AttrScriptDigest.String(digest),
	)
}

// RecordError records an error on the span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// RecordSuccess marks the span as successful.
func RecordSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// Shutdown flushes pending spans. It is a no-op for a disabled tracer.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// Attribute keys used on primer spans.
var (
	AttrLessonID     = attribute.Key("lesson.id")
	AttrLessonTrack  = attribute.Key("lesson.track")
	AttrAttemptID    = attribute.Key("attempt.id")
	AttrAttemptMode  = attribute.Key("attempt.mode")
	AttrLessonPassed = attribute.Key("lesson.passed")
	AttrScriptPath   = attribute.Key("script.path")
	AttrScriptDigest = attribute.Key("script.digest")
	AttrErrorClass   = attribute.Key("error.class")
)
