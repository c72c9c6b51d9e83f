package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/trace"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: true},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "bad exporter", mutate: func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "jaeger"
		}, wantErr: true},
		{name: "otlp without endpoint", mutate: func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "otlp"
		}, wantErr: true},
		{name: "sampling out of range", mutate: func(c *Config) { c.Tracing.SamplingRate = 2 }, wantErr: true},
		{name: "metrics without address", mutate: func(c *Config) { c.Metrics.ListenAddress = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoggerJSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggingConfig{Level: "debug", Format: "json"}, &buf)

	logger.WithLesson("needle", "python").WithAttempt("a-1").Info("lesson finished")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if line["lesson"] != "needle" || line["track"] != "python" || line["attempt_id"] != "a-1" {
		t.Errorf("missing fields in %v", line)
	}
	if line["message"] != "lesson finished" {
		t.Errorf("message = %v", line["message"])
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestLoggerScriptAndSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggingConfig{Format: "json"}, &buf)

	// A span outside any trace adds no ids.
	logger.WithScript("needle.star").WithSpan(trace.SpanFromContext(context.Background())).Info("graded")
	logger.Debug("below the default level")

	var line map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line); err != nil {
		t.Fatalf("want exactly one JSON line: %v (%s)", err, buf.String())
	}
	if line["script"] != "needle.star" {
		t.Errorf("script = %v", line["script"])
	}
	if _, ok := line["trace_id"]; ok {
		t.Errorf("unexpected trace_id in %v", line)
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggingConfig{Level: "info", Format: "json"}, &buf)

	ctx := logger.WithContext(context.Background())
	FromContext(ctx).Info("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("context logger did not write: %s", buf.String())
	}

	// A bare context yields a no-op logger rather than nil.
	FromContext(context.Background()).Info("dropped")
}

func TestMetricsRecording(t *testing.T) {
	m, err := NewMetrics(DefaultConfig().Metrics)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	m.RecordLessonRun("needle", "python", true, 2*time.Millisecond)
	m.RecordLessonRun("needle", "python", false, time.Millisecond)
	m.RecordLessonRun("needle", "python", true, time.Millisecond)
	m.RecordChallengeGrade("box", false)
	m.RecordError("script")

	if got := testutil.ToFloat64(m.lessonsRun.WithLabelValues("needle", "python", ResultPassed)); got != 2 {
		t.Errorf("passed runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.challengeGrades.WithLabelValues("box", ResultFailed)); got != 1 {
		t.Errorf("failed grades = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "primer_lessons_run_total") {
		t.Errorf("metrics endpoint missing lesson counter:\n%s", rec.Body.String())
	}
}

func TestDisabledMetricsAreNoop(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	m.RecordLessonRun("box", "python", true, time.Second)
	m.RecordError("internal")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Errorf("disabled handler status = %d, want 404", rec.Code)
	}
}

type classedErr struct{}

func (classedErr) Error() string      { return "boom" }
func (classedErr) ErrorClass() string { return "script" }

func TestStartOperation(t *testing.T) {
	// Without telemetry in the context the operation is still usable.
	op := StartOperation(context.Background(), "grade")
	op.End(errors.New("boom"))

	tel := Discard()
	ctx := tel.WithContext(context.Background())
	op = StartOperation(ctx, "grade")
	if op.Logger == nil || op.Timer == nil {
		t.Fatal("operation missing logger or timer")
	}
	op.End(classedErr{})

	if FromTelemetryContext(ctx) != tel {
		t.Error("telemetry not stored in context")
	}
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewTracer(t *testing.T) {
	tests := []struct {
		name         string
		cfg          TracingConfig
		wantProvider bool
		wantErr      bool
	}{
		{name: "disabled", cfg: TracingConfig{Enabled: false, Exporter: "stdout"}},
		{name: "none exporter", cfg: TracingConfig{Enabled: true, Exporter: "none"}},
		{name: "stdout", cfg: TracingConfig{Enabled: true, Exporter: "stdout", SamplingRate: 1, ExportTimeout: time.Second}, wantProvider: true},
		{name: "unknown exporter", cfg: TracingConfig{Enabled: true, Exporter: "zipkin"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTracer(tt.cfg, "primer-test", "test")
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewTracer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (tr.provider != nil) != tt.wantProvider {
				t.Errorf("provider set = %v, want %v", tr.provider != nil, tt.wantProvider)
			}

			_, span := tr.StartChallengeSpan(context.Background(), "box", "box.star", "abc")
			span.End()
			if err := tr.Shutdown(context.Background()); err != nil {
				t.Errorf("Shutdown() error = %v", err)
			}
		})
	}
}
