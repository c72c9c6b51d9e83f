package telemetry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config is the telemetry setup of one primer process.
type Config struct {
	ServiceName    string `validate:"required"`
	ServiceVersion string

	Logging LoggingConfig
	Tracing TracingConfig
	Metrics MetricsConfig
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `validate:"oneof=trace debug info warn error"`
	Format string `validate:"oneof=console json"`

	// Output is stdout, stderr or a file path.
	Output string `validate:"required"`

	// EnableCaller adds file:line to every entry.
	EnableCaller bool

	TimeFormat string `validate:"omitempty,oneof=unix unixms rfc3339"`
}

// TracingConfig configures lesson and grading spans.
type TracingConfig struct {
	Enabled  bool
	Exporter string `validate:"oneof=otlp stdout none"`

	// Endpoint is the OTLP gRPC collector, e.g. "localhost:4317".
	Endpoint string `validate:"required_if=Exporter otlp"`

	SamplingRate  float64 `validate:"gte=0,lte=1"`
	ExportTimeout time.Duration
	Insecure      bool
}

// MetricsConfig configures the Prometheus registry and its HTTP endpoint.
type MetricsConfig struct {
	Enabled       bool
	ListenAddress string `validate:"required_if=Enabled true"`
	Path          string
	Namespace     string

	// Buckets bound the lesson duration histogram, in seconds.
	Buckets []float64 `validate:"dive,gt=0"`
}

// DefaultConfig returns the configuration used without a config file.
// Tracing is off.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:    "primer",
		ServiceVersion: "dev",
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			Output:     "stderr",
			TimeFormat: "rfc3339",
		},
		Tracing: TracingConfig{
			Exporter:      "none",
			SamplingRate:  1.0,
			ExportTimeout: 30 * time.Second,
			Insecure:      true,
		},
		Metrics: MetricsConfig{
			Enabled:       true,
			ListenAddress: ":9090",
			Path:          "/metrics",
			Namespace:     "primer",
			Buckets:       []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	}
}

// Validate checks the struct tags and names every failing field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid telemetry config: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s=%v (%s)", fe.Namespace(), fe.Value(), fe.Tag()))
	}
	return fmt.Errorf("invalid telemetry config: %s", strings.Join(fields, ", "))
}
