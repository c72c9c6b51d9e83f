package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/primerlab/primer/pkg/telemetry"
)

const (
	// DefaultFileName is looked up in the working directory when no config
	// path is given.
	DefaultFileName = "primer.yaml"

	// DefaultDataDir is relative to the working directory.
	DefaultDataDir = ".primer"

	// DatabaseFileName is the attempt history file inside DataDir.
	DatabaseFileName = "primer.db"

	// EnvLogLevel overrides logging.level.
	EnvLogLevel = "LOG_LEVEL"

	// EnvDataDir overrides data_dir.
	EnvDataDir = "PRIMER_DATA_DIR"
)

var (
	validate = validator.New()
	schemas  = NewSchemaRegistry()
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Tracing: TracingConfig{
			Enabled:    false,
			Exporter:   "none",
			SampleRate: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled:       true,
			ListenAddress: ":9090",
			Path:          "/metrics",
		},
		Challenge: ChallengeConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// Load reads the config at path over the defaults, applies environment
// overrides and validates the result. An empty path falls back to
// DefaultFileName when it exists and to plain defaults when it does not.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !explicit:
		data = nil
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults, applies environment overrides and
// validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
	if dir := os.Getenv(EnvDataDir); dir != "" {
		c.DataDir = dir
	}
}

// Validate checks struct tags first, then the CUE #Config schema.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := schemas.ValidateAgainstSchema(context.Background(), "#Config", c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DatabasePath resolves the attempt database location.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(c.DataDir, DatabaseFileName)
}

// ScriptPath is where `challenge init` writes a learner script by default.
func (c *Config) ScriptPath(challengeID string) string {
	return filepath.Join(c.DataDir, "challenges", challengeID+".star")
}

// TelemetryConfig maps the file settings onto telemetry defaults.
func (c *Config) TelemetryConfig(version string) *telemetry.Config {
	tc := telemetry.DefaultConfig()
	if version != "" {
		tc.ServiceVersion = version
	}
	tc.Logging.Level = c.Logging.Level
	tc.Logging.Format = c.Logging.Format
	tc.Tracing.Enabled = c.Tracing.Enabled
	tc.Tracing.Exporter = c.Tracing.Exporter
	tc.Tracing.Endpoint = c.Tracing.Endpoint
	tc.Tracing.SamplingRate = c.Tracing.SampleRate
	tc.Metrics.Enabled = c.Metrics.Enabled
	tc.Metrics.ListenAddress = c.Metrics.ListenAddress
	tc.Metrics.Path = c.Metrics.Path
	return tc
}

// Write saves the config as YAML, refusing to replace an existing file.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
