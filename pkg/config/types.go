package config

import "time"

// Config is the contents of primer.yaml.
type Config struct {
	// DataDir holds the attempt database and learner scripts.
	DataDir string `yaml:"data_dir" json:"data_dir" validate:"required"`

	Database  DatabaseConfig  `yaml:"database" json:"database"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Tracing   TracingConfig   `yaml:"tracing" json:"tracing"`
	Metrics   MetricsConfig   `yaml:"metrics" json:"metrics"`
	Challenge ChallengeConfig `yaml:"challenge" json:"challenge"`
	Lessons   LessonsConfig   `yaml:"lessons" json:"lessons"`
	Policy    PolicyConfig    `yaml:"policy" json:"policy"`
}

// DatabaseConfig locates the SQLite attempt history.
type DatabaseConfig struct {
	// Path defaults to <data_dir>/primer.db. ":memory:" keeps history for
	// the life of the process only.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" validate:"required,oneof=trace debug info warn error"`
	Format string `yaml:"format" json:"format" validate:"required,oneof=console json"`
}

// TracingConfig controls span export.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" json:"enabled"`
	Exporter   string  `yaml:"exporter" json:"exporter" validate:"oneof=otlp stdout none"`
	Endpoint   string  `yaml:"endpoint,omitempty" json:"endpoint,omitempty" validate:"required_if=Exporter otlp"`
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate" validate:"gte=0,lte=1"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	ListenAddress string `yaml:"listen_address" json:"listen_address" validate:"required_if=Enabled true"`
	Path          string `yaml:"path" json:"path" validate:"required,startswith=/"`
}

// ChallengeConfig controls the Starlark and WASI graders.
type ChallengeConfig struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout" validate:"gt=0"`

	// MemoryLimitPages caps WASI programs in 64KB pages; 0 uses 256.
	MemoryLimitPages uint32 `yaml:"memory_limit_pages,omitempty" json:"memory_limit_pages,omitempty" validate:"lte=65536"`
}

// LessonsConfig selects which lessons `run --all` includes.
type LessonsConfig struct {
	Disabled []string `yaml:"disabled,omitempty" json:"disabled,omitempty" validate:"dive,required"`
}

// PolicyConfig adds Rego advice policies to the built-in ones.
type PolicyConfig struct {
	// Paths are .rego files or directories of them.
	Paths []string `yaml:"paths,omitempty" json:"paths,omitempty" validate:"dive,required"`

	// Disabled names built-in or loaded policies to skip.
	Disabled []string `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}
