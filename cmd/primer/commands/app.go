package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/primerlab/primer/pkg/config"
	"github.com/primerlab/primer/pkg/course"
	"github.com/primerlab/primer/pkg/policy"
	"github.com/primerlab/primer/pkg/stores"
	"github.com/primerlab/primer/pkg/telemetry"
)

// app bundles what a command needs after the config has been read.
type app struct {
	cfg    *config.Config
	tel    *telemetry.Telemetry
	store  *stores.SQLiteStore
	runner *course.Runner
}

type appOptions struct {
	// history opens the attempt store unless --no-history is set.
	history bool

	// forceMetrics enables metrics regardless of the config file.
	forceMetrics bool

	// metricsAddress overrides metrics.listen_address when set.
	metricsAddress string
}

// shutdownTimeout bounds the telemetry flush once a command returns.
const shutdownTimeout = 5 * time.Second

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, course.NewInvalidError("config is not valid", err)
	}
	return cfg, nil
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if jsonOutput {
		cfg.Logging.Format = "json"
	}
	if opts.forceMetrics {
		cfg.Metrics.Enabled = true
	}
	if opts.metricsAddress != "" {
		cfg.Metrics.ListenAddress = opts.metricsAddress
	}

	tel, err := telemetry.New(cfg.TelemetryConfig(buildVersion))
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	a := &app{cfg: cfg, tel: tel}

	if opts.history && !noHistory {
		store, err := openStore(ctx, cfg)
		if err != nil {
			shutdownTelemetry(ctx, tel)
			return nil, err
		}
		a.store = store
	}

	reg := course.DefaultRegistry()
	for _, id := range cfg.Lessons.Disabled {
		if _, err := reg.Get(id); err != nil {
			tel.Logger.WithField("lesson", id).Warn("Disabled lesson does not exist")
		}
	}

	runnerCfg := course.RunnerConfig{
		Telemetry: tel,
		Skip:      cfg.Lessons.Disabled,
	}
	if a.store != nil {
		runnerCfg.Store = a.store
	}
	a.runner = course.NewRunner(reg, runnerCfg)

	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*stores.SQLiteStore, error) {
	path := cfg.DatabasePath()
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	store, err := stores.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open attempt history: %w", err)
	}
	return store, nil
}

// context carries the telemetry so packages without an explicit handle
// (the challenge watcher) can log through it.
func (a *app) context(ctx context.Context) context.Context {
	return a.tel.WithContext(ctx)
}

// Close releases the store and flushes telemetry. The flush outlives a
// cancelled ctx so spans of an interrupted command are still exported.
func (a *app) Close(ctx context.Context) {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close attempt history")
		}
	}
	shutdownTelemetry(ctx, a.tel)
}

// flushContext keeps ctx's values but drops its cancellation, bounded by
// shutdownTimeout.
func flushContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
}

func shutdownTelemetry(ctx context.Context, tel *telemetry.Telemetry) {
	ctx, cancel := flushContext(ctx)
	defer cancel()

	if err := tel.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to flush telemetry")
	}
}

// advisor builds the policy engine with the policies named in the config.
func (a *app) advisor(ctx context.Context) (*policy.Engine, error) {
	return newAdvisor(ctx, a.cfg, a.tel.Logger)
}

func newAdvisor(ctx context.Context, cfg *config.Config, logger *telemetry.Logger) (*policy.Engine, error) {
	engine, err := policy.NewEngine(*logger.Zerolog())
	if err != nil {
		return nil, err
	}
	if len(cfg.Policy.Paths) > 0 {
		if err := engine.LoadPolicies(ctx, cfg.Policy.Paths); err != nil {
			return nil, course.NewInvalidError("failed to load policies", err)
		}
	}
	for _, name := range cfg.Policy.Disabled {
		if err := engine.SetEnabled(name, false); err != nil {
			return nil, course.NewInvalidError("policy.disabled", err)
		}
	}
	return engine, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseTrack(reg *course.Registry, name string) (course.Track, error) {
	if name == "" {
		return "", nil
	}
	for _, t := range reg.Tracks() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", course.NewInvalidError(fmt.Sprintf("unknown track %q", name), nil)
}
