// Package wasi runs WebAssembly programs built for wasm32-wasi (for
// example a C lesson compiled with `clang --target=wasm32-wasi`) in a
// sandbox and captures what they print.
package wasi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

const (
	// DefaultTimeout bounds one program run.
	DefaultTimeout = 5 * time.Second

	// DefaultMemoryLimitPages is 16MB in 64KB pages.
	DefaultMemoryLimitPages = 256
)

// ErrTimeout is returned when a program is still running at its deadline.
var ErrTimeout = errors.New("program exceeded its time limit")

// Config contains configuration for the runner.
type Config struct {
	Timeout time.Duration

	// MemoryLimitPages caps linear memory in 64KB pages.
	MemoryLimitPages uint32
}

// Execution is the observable result of one run.
type Execution struct {
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr,omitempty"`
	ExitCode uint32        `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// Runner executes WASI command modules. Each run gets a fresh runtime.
type Runner struct {
	timeout          time.Duration
	memoryLimitPages uint32
}

// NewRunner creates a runner, filling in defaults.
func NewRunner(cfg Config) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MemoryLimitPages == 0 {
		cfg.MemoryLimitPages = DefaultMemoryLimitPages
	}
	return &Runner{
		timeout:          cfg.Timeout,
		memoryLimitPages: cfg.MemoryLimitPages,
	}
}

// Run instantiates module, which runs its _start export, and returns what
// it wrote. A non-zero exit is reported in the Execution, not as an error.
func (r *Runner) Run(ctx context.Context, name string, module []byte) (*Execution, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	runtimeConfig := wazero.NewRuntimeConfig().
		WithMemoryLimitPages(r.memoryLimitPages).
		WithCloseOnContextDone(true)

	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeConfig)
	defer runtime.Close(context.Background())

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
	}

	compiled, err := runtime.CompileModule(ctx, module)
	if err != nil {
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}

	var stdout, stderr bytes.Buffer
	moduleConfig := wazero.NewModuleConfig().
		WithName(name).
		WithArgs(name).
		WithStdout(&stdout).
		WithStderr(&stderr)

	start := time.Now()
	mod, err := runtime.InstantiateModule(ctx, compiled, moduleConfig)
	exec := &Execution{Duration: time.Since(start)}
	if mod != nil {
		defer mod.Close(context.Background())
	}

	if err != nil {
		var exitErr *sys.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("program trapped: %w", err)
		}
		switch exitErr.ExitCode() {
		case sys.ExitCodeDeadlineExceeded, sys.ExitCodeContextCanceled:
			return nil, ErrTimeout
		}
		exec.ExitCode = exitErr.ExitCode()
	}

	exec.Stdout = stdout.String()
	exec.Stderr = stderr.String()
	return exec, nil
}
