package challenge

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"reflect"
	"time"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.opentelemetry.io/otel/trace"

	"github.com/primerlab/primer/pkg/course"
	"github.com/primerlab/primer/pkg/telemetry"
	"github.com/primerlab/primer/pkg/wasi"
)

// DefaultTimeout bounds a single grading run.
const DefaultTimeout = 5 * time.Second

func init() {
	// Learner scripts are written as Python: top-level loops, while loops
	// and rebinding globals must all resolve.
	resolve.AllowGlobalReassign = true
	resolve.AllowRecursion = true
}

// GraderConfig configures a Grader.
type GraderConfig struct {
	Timeout time.Duration

	// MemoryLimitPages caps WASI programs, in 64KB pages.
	MemoryLimitPages uint32

	// Registry supplies reference narratives for WASI grading. Defaults to
	// course.DefaultRegistry().
	Registry *course.Registry

	// Telemetry defaults to telemetry.Discard().
	Telemetry *telemetry.Telemetry
}

// Grader executes learner scripts and checks them against the reference
// solutions.
type Grader struct {
	timeout  time.Duration
	tel      *telemetry.Telemetry
	logger   *telemetry.Logger
	registry *course.Registry
	wasm     *wasi.Runner
}

// CaseResult is the outcome of one fixture.
type CaseResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Want   string `json:"want"`
	Got    string `json:"got,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Result is the outcome of grading one script.
type Result struct {
	ChallengeID string        `json:"challenge_id"`
	ScriptPath  string        `json:"script_path"`
	Program     string        `json:"program,omitempty"`
	Digest      string        `json:"digest"`
	Passed      bool          `json:"passed"`
	Cases       []CaseResult  `json:"cases"`
	Output      string        `json:"output,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// Failed returns the cases that did not pass.
func (r *Result) Failed() []CaseResult {
	var failed []CaseResult
	for _, c := range r.Cases {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// NewGrader creates a grader.
func NewGrader(cfg GraderConfig) *Grader {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tel := cfg.Telemetry
	if tel == nil {
		tel = telemetry.Discard()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = course.DefaultRegistry()
	}
	return &Grader{
		timeout:  timeout,
		tel:      tel,
		logger:   tel.Logger.NewComponentLogger("grader"),
		registry: registry,
		wasm:     wasi.NewRunner(wasi.Config{Timeout: timeout, MemoryLimitPages: cfg.MemoryLimitPages}),
	}
}

// GradeFile reads and grades the script at path.
func (g *Grader) GradeFile(ctx context.Context, id, path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, course.NewInvalidError("failed to read script", err).WithLesson(id)
	}
	return g.grade(ctx, id, path, src)
}

// Grade grades an in-memory script.
func (g *Grader) Grade(ctx context.Context, id string, script []byte) (*Result, error) {
	return g.grade(ctx, id, id+".star", script)
}

func (g *Grader) grade(ctx context.Context, id, filename string, src []byte) (result *Result, err error) {
	ch, err := Lookup(id)
	if err != nil {
		return nil, err
	}

	ctx, span := g.tel.Tracer.StartChallengeSpan(ctx, id, filename, Digest(src))
	logger := g.logger.WithLesson(id, string(course.TrackPython)).WithScript(filename)
	timer := telemetry.NewTimer()
	defer func() { g.finish(span, logger, id, result, err) }()

	runCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var out bytes.Buffer
	thread := &starlark.Thread{
		Name: "primer:" + id,
		Print: func(_ *starlark.Thread, msg string) {
			out.WriteString(msg)
			out.WriteByte('\n')
		},
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-runCtx.Done():
			thread.Cancel(runCtx.Err().Error())
		case <-done:
		}
	}()

	env, err := predeclared(ch.Predeclared)
	if err != nil {
		return nil, course.NewInternalError("failed to build script globals", err).WithLesson(id)
	}

	globals, err := starlark.ExecFile(thread, filename, src, env)
	if err != nil {
		return nil, g.scriptError(runCtx, id, "failed to load script", err)
	}

	result = &Result{ChallengeID: id, ScriptPath: filename, Digest: Digest(src), Passed: true}

	if ch.Global {
		for _, tc := range ch.Cases {
			cr := checkGlobal(ch.Entry, globals, tc)
			result.Passed = result.Passed && cr.Passed
			result.Cases = append(result.Cases, cr)
		}
	} else {
		fn, ok := globals[ch.Entry].(starlark.Callable)
		if !ok {
			return nil, course.NewScriptError(fmt.Sprintf("script does not define function %s", ch.Entry), nil).WithLesson(id)
		}
		for _, tc := range ch.Cases {
			cr, err := call(thread, fn, tc)
			if err != nil {
				return nil, course.NewInternalError("failed to convert fixture", err).WithLesson(id)
			}
			if runCtx.Err() != nil {
				return nil, g.scriptError(runCtx, id, "script did not finish", runCtx.Err())
			}
			result.Passed = result.Passed && cr.Passed
			result.Cases = append(result.Cases, cr)
		}
	}

	result.Output = out.String()
	result.Duration = timer.Duration()
	return result, nil
}

// finish closes the grading span and records metrics for the outcome.
func (g *Grader) finish(span trace.Span, logger *telemetry.Logger, id string, result *Result, err error) {
	if err != nil {
		telemetry.RecordError(span, err)
		g.tel.Metrics.RecordError(string(course.ClassOf(err)))
		logger.WithError(err).Warn("Grading failed")
	} else {
		telemetry.RecordSuccess(span)
		span.SetAttributes(telemetry.AttrLessonPassed.Bool(result.Passed))
		g.tel.Metrics.RecordChallengeGrade(id, result.Passed)
		logger.WithField("passed", result.Passed).Debugf("Graded in %s", result.Duration)
	}
	span.End()
}

func (g *Grader) scriptError(ctx context.Context, id, msg string, err error) error {
	if ctx.Err() != nil {
		msg = fmt.Sprintf("script timed out after %s", g.timeout)
	}
	return course.NewScriptError(msg, err).WithLesson(id)
}

// call runs fn on one fixture. Errors raised by the script fail the case;
// the returned error covers only fixture conversion.
func call(thread *starlark.Thread, fn starlark.Callable, tc Case) (CaseResult, error) {
	cr := CaseResult{Name: tc.Name, Want: repr(tc.Want)}

	args := make(starlark.Tuple, len(tc.Args))
	for i, a := range tc.Args {
		v, err := toStarlarkValue(a)
		if err != nil {
			return cr, err
		}
		args[i] = v
	}
	kwargs := make([]starlark.Tuple, len(tc.Kwargs))
	for i, kv := range tc.Kwargs {
		v, err := toStarlarkValue(kv[1])
		if err != nil {
			return cr, err
		}
		kwargs[i] = starlark.Tuple{starlark.String(kv[0].(string)), v}
	}

	got, err := starlark.Call(thread, fn, args, kwargs)
	if err != nil {
		cr.Error = err.Error()
		return cr, nil
	}
	compare(&cr, got, tc.Want)
	return cr, nil
}

func checkGlobal(name string, globals starlark.StringDict, tc Case) CaseResult {
	cr := CaseResult{Name: tc.Name, Want: repr(tc.Want)}
	v, ok := globals[name]
	if !ok {
		cr.Error = fmt.Sprintf("%s is not defined", name)
		return cr
	}
	compare(&cr, v, tc.Want)
	return cr
}

func compare(cr *CaseResult, got starlark.Value, want interface{}) {
	cr.Got = got.String()
	value, err := fromStarlarkValue(got)
	if err != nil {
		cr.Error = err.Error()
		return
	}
	cr.Passed = reflect.DeepEqual(value, want)
}
