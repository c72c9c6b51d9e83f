package course

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/primerlab/primer/pkg/stores"
	"github.com/primerlab/primer/pkg/telemetry"
)

// RunnerConfig wires the runner to its optional collaborators.
type RunnerConfig struct {
	// Store records attempts. Nil disables history.
	Store stores.Store

	// Telemetry defaults to telemetry.Discard().
	Telemetry *telemetry.Telemetry

	// Skip lists lesson IDs RunAll leaves out.
	Skip []string
}

// Runner executes lessons and records their outcomes.
type Runner struct {
	registry *Registry
	store    stores.Store
	tel      *telemetry.Telemetry
	logger   *telemetry.Logger
	skip     map[string]bool
	now      func() time.Time
}

// NewRunner creates a runner over registry.
func NewRunner(registry *Registry, cfg RunnerConfig) *Runner {
	tel := cfg.Telemetry
	if tel == nil {
		tel = telemetry.Discard()
	}

	skip := make(map[string]bool, len(cfg.Skip))
	for _, id := range cfg.Skip {
		skip[id] = true
	}

	return &Runner{
		registry: registry,
		store:    cfg.Store,
		tel:      tel,
		logger:   tel.Logger.NewComponentLogger("runner"),
		skip:     skip,
		now:      time.Now,
	}
}

// Registry returns the registry the runner draws lessons from.
func (r *Runner) Registry() *Registry {
	return r.registry
}

// Run executes one lesson, writing its console narrative to w. A failed
// check is reported through the Report, not as an error.
func (r *Runner) Run(ctx context.Context, id string, w io.Writer) (*Report, error) {
	lesson, err := r.registry.Get(id)
	if err != nil {
		r.tel.Metrics.RecordError(string(ClassOf(err)))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	attemptID := uuid.New().String()
	ctx, span := r.tel.Tracer.StartLessonSpan(ctx, lesson.ID, string(lesson.Track), string(stores.AttemptModeReference))
	defer span.End()
	span.SetAttributes(telemetry.AttrAttemptID.String(attemptID))

	logger := r.logger.WithLesson(lesson.ID, string(lesson.Track)).WithAttempt(attemptID)
	logger.Debug("Running lesson")

	started := r.now()
	timer := telemetry.NewTimer()
	outcome := lesson.Run(w)
	duration := timer.Duration()

	report := &Report{
		AttemptID: attemptID,
		LessonID:  lesson.ID,
		Title:     lesson.Title,
		Track:     lesson.Track,
		Outcome:   outcome,
		Duration:  duration,
		StartedAt: started,
	}

	span.SetAttributes(telemetry.AttrLessonPassed.Bool(outcome.Passed))
	telemetry.RecordSuccess(span)
	r.tel.Metrics.RecordLessonRun(lesson.ID, string(lesson.Track), outcome.Passed, duration)

	logger.Zerolog().Info().
		Bool("passed", outcome.Passed).
		Dur("duration", duration).
		Msg("Lesson finished")

	r.Record(ctx, &stores.Attempt{
		ID:        attemptID,
		LessonID:  lesson.ID,
		Track:     string(lesson.Track),
		Mode:      stores.AttemptModeReference,
		Passed:    outcome.Passed,
		Message:   outcome.Message,
		Duration:  duration,
		StartedAt: started,
	})

	return report, nil
}

// RunAll runs every lesson of track (all tracks when empty) in course
// order. Each lesson is preceded by a header line. It stops early only when
// ctx is cancelled, returning the reports gathered so far.
func (r *Runner) RunAll(ctx context.Context, track Track, w io.Writer) ([]*Report, error) {
	var reports []*Report
	for _, lesson := range r.registry.List(track) {
		if r.skip[lesson.ID] {
			r.logger.WithField("lesson", lesson.ID).Debug("Skipping disabled lesson")
			continue
		}
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		fmt.Fprintf(w, "=== %s: %s ===\n", lesson.ID, lesson.Title)
		report, err := r.Run(ctx, lesson.ID, w)
		if err != nil {
			return reports, err
		}
		fmt.Fprintln(w)
		reports = append(reports, report)
	}
	return reports, nil
}

// Record stores an attempt when history is enabled. Storage failures are
// logged rather than returned so a broken database never hides a lesson
// result.
func (r *Runner) Record(ctx context.Context, attempt *stores.Attempt) {
	if r.store == nil {
		return
	}
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	if attempt.StartedAt.IsZero() {
		attempt.StartedAt = r.now()
	}

	if err := r.store.RecordAttempt(ctx, attempt); err != nil {
		r.tel.Metrics.RecordError(string(ErrorClassInternal))
		r.logger.WithError(err).WithAttempt(attempt.ID).Warn("Failed to record attempt")
	}
}

// Summary counts passed and failed reports.
func Summary(reports []*Report) (passed, failed int) {
	for _, rep := range reports {
		if rep.Passed() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
