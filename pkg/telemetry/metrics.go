package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultPassed = "passed"
	ResultFailed = "failed"
)

// Metrics provides Prometheus metrics for lesson runs and challenge grades.
// A disabled Metrics is a no-op.
type Metrics struct {
	config MetricsConfig

	lessonsRun      *prometheus.CounterVec
	lessonDuration  *prometheus.HistogramVec
	challengeGrades *prometheus.CounterVec
	errorsByClass   *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector with its own registry.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		lessonsRun: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "lessons_run_total",
				Help:      "Total number of lesson runs by outcome",
			},
			[]string{"lesson", "track", "result"},
		),
		lessonDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "lesson_duration_seconds",
				Help:      "Duration of lesson runs in seconds",
				Buckets:   buckets,
			},
			[]string{"track"},
		),
		challengeGrades: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "challenge_grades_total",
				Help:      "Total number of graded challenge scripts by outcome",
			},
			[]string{"challenge", "result"},
		),
		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "errors_by_class_total",
				Help:      "Total number of errors by error class",
			},
			[]string{"class"},
		),
	}

	registry.MustRegister(
		m.lessonsRun,
		m.lessonDuration,
		m.challengeGrades,
		m.errorsByClass,
	)

	return m, nil
}

func resultLabel(passed bool) string {
	if passed {
		return ResultPassed
	}
	return ResultFailed
}

// RecordLessonRun counts a finished lesson run and observes its duration.
func (m *Metrics) RecordLessonRun(lessonID, track string, passed bool, duration time.Duration) {
	if m == nil || m.lessonsRun == nil {
		return
	}
	m.lessonsRun.WithLabelValues(lessonID, track, resultLabel(passed)).Inc()
	m.lessonDuration.WithLabelValues(track).Observe(duration.Seconds())
}

// RecordChallengeGrade counts a graded challenge script.
func (m *Metrics) RecordChallengeGrade(challengeID string, passed bool) {
	if m == nil || m.challengeGrades == nil {
		return
	}
	m.challengeGrades.WithLabelValues(challengeID, resultLabel(passed)).Inc()
}

// RecordError counts an error by class.
func (m *Metrics) RecordError(errorClass string) {
	if m == nil || m.errorsByClass == nil {
		return
	}
	m.errorsByClass.WithLabelValues(errorClass).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Serve exposes the metrics endpoint until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context) error {
	if m == nil || !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Timer measures elapsed time for an operation.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
