// Package telemetry bundles the observability used by the primer harness:
// structured logging with zerolog, tracing with OpenTelemetry and metrics
// with Prometheus.
//
// # Usage
//
// Build a Telemetry from a Config and shut it down on exit:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceVersion = "1.0.0"
//
//	tel, err := telemetry.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
// Attach it to a context so deeper layers can reach the logger and tracer:
//
//	ctx = tel.WithContext(ctx)
//	op := telemetry.StartOperation(ctx, "grade", telemetry.AttrLessonID.String("box"))
//	defer op.End(err)
//
// # Tracing
//
// The exporter is chosen by Config.Tracing.Exporter:
//
//   - "stdout" writes spans to standard output
//   - "otlp" sends spans to an OpenTelemetry collector over gRPC
//   - "none" disables tracing (the default)
//
// # Metrics
//
// Each Metrics owns its registry, so several instances can coexist in one
// process. Serve exposes the registry over HTTP until its context is done:
//
//	primer_lessons_run_total{lesson, track, result}
//	primer_lesson_duration_seconds{track}
//	primer_challenge_grades_total{challenge, result}
//	primer_errors_by_class_total{class}
//
// Discard returns a Telemetry that drops everything, which is what the
// library packages fall back to when none is configured.
package telemetry
