package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/primerlab/primer/pkg/challenge"
	"github.com/primerlab/primer/pkg/course"
	"github.com/primerlab/primer/pkg/stores"
)

func newChallengeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Solve challenge lessons in Starlark",
		Long: `Challenge lessons can be solved by writing a Starlark script, a Python
dialect. "init" writes a starter script with TO-DO holes, "grade" runs it
against the reference solution.

C lessons can be solved in C: build the program for wasm32-wasi and grade
the .wasm file. Its output is compared line by line with the lesson's.
Lessons made of two programs (call-by-value, arrays) accept a build of
either one.`,
	}

	cmd.AddCommand(newChallengeListCommand())
	cmd.AddCommand(newChallengeInitCommand())
	cmd.AddCommand(newChallengeGradeCommand())

	return cmd
}

func newChallengeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List challenges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := challenge.IDs()
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), ids)
			}
			for _, id := range ids {
				ch, _ := challenge.Lookup(id)
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", id, ch.Entry)
			}
			return nil
		},
	}
}

func newChallengeInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <challenge> [file]",
		Short: "Write a starter script",
		Example: `  # Write .primer/challenges/needle.star
  primer challenge init needle

  # Write to a chosen file
  primer challenge init box ./box.star`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			src, err := challenge.Starter(id)
			if err != nil {
				return err
			}

			path := ""
			if len(args) == 2 {
				path = args[1]
			} else {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				path = cfg.ScriptPath(id)
			}

			if _, err := os.Stat(path); err == nil && !force {
				return course.NewConflictError(fmt.Sprintf("%s already exists (use --force to overwrite)", path), nil).WithLesson(id)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			if err := os.WriteFile(path, src, 0o644); err != nil {
				return fmt.Errorf("failed to write starter: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n\nNext: fill in the TO-DO lines, then run\n  primer challenge grade %s %s\n", path, id, path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing script")

	return cmd
}

func newChallengeGradeCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "grade <challenge> [file]",
		Short: "Grade a Starlark solution",
		Example: `  # Grade once
  primer challenge grade needle needle.star

  # Re-grade on every save
  primer challenge grade needle needle.star --watch

  # Grade a C solution built with: clang --target=wasm32-wasi -o swap.wasm swap.c
  primer challenge grade swap swap.wasm`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, appOptions{history: true})
			if err != nil {
				return err
			}
			defer a.Close(ctx)
			ctx = a.context(ctx)

			id := args[0]
			path := a.cfg.ScriptPath(id)
			if len(args) == 2 {
				path = args[1]
			}

			grader := challenge.NewGrader(challenge.GraderConfig{
				Timeout:          a.cfg.Challenge.Timeout,
				MemoryLimitPages: a.cfg.Challenge.MemoryLimitPages,
				Telemetry:        a.tel,
				Registry:         a.runner.Registry(),
			})
			out := cmd.OutOrStdout()

			result, err := gradeOnce(ctx, a, grader, id, path, out)
			if !watch {
				if err != nil {
					return err
				}
				if !result.Passed {
					return fmt.Errorf("challenge %s: %d of %d cases failed", id, len(result.Failed()), len(result.Cases))
				}
				return nil
			}

			if err != nil && !course.IsScript(err) {
				return err
			}
			fmt.Fprintf(out, "\nWatching %s, press Ctrl+C to stop\n", path)
			last, _ := challenge.DigestFile(path)
			return challenge.Watch(ctx, path, 0, func() {
				digest, err := challenge.DigestFile(path)
				if err == nil && digest == last {
					log.Debug().Str("script", path).Msg("Script unchanged, skipping")
					return
				}
				last = digest
				fmt.Fprintln(out)
				if _, err := gradeOnce(ctx, a, grader, id, path, out); err != nil && !course.IsScript(err) {
					log.Error().Err(err).Msg("Grading failed")
				}
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-grade whenever the file changes")

	return cmd
}

// gradeOnce grades the script, prints the result and records the attempt.
// Script errors are printed and recorded as failed attempts.
func gradeOnce(ctx context.Context, a *app, grader *challenge.Grader, id, path string, out io.Writer) (*challenge.Result, error) {
	track := string(course.TrackPython)
	if lesson, err := a.runner.Registry().Get(id); err == nil {
		track = string(lesson.Track)
	}

	var digest *string
	if d, err := challenge.DigestFile(path); err == nil {
		digest = &d
	}

	result, err := grader.GradePath(ctx, id, path)
	if err != nil {
		var lerr *course.LessonError
		if errors.As(err, &lerr) && lerr.Class == course.ErrorClassScript {
			printScriptError(out, jsonOutput, lerr)
			a.runner.Record(ctx, &stores.Attempt{
				LessonID:     id,
				Track:        track,
				Mode:         stores.AttemptModeScript,
				Passed:       false,
				Message:      lerr.Error(),
				ScriptPath:   &path,
				ScriptDigest: digest,
			})
		}
		return nil, err
	}

	printResult(out, jsonOutput, result)

	message := "Success!"
	if !result.Passed {
		message = fmt.Sprintf("%d of %d cases failed", len(result.Failed()), len(result.Cases))
	}
	a.runner.Record(ctx, &stores.Attempt{
		LessonID:     id,
		Track:        track,
		Mode:         stores.AttemptModeScript,
		Passed:       result.Passed,
		Message:      message,
		ScriptPath:   &path,
		ScriptDigest: digest,
		Duration:     result.Duration,
	})
	return result, nil
}

func printScriptError(out io.Writer, asJSON bool, lerr *course.LessonError) {
	if asJSON {
		_ = writeJSON(out, map[string]interface{}{"passed": false, "error": lerr.Error()})
		return
	}
	fmt.Fprintf(out, "✗ %s\n", lerr.Message)
	if lerr.Err != nil {
		fmt.Fprintf(out, "  %v\n", lerr.Err)
	}
	fmt.Fprintln(out, "Try again!")
}

func printResult(out io.Writer, asJSON bool, result *challenge.Result) {
	if asJSON {
		_ = writeJSON(out, result)
		return
	}

	if result.Output != "" {
		fmt.Fprint(out, result.Output)
	}
	if result.Program != "" && result.Program != result.ChallengeID {
		fmt.Fprintf(out, "Compared with %s\n", result.Program)
	}
	for _, c := range result.Cases {
		mark := "✓"
		if !c.Passed {
			mark = "✗"
		}
		fmt.Fprintf(out, "%s %s: want %s", mark, c.Name, c.Want)
		switch {
		case c.Error != "":
			fmt.Fprintf(out, ", error: %s", c.Error)
		case !c.Passed:
			fmt.Fprintf(out, ", got %s", c.Got)
		}
		fmt.Fprintln(out)
	}

	if result.Passed {
		fmt.Fprintln(out, "Success!")
	} else {
		fmt.Fprintln(out, "Try again!")
	}
}
