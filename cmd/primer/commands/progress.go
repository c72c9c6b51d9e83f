package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/primerlab/primer/pkg/policy"
	"github.com/primerlab/primer/pkg/stores"
)

type progressReport struct {
	Lessons []policy.LessonState `json:"lessons"`
	Advice  []policy.Advice      `json:"advice"`
}

func newProgressCommand() *cobra.Command {
	var (
		lesson string
		reset  bool
	)

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show attempt history per lesson",
		Example: `  # Summary of every lesson
  primer progress

  # Attempts of one lesson
  primer progress --lesson needle

  # Forget the history of one lesson, or of every lesson
  primer progress --reset --lesson needle
  primer progress --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noHistory {
				return fmt.Errorf("progress needs attempt history; drop --no-history")
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, appOptions{history: true})
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			if reset {
				return resetProgress(cmd, a, lesson)
			}
			if lesson != "" {
				return showAttempts(cmd, a, lesson)
			}

			progress, err := a.store.Progress(ctx)
			if err != nil {
				return err
			}
			advisor, err := a.advisor(ctx)
			if err != nil {
				return err
			}
			input := policy.BuildInput(a.runner.Registry(), progress, time.Now())
			advice, err := advisor.Evaluate(ctx, input)
			if err != nil {
				return err
			}
			rows := input.Lessons

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), progressReport{Lessons: rows, Advice: advice})
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTRACK\tATTEMPTS\tPASSES\tLAST")
			for _, r := range rows {
				last := "-"
				if r.LastAttempt != nil {
					status := "failed"
					if r.LastPassed {
						status = "passed"
					}
					last = fmt.Sprintf("%s (%s)", r.LastAttempt.Local().Format(time.DateTime), status)
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", r.ID, r.Track, r.Attempts, r.Passes, last)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if len(advice) > 0 {
				fmt.Fprintln(out, "\nAdvice:")
				for _, adv := range advice {
					mark := "-"
					if adv.Severity == policy.SeverityWarning {
						mark = "!"
					}
					fmt.Fprintf(out, "  %s %s\n", mark, adv.Message)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&lesson, "lesson", "l", "", "list the attempts of one lesson")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete recorded attempts (of --lesson only, when given)")

	return cmd
}

func showAttempts(cmd *cobra.Command, a *app, lessonID string) error {
	if _, err := a.runner.Registry().Get(lessonID); err != nil {
		return err
	}

	attempts, err := a.store.ListAttempts(cmd.Context(), stores.AttemptFilter{LessonID: lessonID, Limit: 50})
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), attempts)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tMODE\tRESULT\tDURATION\tSCRIPT\tMESSAGE")
	for _, at := range attempts {
		result := "failed"
		if at.Passed {
			result = "passed"
		}
		script := "-"
		if at.ScriptDigest != nil && len(*at.ScriptDigest) >= 12 {
			script = (*at.ScriptDigest)[:12]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			at.StartedAt.Local().Format(time.DateTime), at.Mode, result, at.Duration, script, at.Message)
	}
	return w.Flush()
}

func resetProgress(cmd *cobra.Command, a *app, lessonID string) error {
	if lessonID != "" {
		if _, err := a.runner.Registry().Get(lessonID); err != nil {
			return err
		}
	}

	n, err := a.store.DeleteAttempts(cmd.Context(), lessonID)
	if err != nil {
		return err
	}
	log.Info().Str("lesson", lessonID).Int64("attempts", n).Msg("Progress reset")

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"lesson": lessonID, "deleted": n})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d attempts\n", n)
	return nil
}
