package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/primerlab/primer/pkg/course"
)

func newRunCommand() *cobra.Command {
	var (
		all   bool
		track string
	)

	cmd := &cobra.Command{
		Use:   "run [lesson...]",
		Short: "Run lessons and check their answers",
		Long: `Run one or more lessons. Each lesson prints its console narrative and
performs its single correctness check. The command exits non-zero when any
check fails.`,
		Example: `  # Run the needle search
  primer run needle

  # Run several lessons
  primer run box cake sheep

  # Run the whole C track
  primer run --all --track c`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return fmt.Errorf("pass lesson IDs or --all")
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, appOptions{history: true})
			if err != nil {
				return err
			}
			defer a.Close(ctx)
			ctx = a.context(ctx)

			out := cmd.OutOrStdout()
			narrative := out
			if jsonOutput {
				narrative = io.Discard
			}

			var reports []*course.Report
			if all {
				t, err := parseTrack(a.runner.Registry(), track)
				if err != nil {
					return err
				}
				reports, err = a.runner.RunAll(ctx, t, narrative)
				if err != nil {
					return err
				}
			} else {
				for _, id := range args {
					report, err := a.runner.Run(ctx, id, narrative)
					if err != nil {
						return err
					}
					reports = append(reports, report)
				}
			}

			passed, failed := course.Summary(reports)
			log.Debug().Int("passed", passed).Int("failed", failed).Msg("Run complete")

			if jsonOutput {
				if err := writeJSON(out, reports); err != nil {
					return err
				}
			} else if len(reports) > 1 {
				fmt.Fprintf(out, "%d passed, %d failed\n", passed, failed)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d lessons failed", failed, len(reports))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "run every lesson")
	cmd.Flags().StringVarP(&track, "track", "t", "", "with --all, only run this track")

	return cmd
}
