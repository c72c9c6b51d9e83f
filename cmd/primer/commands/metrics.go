package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/primerlab/primer/pkg/course"
)

func newMetricsCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Serve Prometheus metrics after running every lesson",
		Long: `Run every enabled lesson once, then keep serving the Prometheus endpoint
until interrupted. Useful for workshop dashboards.`,
		Example: `  primer metrics --listen :9100`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, appOptions{history: true, forceMetrics: true, metricsAddress: listen})
			if err != nil {
				return err
			}
			defer a.Close(ctx)
			ctx = a.context(ctx)

			errCh := make(chan error, 1)
			go func() {
				errCh <- a.tel.Metrics.Serve(ctx)
			}()

			reports, err := a.runner.RunAll(ctx, "", io.Discard)
			if err != nil {
				return err
			}
			passed, failed := course.Summary(reports)
			fmt.Fprintf(cmd.OutOrStdout(), "%d passed, %d failed\n", passed, failed)

			log.Info().
				Str("address", a.cfg.Metrics.ListenAddress).
				Str("path", a.cfg.Metrics.Path).
				Msg("Serving metrics, press Ctrl+C to stop")

			return <-errCh
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "override metrics.listen_address")

	return cmd
}
