package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/primerlab/primer/pkg/config"
	"github.com/primerlab/primer/pkg/course"
	"github.com/primerlab/primer/pkg/telemetry"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a primer.yaml file",
		Long: `Validate a config file against its struct rules and the CUE #Config
schema, and check that every disabled lesson exists.`,
		Example: `  # Validate ./primer.yaml
  primer validate

  # Validate a specific file
  primer validate ./workshop.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				path = config.DefaultFileName
			}

			log.Debug().Str("path", path).Msg("Validating configuration")

			cfg, err := config.Load(path)
			if err != nil {
				return course.NewInvalidError("config is not valid", err)
			}

			reg := course.DefaultRegistry()
			for _, id := range cfg.Lessons.Disabled {
				if _, err := reg.Get(id); err != nil {
					return course.NewInvalidError(fmt.Sprintf("lessons.disabled names unknown lesson %q", id), nil)
				}
			}

			engine, err := newAdvisor(cmd.Context(), cfg, telemetry.Nop())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid (%d policies)\n", path, len(engine.ListPolicies()))
			return nil
		},
	}

	return cmd
}
