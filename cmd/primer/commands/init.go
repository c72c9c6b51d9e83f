package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/primerlab/primer/pkg/config"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create primer.yaml and the attempt database",
		Long: `Initialize a primer workspace: write a default primer.yaml (unless one
exists), create the data directory and migrate the attempt database.`,
		Example: `  # Initialize in the current directory
  primer init

  # Initialize with a custom config path
  primer init --config ~/course/primer.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			path := configPath
			if path == "" {
				path = config.DefaultFileName
			}

			log.Info().Str("config", path).Msg("Initializing workspace")

			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(out, "✓ Config file already exists: %s\n", path)
			} else if errors.Is(err, os.ErrNotExist) {
				if err := config.Default().Write(path); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Created config file: %s\n", path)
			} else {
				return fmt.Errorf("failed to check %s: %w", path, err)
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", cfg.DataDir, err)
			}
			fmt.Fprintf(out, "✓ Created directory: %s\n", cfg.DataDir)

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return fmt.Errorf("failed to close database: %w", err)
			}
			fmt.Fprintf(out, "✓ Initialized SQLite database: %s\n", cfg.DatabasePath())

			fmt.Fprintf(out, "\nNext steps:\n")
			fmt.Fprintf(out, "  1. Run a lesson:\n")
			fmt.Fprintf(out, "     primer run needle\n\n")
			fmt.Fprintf(out, "  2. Solve it yourself:\n")
			fmt.Fprintf(out, "     primer challenge init needle\n\n")

			return nil
		},
	}

	return cmd
}
