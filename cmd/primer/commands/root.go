package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool
	noHistory  bool

	// Set by Execute for telemetry.
	buildVersion string
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	buildVersion = version
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "primer",
		Short: "primer - runnable introductory programming lessons",
		Long: `primer runs a catalog of small, self-checking programming lessons.

Each lesson prints what it computes and checks one hardcoded answer:
  - python track: list search, box geometry, slicing, counting, range
  - c track: loops, branches, pointers, arrays and functions
  - build track: averaging a random number generator

Challenge lessons can also be solved in Starlark (a Python dialect) and
graded against the reference solution.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default ./primer.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record attempts")

	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newChallengeCommand())
	rootCmd.AddCommand(newProgressCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newMetricsCommand())

	return rootCmd
}
