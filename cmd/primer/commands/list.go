package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/primerlab/primer/pkg/course"
)

func newListCommand() *cobra.Command {
	var (
		track string
		dot   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lessons",
		Example: `  # Every lesson in course order
  primer list

  # Only the C track
  primer list --track c

  # Prerequisite graph
  primer list --dot | dot -Tsvg > curriculum.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := course.DefaultRegistry()
			if dot {
				c, err := reg.Curriculum()
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), c.ToDOT())
				return err
			}

			t, err := parseTrack(reg, track)
			if err != nil {
				return err
			}

			lessons := reg.List(t)
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), lessons)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTRACK\tKIND\tTITLE\tREQUIRES")
			for _, l := range lessons {
				requires := "-"
				if len(l.Requires) > 0 {
					requires = strings.Join(l.Requires, ",")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.ID, l.Track, l.Kind, l.Title, requires)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&track, "track", "t", "", "only list lessons of this track (python, c, build)")
	cmd.Flags().BoolVar(&dot, "dot", false, "print the prerequisite graph in Graphviz DOT format")

	return cmd
}
