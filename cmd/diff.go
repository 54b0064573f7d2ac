package cmd

import (
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	diffScope  string
	diffFormat string
)

var diffCmd = &cobra.Command{
	Use:   "diff <preset-a> <preset-b>",
	Short: "Compare two resolved presets",
	Long: `Compare two presets after inheritance is resolved.

Token leaves are reported as tokens.<path>; components and layouts by name.

Examples:
  ogglass diff glassmorphic-base client-fintech
  ogglass diff glassmorphic-base client-fintech --scope tokens -f json`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().StringVar(&diffScope, "scope", "all", "Diff scope (all|tokens|components|layouts)")
	addOutputFlag(diffCmd, &diffFormat, FormatTable)
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	diff, err := a.studio.Diff(cmd.Context(), args[0], args[1], diffScope)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), diffFormat, diff, func(tw *tabwriter.Writer) {
		for _, path := range diff.Added {
			row(tw, "+", path)
		}
		for _, path := range diff.Removed {
			row(tw, "-", path)
		}
		for _, c := range diff.Changed {
			row(tw, "~", c.Path, c.From, "->", c.To)
		}
		if len(diff.Added)+len(diff.Removed)+len(diff.Changed) == 0 {
			row(tw, "no differences")
		}
	})
}
