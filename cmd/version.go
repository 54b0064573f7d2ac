package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncsound919/OG-Glass/internal/version"
)

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	// Version needs no configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if versionFormat == FormatTable {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return err
		}
		return render(cmd.OutOrStdout(), versionFormat, info, nil)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	addOutputFlag(versionCmd, &versionFormat, FormatTable)
}
