package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ncsound919/OG-Glass/internal/presets"
)

var (
	scaffoldName        string
	scaffoldDescription string
	scaffoldExtends     string
	scaffoldAccent      string
	scaffoldFormat      string
)

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold <preset-id>",
	Short: "Create a new preset that extends an existing one",
	Long: `Create a new preset directory with a manifest, an empty token
override file and empty component and layout folders.

Examples:
  ogglass scaffold my-brand
  ogglass scaffold my-brand --name "My Brand" --accent "#22c55e"
  ogglass scaffold my-brand --extends client-fintech`,
	Args: cobra.ExactArgs(1),
	RunE: runScaffold,
}

func init() {
	rootCmd.AddCommand(scaffoldCmd)

	scaffoldCmd.Flags().StringVar(&scaffoldName, "name", "", "Display name (derived from the id when empty)")
	scaffoldCmd.Flags().StringVar(&scaffoldDescription, "description", "", "Preset description")
	scaffoldCmd.Flags().StringVar(&scaffoldExtends, "extends", "", "Parent preset (defaults to presets.default_extends)")
	scaffoldCmd.Flags().StringVar(&scaffoldAccent, "accent", "", "Accent color as #rrggbb")
	addOutputFlag(scaffoldCmd, &scaffoldFormat, FormatTable)
}

func runScaffold(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	result, err := a.studio.Scaffold(cmd.Context(), presets.ScaffoldRequest{
		ID:          args[0],
		Name:        scaffoldName,
		Description: scaffoldDescription,
		Extends:     scaffoldExtends,
		AccentColor: scaffoldAccent,
	})
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), scaffoldFormat, result, func(tw *tabwriter.Writer) {
		row(tw, fmt.Sprintf("Created preset %q (%s) extending %s", result.PresetID, result.Name, result.Extends))
		row(tw, "Path", result.Path)
		for _, f := range result.Files {
			row(tw, "", f)
		}
	})
}
