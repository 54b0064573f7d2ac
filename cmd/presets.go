package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:     "presets",
	Aliases: []string{"p"},
	Short:   "Inspect available presets",
}

var (
	presetsListMetadata bool
	presetsListFormat   string
	presetsShowFormat   string
)

var presetsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List presets under the presets root",
	Long: `List every preset directory that contains a manifest.

Examples:
  ogglass presets list
  ogglass presets list --metadata
  ogglass presets list -f json`,
	Args: cobra.NoArgs,
	RunE: runPresetsList,
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <preset>",
	Short: "Show a resolved preset: manifest, components and layouts",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsShow,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.AddCommand(presetsListCmd, presetsShowCmd)

	presetsListCmd.Flags().BoolVarP(&presetsListMetadata, "metadata", "m", false, "Include manifest metadata")
	addOutputFlag(presetsListCmd, &presetsListFormat, FormatTable)
	addOutputFlag(presetsShowCmd, &presetsShowFormat, FormatTable)
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !presetsListMetadata {
		ids := a.studio.ListPresets(cmd.Context())
		return render(out, presetsListFormat, map[string]interface{}{"presets": ids}, func(tw *tabwriter.Writer) {
			for _, id := range ids {
				row(tw, id)
			}
		})
	}

	manifests := a.studio.Manifests(cmd.Context())
	return render(out, presetsListFormat, map[string]interface{}{"presets": manifests}, func(tw *tabwriter.Writer) {
		row(tw, "ID", "NAME", "VERSION", "EXTENDS", "TAGS")
		for _, m := range manifests {
			if m.Error != "" {
				row(tw, m.ID, "-", "-", "-", m.Error)
				continue
			}
			row(tw, m.ID, m.Name, orDash(m.Version), orDash(m.Extends), strings.Join(m.Tags, ","))
		}
	})
}

func runPresetsShow(cmd *cobra.Command, args []string) error {
	a, err := newAppWithPreset(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	preset, err := a.studio.Session().RequireActivePreset("presets show")
	if err != nil {
		return err
	}
	components, err := a.studio.Components()
	if err != nil {
		return err
	}
	layouts, err := a.studio.Layouts()
	if err != nil {
		return err
	}

	view := map[string]interface{}{
		"manifest":   preset.Manifest,
		"components": components,
		"layouts":    layouts,
	}

	return render(cmd.OutOrStdout(), presetsShowFormat, view, func(tw *tabwriter.Writer) {
		m := preset.Manifest
		row(tw, "ID", m.ID)
		row(tw, "Name", m.Name)
		row(tw, "Version", orDash(m.Version))
		if m.Extends != "" {
			row(tw, "Extends", m.Extends)
		}
		if m.Description != "" {
			row(tw, "Description", m.Description)
		}
		row(tw, "")
		row(tw, "COMPONENT", "CATEGORY", "VARIANTS", "PROPS")
		for _, c := range components {
			row(tw, c.Name, c.Category, orDash(strings.Join(c.Variants, ",")), orDash(strings.Join(c.Props, ",")))
		}
		row(tw, "")
		row(tw, "LAYOUT", "REGIONS")
		for _, l := range layouts {
			row(tw, l.Name, strings.Join(l.Regions, ","))
		}
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
