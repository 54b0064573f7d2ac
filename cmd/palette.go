package cmd

import (
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ncsound919/OG-Glass/internal/style"
)

var (
	paletteHarmony  string
	paletteNoShades bool
	paletteFormat   string
)

var paletteCmd = &cobra.Command{
	Use:   "palette <seed>",
	Short: "Derive a color palette from a seed color",
	Long: `Derive harmony, semantic and shade colors from a #rrggbb seed.

Examples:
  ogglass palette "#6366f1"
  ogglass palette "#0ea5e9" --harmony triadic --no-shades -f json`,
	Args: cobra.ExactArgs(1),
	RunE: runPalette,
}

func init() {
	rootCmd.AddCommand(paletteCmd)

	harmonies := make([]string, len(style.Harmonies))
	for i, h := range style.Harmonies {
		harmonies[i] = string(h)
	}
	paletteCmd.Flags().StringVar(&paletteHarmony, "harmony", string(style.Complementary),
		"Harmony ("+strings.Join(harmonies, "|")+")")
	paletteCmd.Flags().BoolVar(&paletteNoShades, "no-shades", false, "Omit the 50..900 shade scale")
	addOutputFlag(paletteCmd, &paletteFormat, FormatTable)
}

func runPalette(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	palette, err := a.studio.Palette(args[0], paletteHarmony, !paletteNoShades)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), paletteFormat, palette, func(tw *tabwriter.Writer) {
		row(tw, "seed", palette.Seed)
		row(tw, "harmony", palette.Harmony)

		names := make([]string, 0, len(palette.Colors))
		for name := range palette.Colors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			row(tw, name, palette.Colors[name])
		}

		row(tw, "foreground", palette.Semantic.Foreground)
		row(tw, "background", palette.Semantic.Background)
		row(tw, "muted", palette.Semantic.Muted)
		row(tw, "surface", palette.Semantic.Surface)

		if s := palette.Shades; s != nil {
			for _, shade := range [][2]string{
				{"50", s.S50}, {"100", s.S100}, {"200", s.S200}, {"300", s.S300}, {"400", s.S400},
				{"500", s.S500}, {"600", s.S600}, {"700", s.S700}, {"800", s.S800}, {"900", s.S900},
			} {
				row(tw, shade[0], shade[1])
			}
		}
	})
}
