package cmd

import (
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ncsound919/OG-Glass/internal/style"
)

var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Browse style categories and match descriptions to presets",
}

var (
	styleSuggestOutput string
	styleSuggestFormat string

	styleListNoPresets bool
	styleListFormat    string
)

var styleSuggestCmd = &cobra.Command{
	Use:   "suggest <description...>",
	Short: "Suggest a preset for a free-text product description",
	Long: `Match a description against the style categories' keywords and suggest a
starting preset together with token overrides.

Examples:
  ogglass style suggest "banking dashboard for enterprise finance teams"
  ogglass style suggest playful kids learning app --output tokens -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStyleSuggest,
}

var styleListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the style categories",
	Args:    cobra.NoArgs,
	RunE:    runStyleList,
}

func init() {
	rootCmd.AddCommand(styleCmd)
	styleCmd.AddCommand(styleSuggestCmd, styleListCmd)

	outputs := []string{string(style.OutputFull), string(style.OutputTokens), string(style.OutputPresetID)}
	styleSuggestCmd.Flags().StringVar(&styleSuggestOutput, "output", string(style.OutputFull),
		"What to return ("+strings.Join(outputs, "|")+")")
	AddFlagValidation(styleSuggestCmd, "output", func(v string) error {
		return ValidateChoice("output", v, outputs)
	})
	addOutputFlag(styleSuggestCmd, &styleSuggestFormat, FormatTable)

	styleListCmd.Flags().BoolVar(&styleListNoPresets, "no-presets", false, "Omit the presets of each category")
	addOutputFlag(styleListCmd, &styleListFormat, FormatTable)
}

func runStyleSuggest(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	description := strings.Join(args, " ")
	result, err := a.studio.SuggestStyle(description, styleSuggestOutput)
	if err != nil {
		return err
	}

	suggestion, full := result.(*style.Suggestion)
	if !full {
		return render(cmd.OutOrStdout(), styleSuggestFormat, result, nil)
	}

	return render(cmd.OutOrStdout(), styleSuggestFormat, suggestion, func(tw *tabwriter.Writer) {
		row(tw, "Preset", suggestion.PresetID)
		row(tw, "Category", suggestion.Category.Name)
		row(tw, "Confidence", suggestion.Confidence)
		row(tw, "Keywords", orDash(strings.Join(suggestion.MatchedKeywords, ", ")))
		row(tw, "Reasoning", suggestion.Reasoning)
		for i, step := range suggestion.NextSteps {
			label := ""
			if i == 0 {
				label = "Next steps"
			}
			row(tw, label, step)
		}
	})
}

func runStyleList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	categories := a.studio.StyleCategories(!styleListNoPresets)
	view := map[string]interface{}{"categories": categories, "total": len(categories)}

	return render(cmd.OutOrStdout(), styleListFormat, view, func(tw *tabwriter.Writer) {
		row(tw, "ID", "NAME", "PRESETS", "KEYWORDS")
		for _, c := range categories {
			row(tw, c.ID, c.Name, orDash(strings.Join(c.Presets, ",")), strings.Join(c.Keywords, ","))
		}
	})
}
