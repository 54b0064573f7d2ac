package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ncsound919/OG-Glass/internal/tokens"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Export and query design tokens",
}

var (
	tokensExportFormat     string
	tokensExportOverrides  string
	tokensExportNoComments bool
)

var tokensExportCmd = &cobra.Command{
	Use:   "export <preset>",
	Short: "Export a preset's effective tokens",
	Long: `Export a preset's tokens as CSS custom properties, a TypeScript module,
raw JSON or a Tailwind theme extension.

An overrides file is a partial token tree deep-merged on top of the preset.

Examples:
  ogglass tokens export glassmorphic-base
  ogglass tokens export client-fintech --format tailwind
  ogglass tokens export glassmorphic-base --overrides brand.json --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runTokensExport,
}

var tokensQueryCmd = &cobra.Command{
	Use:   "query <preset> <jsonpath>",
	Short: "Evaluate a JSONPath expression against a preset's tokens",
	Long: `Evaluate a JSONPath expression against the resolved token tree.

Examples:
  ogglass tokens query glassmorphic-base '$.colors.accent.primary'
  ogglass tokens query glassmorphic-base '$.blur.elevation[*]'`,
	Args: cobra.ExactArgs(2),
	RunE: runTokensQuery,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.AddCommand(tokensExportCmd, tokensQueryCmd)

	formats := make([]string, len(tokens.Formats))
	for i, f := range tokens.Formats {
		formats[i] = string(f)
	}
	tokensExportCmd.Flags().StringVar(&tokensExportFormat, "format", string(tokens.FormatCSS),
		"Export format ("+strings.Join(formats, "|")+")")
	AddFlagValidation(tokensExportCmd, "format", func(v string) error {
		return ValidateChoice("format", v, formats)
	})
	tokensExportCmd.Flags().StringVar(&tokensExportOverrides, "overrides", "", "JSON file of token overrides to apply first")
	tokensExportCmd.Flags().BoolVar(&tokensExportNoComments, "no-comments", false, "Omit the generated header comment")
}

func runTokensExport(cmd *cobra.Command, args []string) error {
	a, err := newAppWithPreset(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if tokensExportOverrides != "" {
		overrides, err := readJSONObject(tokensExportOverrides)
		if err != nil {
			return err
		}
		if _, err := a.studio.ApplyOverrides(cmd.Context(), overrides, false); err != nil {
			return err
		}
	}

	export, err := a.studio.ExportTokens(tokensExportFormat, !tokensExportNoComments)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), export.Content)
	return err
}

func runTokensQuery(cmd *cobra.Command, args []string) error {
	a, err := newAppWithPreset(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	tree, err := a.studio.EffectiveTokens()
	if err != nil {
		return err
	}
	matches, err := tokens.Query(tree, args[1])
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no tokens match %s", args[1])
	}

	out := cmd.OutOrStdout()
	for _, m := range matches {
		if s, ok := m.(string); ok {
			fmt.Fprintln(out, s)
			continue
		}
		raw, err := json.Marshal(m)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(raw))
	}
	return nil
}
