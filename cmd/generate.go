package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ncsound919/OG-Glass/internal/generator"
)

var (
	generateProps   []string
	generateVariant string
	generateCSS     bool
	generateFormat  string
)

var generateCmd = &cobra.Command{
	Use:   "generate <preset> <template>",
	Short: "Render a component template with tokens and props",
	Long: `Render one of a preset's component templates. {{token:path}} placeholders
are resolved against the preset's tokens and {{prop:name}} placeholders are
filled from --prop flags, falling back to each prop's default.

Prop values that parse as JSON keep their type; anything else is a string.

Examples:
  ogglass generate glassmorphic-base GlassCard --prop title=Revenue
  ogglass generate glassmorphic-base NavItem --variant active --prop active=true`,
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringArrayVarP(&generateProps, "prop", "p", nil, "Prop as key=value (repeatable)")
	generateCmd.Flags().StringVar(&generateVariant, "variant", "", "Template variant")
	generateCmd.Flags().BoolVar(&generateCSS, "css", false, "Also print the CSS module when the template has one")
	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "code", "Output format (code|json|yaml)")
	AddFlagValidation(generateCmd, "format", func(v string) error {
		return ValidateChoice("format", v, []string{"code", FormatJSON, FormatYAML})
	})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	props, err := parseProps(generateProps)
	if err != nil {
		return err
	}
	a, err := newAppWithPreset(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	result, err := a.studio.Generate(generator.Request{
		Template: args[1],
		Props:    props,
		Variant:  generateVariant,
	})
	if err != nil {
		return err
	}

	if generateFormat != "code" {
		return render(cmd.OutOrStdout(), generateFormat, result, nil)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Code)
	if generateCSS && result.CSSModule != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, result.CSSModule)
	}
	for _, path := range result.UnresolvedTokens {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: unresolved token %s\n", path)
	}
	return nil
}
