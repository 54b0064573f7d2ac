package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ncsound919/OG-Glass/internal/lint"
)

var (
	validateFormat      string
	validateSuggestions bool
	validateStrict      bool

	correctContext string
	correctDryRun  bool
	correctFormat  string
)

var validateCmd = &cobra.Command{
	Use:   "validate <preset> [file|-]",
	Short: "Check component code against a preset's design rules",
	Long: `Validate component code against a preset without modifying it.

Code is read from the file argument, or from stdin when it is omitted or "-".
The score starts at 100 and loses 15 per error and 5 per warning.

Examples:
  ogglass validate glassmorphic-base Sidebar.tsx
  cat Card.tsx | ogglass validate glassmorphic-base --strict`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runValidate,
}

var correctCmd = &cobra.Command{
	Use:   "correct <preset> [file|-]",
	Short: "Rewrite component code to follow a preset's design rules",
	Long: `Correct component code: hardcoded colors become tokens, surfaces get the
glass treatment and missing preset imports are added. Other findings are
reported but left in place.

The corrected code is written to stdout; issues go to stderr.

Examples:
  ogglass correct glassmorphic-base Settings.tsx --context settings > Settings.fixed.tsx
  ogglass correct glassmorphic-base Card.tsx --dry-run`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCorrect,
}

func init() {
	rootCmd.AddCommand(validateCmd, correctCmd)

	validateCmd.Flags().BoolVar(&validateSuggestions, "suggestions", true, "Include info-level suggestions")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Exit with an error when the code is not valid")
	addOutputFlag(validateCmd, &validateFormat, FormatTable)

	contexts := make([]string, len(lint.Contexts))
	for i, c := range lint.Contexts {
		contexts[i] = string(c)
	}
	correctCmd.Flags().StringVar(&correctContext, "context", string(lint.ContextAuto),
		"Context hint ("+strings.Join(contexts, "|")+")")
	AddFlagValidation(correctCmd, "context", func(v string) error {
		return ValidateChoice("context", v, contexts)
	})
	correctCmd.Flags().BoolVar(&correctDryRun, "dry-run", false, "Report issues without rewriting")
	correctCmd.Flags().StringVarP(&correctFormat, "format", "f", "code", "Output format (code|json|yaml)")
	AddFlagValidation(correctCmd, "format", func(v string) error {
		return ValidateChoice("format", v, []string{"code", FormatJSON, FormatYAML})
	})
}

func lintInput(cmd *cobra.Command, args []string) (string, error) {
	name := ""
	if len(args) > 1 {
		name = args[1]
	}
	code, err := readInput(cmd, name)
	if err != nil {
		return "", err
	}
	if err := lint.CheckCodeLength(code); err != nil {
		return "", err
	}
	return code, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	code, err := lintInput(cmd, args)
	if err != nil {
		return err
	}
	a, err := newAppWithPreset(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	result, err := a.studio.Validate(code, validateSuggestions)
	if err != nil {
		return err
	}

	err = render(cmd.OutOrStdout(), validateFormat, result, func(tw *tabwriter.Writer) {
		errs, warns := lint.Count(result.Issues)
		row(tw, fmt.Sprintf("Score %d/100 against %s: %s, %s", result.Score, result.PresetUsed,
			plural(errs, "error"), plural(warns, "warning")))
		issueTable(tw, result.Issues)
	})
	if err != nil {
		return err
	}

	if validateStrict && !result.Valid {
		return fmt.Errorf("validation failed with score %d", result.Score)
	}
	return nil
}

func runCorrect(cmd *cobra.Command, args []string) error {
	code, err := lintInput(cmd, args)
	if err != nil {
		return err
	}
	a, err := newAppWithPreset(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	result, err := a.studio.Autocorrect(code, correctContext, correctDryRun)
	if err != nil {
		return err
	}
	if correctFormat != "code" {
		return render(cmd.OutOrStdout(), correctFormat, result, nil)
	}

	stderr := tabwriter.NewWriter(cmd.ErrOrStderr(), 0, 0, 2, ' ', 0)
	switch r := result.(type) {
	case *lint.CorrectionResult:
		fmt.Fprint(cmd.OutOrStdout(), r.Corrected)
		for _, fix := range r.AppliedFixes {
			row(stderr, "fixed", fix)
		}
		issueTable(stderr, r.Issues)
	case *lint.ValidationResult:
		fmt.Fprint(cmd.OutOrStdout(), code)
		issueTable(stderr, r.Issues)
	}
	return stderr.Flush()
}

func issueTable(tw *tabwriter.Writer, issues []lint.Issue) {
	if len(issues) == 0 {
		return
	}
	title := cases.Title(language.English)
	row(tw, "SEVERITY", "RULE", "MESSAGE")
	for _, issue := range issues {
		row(tw, title.String(string(issue.Severity)), issue.Rule, issue.Message)
	}
}
