// Package lint checks and rewrites submitted component source against a
// preset's conventions. Every check is a regular-expression match over the
// raw text; nothing is parsed.
package lint

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
)

// Severity of an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rule identifiers are stable and part of the public output.
const (
	RuleNoHardcodedColors         = "no-hardcoded-colors"
	RuleNoHardcodedSpacing        = "no-hardcoded-spacing"
	RuleEnforceGlassSurface       = "enforce-glass-surface"
	RuleNoHardcodedFontFamily     = "no-hardcoded-font-family"
	RuleNoHardcodedFontSize       = "no-hardcoded-font-size"
	RuleUseAnimationTokens        = "use-animation-tokens"
	RuleEnforceSettingsComponents = "enforce-settings-components"
	RuleEnforceSidebarComponents  = "enforce-sidebar-components"
	RuleA11yImgAlt                = "a11y-img-alt"
	RuleA11yIconButtonLabel       = "a11y-icon-button-label"
	RuleMissingImport             = "missing-import"
)

// Issue is one finding. Line and Column are reserved and never set.
type Issue struct {
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`
	Line     *int     `json:"line,omitempty"`
	Column   *int     `json:"column,omitempty"`
}

// ValidationResult is the outcome of Validate.
type ValidationResult struct {
	Valid      bool    `json:"valid"`
	Issues     []Issue `json:"issues"`
	Score      int     `json:"score"`
	PresetUsed string  `json:"presetUsed"`
}

// WithoutInfo returns a copy of r with info-severity issues removed. Score
// and validity are unaffected since info issues carry no weight.
func (r *ValidationResult) WithoutInfo() *ValidationResult {
	out := *r
	out.Issues = make([]Issue, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Severity != SeverityInfo {
			out.Issues = append(out.Issues, issue)
		}
	}
	return &out
}

// CorrectionResult is the outcome of Correct.
type CorrectionResult struct {
	Original     string   `json:"original"`
	Corrected    string   `json:"corrected"`
	Issues       []Issue  `json:"issues"`
	AppliedFixes []string `json:"appliedFixes"`
	PresetUsed   string   `json:"presetUsed"`
	Timestamp    string   `json:"timestamp"`
}

// Score computes max(0, 100 - 15 per error - 5 per warning).
func Score(issues []Issue) int {
	errorCount, warningCount := Count(issues)
	score := 100 - 15*errorCount - 5*warningCount
	if score < 0 {
		return 0
	}
	return score
}

// Count returns the number of error and warning issues.
func Count(issues []Issue) (errorCount, warningCount int) {
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errorCount++
		case SeverityWarning:
			warningCount++
		}
	}
	return errorCount, warningCount
}

// Context is the caller's hint about what the submitted code is.
type Context string

const (
	ContextAuto       Context = "auto"
	ContextSidebar    Context = "sidebar"
	ContextSettings   Context = "settings"
	ContextDashboard  Context = "dashboard"
	ContextSurface    Context = "surface"
	ContextNavigation Context = "navigation"
	ContextForm       Context = "form"
)

// Contexts lists the accepted context hints.
var Contexts = []Context{
	ContextSidebar, ContextSettings, ContextDashboard, ContextSurface,
	ContextNavigation, ContextForm, ContextAuto,
}

// ParseContext validates a context hint; the empty string means auto.
func ParseContext(name string) (Context, error) {
	if name == "" {
		return ContextAuto, nil
	}
	for _, c := range Contexts {
		if string(c) == strings.ToLower(name) {
			return c, nil
		}
	}

	names := make([]string, len(Contexts))
	for i, c := range Contexts {
		names[i] = string(c)
	}
	return "", apperrors.ErrInvalidInput(
		fmt.Sprintf("unknown context %q (expected one of %s)", name, strings.Join(names, ", ")))
}

// MaxCodeLength bounds the source accepted by transports.
const MaxCodeLength = 10000

// CheckCodeLength rejects empty or oversized submissions.
func CheckCodeLength(code string) error {
	if strings.TrimSpace(code) == "" {
		return apperrors.ErrInvalidInput("code must not be empty")
	}
	if len(code) > MaxCodeLength {
		return apperrors.ErrInvalidInput(
			fmt.Sprintf("code is %d characters, the limit is %d", len(code), MaxCodeLength))
	}
	return nil
}

var now = time.Now

func timestamp() string {
	return now().UTC().Format("2006-01-02T15:04:05.000Z")
}
