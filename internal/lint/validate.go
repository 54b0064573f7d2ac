package lint

import (
	"fmt"
	"strings"

	"github.com/ncsound919/OG-Glass/internal/presets"
)

// check is one read-only validation step.
type check func(code string) []Issue

// validationChecks run in this order; the order only affects issue ordering.
var validationChecks = []check{
	checkColors,
	checkSpacing,
	checkGlassSurface,
	checkFontFamily,
	settingsIssues,
	sidebarIssues,
	checkAccessibility,
}

// Validate runs every validation check over code without modifying it. The
// result depends only on its arguments.
func Validate(code string, preset *presets.Preset, _ map[string]interface{}) *ValidationResult {
	issues := []Issue{}
	for _, c := range validationChecks {
		issues = append(issues, c(code)...)
	}

	errorCount, _ := Count(issues)

	return &ValidationResult{
		Valid:      errorCount == 0,
		Issues:     issues,
		Score:      Score(issues),
		PresetUsed: preset.ID(),
	}
}

func checkColors(code string) []Issue {
	var issues []Issue
	for _, s := range findColors(code) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Rule:     RuleNoHardcodedColors,
			Message:  fmt.Sprintf("Hardcoded color: %q", s.text(code)),
		})
	}
	return issues
}

func checkSpacing(code string) []Issue {
	var issues []Issue
	for _, s := range findPixels(code) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Rule:     RuleNoHardcodedSpacing,
			Message:  fmt.Sprintf("Hardcoded spacing: %q", s.text(code)),
		})
	}
	return issues
}

func checkGlassSurface(code string) []Issue {
	if !surfaceCuePattern.MatchString(code) || hasBackdropFilter(code) {
		return nil
	}
	return []Issue{{
		Severity: SeverityError,
		Rule:     RuleEnforceGlassSurface,
		Message:  "Surface element detected without glass treatment (backdropFilter).",
	}}
}

func checkFontFamily(code string) []Issue {
	var issues []Issue
	for _, m := range validateFontFamily.FindAllString(code, -1) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Rule:     RuleNoHardcodedFontFamily,
			Message:  m,
		})
	}
	return issues
}

func checkAccessibility(code string) []Issue {
	var issues []Issue
	for range findImgWithoutAlt(code) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Rule:     RuleA11yImgAlt,
			Message:  "<img> element missing alt attribute.",
			Fix:      `Add alt="" or descriptive alt text`,
		})
	}
	if strings.Contains(code, "IconButton") && !strings.Contains(code, "aria-label") {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Rule:     RuleA11yIconButtonLabel,
			Message:  "IconButton detected without aria-label.",
			Fix:      "Add aria-label prop to all icon-only buttons",
		})
	}
	return issues
}

// settingsIssues reports raw form controls not wrapped in the preset's
// settings components. Validation runs it on every input; correction only
// for settings code.
func settingsIssues(code string) []Issue {
	if !hasRawInputs(code) || hasSettingsComponents(code) {
		return nil
	}
	return []Issue{{
		Severity: SeverityError,
		Rule:     RuleEnforceSettingsComponents,
		Message:  "Settings UI must use OptionGroup and OptionRow components. Raw inputs are not allowed.",
		Fix:      "Wrap controls in <OptionGroup label='...'> with <OptionRow> children using the preset's settings primitives.",
	}}
}

// sidebarIssues reports sidebar markup that does not use the preset's nav
// components.
func sidebarIssues(code string) []Issue {
	if !containsFold(code, "sidebar") || hasNavComponents(code) {
		return nil
	}
	return []Issue{{
		Severity: SeverityError,
		Rule:     RuleEnforceSidebarComponents,
		Message:  "Sidebar content must use NavGroup and NavItem components from your preset.",
		Fix:      "Replace custom nav elements with <NavGroup> and <NavItem> from the preset system.",
	}}
}
