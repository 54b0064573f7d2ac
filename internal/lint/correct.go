package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ncsound919/OG-Glass/internal/presets"
	"github.com/ncsound919/OG-Glass/internal/tokens"
)

// Mode says whether a pass may rewrite the text it inspects.
type Mode int

const (
	DetectOnly Mode = iota
	DetectAndRewrite
)

func (m Mode) String() string {
	if m == DetectAndRewrite {
		return "detect-and-rewrite"
	}
	return "detect-only"
}

// finding is one issue raised by a pass, optionally paired with an edit that
// replaces code[start:end] with replacement.
type finding struct {
	issue       Issue
	fix         string
	start, end  int
	replacement string
}

type passInput struct {
	code    string
	tokens  map[string]interface{}
	context Context
}

// pass is one correction step. Findings of a DetectAndRewrite pass are applied
// by rewrite, or spliced in by position when rewrite is nil.
type pass struct {
	name    string
	mode    Mode
	detect  func(in passInput) []finding
	rewrite func(code string, findings []finding) string
}

// correctionPasses run in order, each over the previous pass's output.
var correctionPasses = []pass{
	{name: "colors", mode: DetectAndRewrite, detect: detectColors},
	{name: "spacing", mode: DetectOnly, detect: detectSpacing},
	{name: "glass", mode: DetectAndRewrite, detect: detectGlassSurfaces},
	{name: "typography", mode: DetectOnly, detect: detectTypography},
	{name: "animation", mode: DetectOnly, detect: detectAnimation},
	{name: "sidebar", mode: DetectOnly, detect: detectSidebar},
	{name: "settings", mode: DetectOnly, detect: detectSettings},
	{name: "imports", mode: DetectAndRewrite, detect: detectMissingImports, rewrite: prependImports},
}

// PassInfo describes a correction pass for listings.
type PassInfo struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
}

// Passes lists the correction pipeline in execution order.
func Passes() []PassInfo {
	out := make([]PassInfo, len(correctionPasses))
	for i, p := range correctionPasses {
		out[i] = PassInfo{Name: p.name, Mode: p.mode.String()}
	}
	return out
}

// Options tunes Correct.
type Options struct {
	Context Context
}

// Correct threads code through every correction pass. Every occurrence of a
// rewritable pattern is rewritten, including repeated identical literals.
func Correct(code string, preset *presets.Preset, tree map[string]interface{}, opts Options) *CorrectionResult {
	result := &CorrectionResult{
		Original:     code,
		Issues:       []Issue{},
		AppliedFixes: []string{},
		PresetUsed:   preset.ID(),
	}

	current := code
	for _, p := range correctionPasses {
		findings := p.detect(passInput{code: current, tokens: tree, context: opts.Context})
		for _, f := range findings {
			result.Issues = append(result.Issues, f.issue)
			if p.mode == DetectAndRewrite && f.fix != "" {
				result.AppliedFixes = append(result.AppliedFixes, f.fix)
			}
		}
		if p.mode != DetectAndRewrite || len(findings) == 0 {
			continue
		}
		if p.rewrite != nil {
			current = p.rewrite(current, findings)
		} else {
			current = splice(current, findings)
		}
	}

	result.Corrected = current
	result.Timestamp = timestamp()

	return result
}

// splice applies non-overlapping edits from the last to the first so earlier
// offsets stay valid.
func splice(code string, findings []finding) string {
	edits := make([]finding, len(findings))
	copy(edits, findings)
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start > edits[j].start })

	for _, e := range edits {
		code = code[:e.start] + e.replacement + code[e.end:]
	}
	return code
}

func detectColors(in passInput) []finding {
	var out []finding
	for _, s := range findColors(in.code) {
		literal := s.text(in.code)
		out = append(out, finding{
			issue: Issue{
				Severity: SeverityError,
				Rule:     RuleNoHardcodedColors,
				Message:  fmt.Sprintf("Hardcoded color value found: %q. Use design tokens instead.", literal),
				Fix:      "Replace with CSS custom property from token system",
			},
			fix:         fmt.Sprintf("Replaced hardcoded color with token: %s", literal),
			start:       s.start,
			end:         s.end,
			replacement: colorVariable(in.code, s.start),
		})
	}
	return out
}

func detectSpacing(in passInput) []finding {
	var out []finding
	for _, s := range findPixels(in.code) {
		out = append(out, finding{issue: Issue{
			Severity: SeverityWarning,
			Rule:     RuleNoHardcodedSpacing,
			Message:  fmt.Sprintf("Hardcoded pixel spacing: %q. Use spacing tokens.", s.text(in.code)),
			Fix:      "Replace with spacing scale token",
		}})
	}
	return out
}

// detectGlassSurfaces injects an inline glass style after every surface-like
// className when the text has neither a backdrop filter nor any translucent
// background.
func detectGlassSurfaces(in passInput) []finding {
	if hasBackdropFilter(in.code) || hasTranslucency(in.code) {
		return nil
	}

	blur := tokenString(in.tokens, "blur.elevation.1")
	tint := tokenString(in.tokens, "colors.glass.tint")
	highlight := tokenString(in.tokens, "colors.glass.highlight")
	style := fmt.Sprintf(
		" style={{ backdropFilter: '%s', background: '%s', border: '1px solid %s' }}",
		blur, tint, highlight)

	var out []finding
	for _, m := range surfaceClassName.FindAllStringIndex(in.code, -1) {
		out = append(out, finding{
			issue: Issue{
				Severity: SeverityError,
				Rule:     RuleEnforceGlassSurface,
				Message:  "Surface component missing glass treatment. Add backdropFilter and semi-transparent background.",
				Fix: fmt.Sprintf("Apply glass tokens: backdrop-filter: %s; background: %s; border: 1px solid %s;",
					blur, tint, highlight),
			},
			fix:         "Injected glass surface treatment",
			start:       m[1],
			end:         m[1],
			replacement: style,
		})
	}
	return out
}

func detectTypography(in passInput) []finding {
	var out []finding
	for _, m := range correctFontFamily.FindAllString(in.code, -1) {
		if strings.Contains(m, "var(--font") {
			continue
		}
		out = append(out, finding{issue: Issue{
			Severity: SeverityError,
			Rule:     RuleNoHardcodedFontFamily,
			Message:  fmt.Sprintf("Hardcoded fontFamily: %q. Use typography tokens.", m),
			Fix:      "Use var(--font-body), var(--font-display), or var(--font-mono)",
		}})
	}
	for _, m := range fontSizePattern.FindAllString(in.code, -1) {
		out = append(out, finding{issue: Issue{
			Severity: SeverityWarning,
			Rule:     RuleNoHardcodedFontSize,
			Message:  fmt.Sprintf("Hardcoded fontSize: %q. Use typography scale tokens.", m),
			Fix:      "Use var(--text-sm), var(--text-base), var(--text-lg), etc.",
		}})
	}
	return out
}

func detectAnimation(in passInput) []finding {
	var out []finding
	for _, m := range transitionPattern.FindAllString(in.code, -1) {
		if strings.Contains(m, "var(--") {
			continue
		}
		out = append(out, finding{issue: Issue{
			Severity: SeverityWarning,
			Rule:     RuleUseAnimationTokens,
			Message:  fmt.Sprintf("Hardcoded transition timing: %q.", truncate(m, 60)),
			Fix:      "Use var(--transition-default) or var(--transition-glass)",
		}})
	}
	return out
}

func detectSidebar(in passInput) []finding {
	if in.context != ContextSidebar && !containsFold(in.code, "sidebar") {
		return nil
	}
	return asFindings(sidebarIssues(in.code))
}

func detectSettings(in passInput) []finding {
	if in.context != ContextSettings && !containsFold(in.code, "settings") {
		return nil
	}
	return asFindings(settingsIssues(in.code))
}

func detectMissingImports(in passInput) []finding {
	var out []finding
	for _, name := range presetComponents {
		if !componentUsePatterns[name].MatchString(in.code) || componentImportPatterns[name].MatchString(in.code) {
			continue
		}
		out = append(out, finding{
			issue: Issue{
				Severity: SeverityWarning,
				Rule:     RuleMissingImport,
				Message:  fmt.Sprintf("Component <%s> is used but not imported.", name),
				Fix:      fmt.Sprintf("Add: import { %s } from '@/components/preset';", name),
			},
			fix:         fmt.Sprintf("Injected missing import for %s", name),
			replacement: importLine(name),
		})
	}
	return out
}

// prependImports puts each import line at the very top in turn, so the last
// missing component ends up first.
func prependImports(code string, findings []finding) string {
	for _, f := range findings {
		code = f.replacement + code
	}
	return code
}

func importLine(name string) string {
	return fmt.Sprintf("import { %s } from '@/components/preset';\n", name)
}

func asFindings(issues []Issue) []finding {
	out := make([]finding, len(issues))
	for i, issue := range issues {
		out[i] = finding{issue: issue}
	}
	return out
}

func tokenString(tree map[string]interface{}, path string) string {
	if v, ok := tokens.Lookup(tree, path); ok {
		return tokens.Stringify(v)
	}
	return ""
}
