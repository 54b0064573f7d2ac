package lint

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectInjectsGlassSurface(t *testing.T) {
	preset, tree := testPreset(t)
	code := `<div className="card" style={{background:"#ffffff"}}></div>`

	result := Correct(code, preset, tree, Options{})

	assert.Equal(t, code, result.Original)
	assert.Contains(t, result.Corrected, "backdropFilter")
	assert.Equal(t,
		`<div className="card" style={{ backdropFilter: 'blur(8px)', background: 'rgba(255,255,255,0.06)', `+
			`border: '1px solid rgba(255,255,255,0.12)' }} style={{background:"var(--color-surface)"}}></div>`,
		result.Corrected)

	var glass []Issue
	for _, issue := range result.Issues {
		if issue.Rule == RuleEnforceGlassSurface {
			glass = append(glass, issue)
		}
	}
	require.Len(t, glass, 1)
	assert.Equal(t, SeverityError, glass[0].Severity)
	assert.Contains(t, glass[0].Fix, "backdrop-filter: blur(8px)")

	assert.Equal(t, []string{
		"Replaced hardcoded color with token: #ffffff",
		"Injected glass surface treatment",
	}, result.AppliedFixes)
	assert.Equal(t, "glassmorphic-base", result.PresetUsed)
}

func TestCorrectSkipsGlassWhenTranslucent(t *testing.T) {
	preset, tree := testPreset(t)

	tests := []string{
		`<div className="panel" style={{ backdropFilter: 'blur(4px)' }} />`,
		`<div className="panel" style={{ background: 'var(--glass-tint)' }} />`,
		`<div className="panel" style={{ background: 'var(--color-glass-tint)' }} />`,
	}
	for _, code := range tests {
		result := Correct(code, preset, tree, Options{})
		assert.Equal(t, code, result.Corrected)
		assert.NotContains(t, rules(result.Issues), RuleEnforceGlassSurface)
	}
}

func TestCorrectGlassIgnoresColorsAlreadyRewritten(t *testing.T) {
	preset, tree := testPreset(t)

	// The rgba literal is replaced by the color pass before the glass pass
	// looks for translucency cues.
	result := Correct(`<section className="surface-box" style={{ background: "rgba(0,0,0,0.2)" }} />`,
		preset, tree, Options{})

	assert.Contains(t, result.Corrected, "backdropFilter")
	assert.Equal(t, []string{RuleNoHardcodedColors, RuleEnforceGlassSurface}, rules(result.Issues))
}

func TestCorrectRewritesEveryRepeatedLiteral(t *testing.T) {
	preset, tree := testPreset(t)
	code := "color: #ff0000;\nborder-color: #ff0000;"

	result := Correct(code, preset, tree, Options{})

	assert.Equal(t, "color: var(--color-text-primary);\nborder-color: var(--color-border);", result.Corrected)
	assert.NotContains(t, result.Corrected, "#ff0000")
	assert.Equal(t, []string{RuleNoHardcodedColors, RuleNoHardcodedColors}, rules(result.Issues))
	assert.Len(t, result.AppliedFixes, 2)
}

func TestCorrectDetectOnlyPasses(t *testing.T) {
	preset, tree := testPreset(t)
	code := `<p style={{ fontFamily: "Inter", fontSize: "14px", transition: "opacity 300ms ease", margin: "8px" }}>x</p>`

	result := Correct(code, preset, tree, Options{})

	assert.Equal(t, code, result.Corrected)
	assert.Equal(t, []string{
		RuleNoHardcodedSpacing,
		RuleNoHardcodedSpacing,
		RuleNoHardcodedFontFamily,
		RuleNoHardcodedFontSize,
		RuleUseAnimationTokens,
	}, rules(result.Issues))
	assert.Empty(t, result.AppliedFixes)
	assert.NotNil(t, result.AppliedFixes)
}

func TestCorrectAnimationMessageIsTruncated(t *testing.T) {
	preset, tree := testPreset(t)
	code := `transition: "background-color 250ms cubic-bezier(0.4, 0, 0.2, 1), border-color 250ms ease-in-out"`

	result := Correct(code, preset, tree, Options{})

	require.Equal(t, []string{RuleUseAnimationTokens}, rules(result.Issues))
	expected := `transition: "background-color 250ms cubic-bezier(0.4, 0, 0.2`
	assert.Len(t, []rune(expected), 60)
	assert.Equal(t, fmt.Sprintf("Hardcoded transition timing: %q.", expected), result.Issues[0].Message)
}

func TestCorrectAnimationTokenIsAccepted(t *testing.T) {
	preset, tree := testPreset(t)

	result := Correct(`transition: "var(--transition-default), opacity 200ms"`, preset, tree, Options{})
	assert.Empty(t, result.Issues)
}

func TestCorrectContextGates(t *testing.T) {
	preset, tree := testPreset(t)

	tests := []struct {
		name     string
		code     string
		context  Context
		expected []string
	}{
		{"settings by context", `<input type="checkbox" />`, ContextSettings, []string{RuleEnforceSettingsComponents}},
		{"settings by mention", `<label>Settings</label><select />`, ContextAuto, []string{RuleEnforceSettingsComponents}},
		{"no settings", `<input type="checkbox" />`, ContextAuto, []string{}},
		{"sidebar context without mention", `<nav>links</nav>`, ContextSidebar, []string{}},
		{"sidebar mention", `<nav className="sidebar">links</nav>`, ContextAuto, []string{RuleEnforceSidebarComponents}},
		{"sidebar with nav items", `<nav className="sidebar"><NavItem /></nav>`, ContextSidebar, []string{RuleMissingImport}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Correct(tt.code, preset, tree, Options{Context: tt.context})
			assert.Equal(t, tt.expected, rules(result.Issues))
		})
	}
}

func TestCorrectInjectsImportsLastFirst(t *testing.T) {
	preset, tree := testPreset(t)
	code := "<NavItem label=\"Home\" />\n<OptionRow />"

	result := Correct(code, preset, tree, Options{})

	assert.Equal(t,
		"import { OptionRow } from '@/components/preset';\n"+
			"import { NavItem } from '@/components/preset';\n"+
			code,
		result.Corrected)
	assert.Equal(t, []string{
		"Injected missing import for NavItem",
		"Injected missing import for OptionRow",
	}, result.AppliedFixes)
	assert.Equal(t, []string{RuleMissingImport, RuleMissingImport}, rules(result.Issues))
}

func TestCorrectKeepsExistingImports(t *testing.T) {
	preset, tree := testPreset(t)
	code := "import { NavGroup, NavItem } from '@/components/preset';\n<NavGroup><NavItem /></NavGroup>"

	result := Correct(code, preset, tree, Options{})

	assert.Equal(t, code, result.Corrected)
	assert.Empty(t, result.Issues)
}

func TestCorrectTimestamp(t *testing.T) {
	preset, tree := testPreset(t)
	original := now
	t.Cleanup(func() { now = original })
	now = func() time.Time { return time.Date(2026, 7, 8, 9, 10, 11, 12_000_000, time.FixedZone("X", 3600)) }

	result := Correct("<div />", preset, tree, Options{})
	assert.Equal(t, "2026-07-08T08:10:11.012Z", result.Timestamp)
}

func TestCorrectCleanCodeIsUnchanged(t *testing.T) {
	preset, tree := testPreset(t)
	code := `<GlassCard style={{ backdropFilter: 'var(--blur-md)' }}>ok</GlassCard>`

	result := Correct("import { GlassCard } from '@/components/preset';\n"+code, preset, tree, Options{})

	assert.Empty(t, result.Issues)
	assert.Equal(t, result.Original, result.Corrected)
}

func TestPasses(t *testing.T) {
	passes := Passes()

	require.Len(t, passes, 8)
	assert.Equal(t, PassInfo{Name: "colors", Mode: "detect-and-rewrite"}, passes[0])
	assert.Equal(t, PassInfo{Name: "spacing", Mode: "detect-only"}, passes[1])
	assert.Equal(t, "imports", passes[7].Name)
}

func TestSplice(t *testing.T) {
	code := "abcdef"
	out := splice(code, []finding{
		{start: 0, end: 1, replacement: "A"},
		{start: 6, end: 6, replacement: "!"},
		{start: 2, end: 4, replacement: "--"},
	})
	assert.Equal(t, "Ab--ef!", out)
}
