package tokens

import (
	"fmt"
	"strconv"
	"strings"
)

// GenerateCSS emits a :root block with one custom property per token. Sections
// come in a fixed order (colors, blur, spacing, typography, animation); entries
// of map-shaped groups are emitted in ascending key order.
func GenerateCSS(t *DesignTokens) string {
	lines := []string{":root {"}
	prop := func(name, value string) {
		lines = append(lines, fmt.Sprintf("  --%s: %s;", name, value))
	}

	lines = append(lines, "  /* Colors */")
	prop("color-bg", t.Colors.Base.Bg)
	prop("color-surface", t.Colors.Base.Surface)
	prop("color-border", t.Colors.Base.Border)
	prop("color-overlay", t.Colors.Base.Overlay)
	for _, k := range sortedKeys(t.Colors.Accent) {
		prop("color-accent-"+k, t.Colors.Accent[k])
	}
	prop("color-text-primary", t.Colors.Text.Primary)
	prop("color-text-secondary", t.Colors.Text.Secondary)
	prop("color-text-muted", t.Colors.Text.Muted)
	prop("color-text-inverse", t.Colors.Text.Inverse)
	prop("color-glass-tint", t.Colors.Glass.Tint)
	if t.Colors.Glass.TintHover != "" {
		prop("color-glass-tint-hover", t.Colors.Glass.TintHover)
	}
	prop("color-glass-highlight", t.Colors.Glass.Highlight)
	prop("color-glass-shadow", t.Colors.Glass.Shadow)

	lines = append(lines, "", "  /* Blur */")
	prop("blur-none", t.Blur.None)
	prop("blur-sm", t.Blur.Sm)
	prop("blur-md", t.Blur.Md)
	prop("blur-lg", t.Blur.Lg)
	prop("blur-xl", t.Blur.Xl)
	for _, level := range sortedKeys(t.Blur.Elevation) {
		prop("blur-elevation-"+level, t.Blur.Elevation[level])
	}

	lines = append(lines, "", "  /* Spacing */")
	for i, v := range t.Spacing.Scale {
		prop("spacing-"+strconv.Itoa(i), formatNumber(v)+"px")
	}
	prop("sidebar-width", t.Spacing.Sidebar.Width)
	prop("sidebar-collapsed-width", t.Spacing.Sidebar.CollapsedWidth)
	prop("card-padding", t.Spacing.Card.Padding)
	prop("card-gap", t.Spacing.Card.Gap)
	prop("card-radius", t.Spacing.Card.BorderRadius)

	lines = append(lines, "", "  /* Typography */")
	prop("font-display", t.Typography.FontFamily.Display)
	prop("font-body", t.Typography.FontFamily.Body)
	prop("font-mono", t.Typography.FontFamily.Mono)
	for _, k := range sortedKeys(t.Typography.Scale) {
		prop("text-"+k, t.Typography.Scale[k])
	}
	for _, k := range sortedKeys(t.Typography.Weight) {
		prop("font-weight-"+k, formatNumber(t.Typography.Weight[k]))
	}

	lines = append(lines, "", "  /* Animation */")
	for _, k := range sortedKeys(t.Animation.Duration) {
		prop("duration-"+k, t.Animation.Duration[k])
	}
	for _, k := range sortedKeys(t.Animation.Easing) {
		prop("easing-"+k, t.Animation.Easing[k])
	}
	prop("transition-default", t.Animation.Transition.Default)
	prop("transition-glass", t.Animation.Transition.Glass)
	prop("transition-sidebar", t.Animation.Transition.Sidebar)
	prop("transition-settings", t.Animation.Transition.Settings)

	lines = append(lines, "}")

	return strings.Join(lines, "\n")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
