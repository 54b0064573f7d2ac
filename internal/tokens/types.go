// Package tokens holds the design-token model: the generic token tree used for
// merging, placeholder resolution and raw export, the typed DesignTokens shape
// used by the CSS and Tailwind generators, and the generators themselves.
package tokens

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
)

// DesignTokens is the fully resolved token shape a root preset must supply.
type DesignTokens struct {
	Colors     ColorTokens      `json:"colors"`
	Blur       BlurTokens       `json:"blur"`
	Spacing    SpacingTokens    `json:"spacing"`
	Typography TypographyTokens `json:"typography"`
	Animation  AnimationTokens  `json:"animation"`
}

type ColorTokens struct {
	Base   BaseColors        `json:"base"`
	Accent map[string]string `json:"accent"`
	Text   TextColors        `json:"text"`
	Glass  GlassColors       `json:"glass"`
}

type BaseColors struct {
	Bg      string `json:"bg"`
	Surface string `json:"surface"`
	Border  string `json:"border"`
	Overlay string `json:"overlay"`
}

type TextColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Muted     string `json:"muted"`
	Inverse   string `json:"inverse"`
}

type GlassColors struct {
	Tint      string `json:"tint"`
	TintHover string `json:"tintHover,omitempty"`
	Highlight string `json:"highlight"`
	Shadow    string `json:"shadow"`
}

// BlurTokens carries named blur levels plus elevation layers keyed "0".."4".
type BlurTokens struct {
	None      string            `json:"none"`
	Sm        string            `json:"sm"`
	Md        string            `json:"md"`
	Lg        string            `json:"lg"`
	Xl        string            `json:"xl"`
	Elevation map[string]string `json:"elevation"`
}

type SpacingTokens struct {
	Scale    []float64       `json:"scale"`
	Sidebar  SidebarSpacing  `json:"sidebar"`
	Card     CardSpacing     `json:"card"`
	Settings SettingsSpacing `json:"settings"`
}

type SidebarSpacing struct {
	Width          string `json:"width"`
	CollapsedWidth string `json:"collapsedWidth"`
	Padding        string `json:"padding"`
}

type CardSpacing struct {
	Padding      string `json:"padding"`
	Gap          string `json:"gap"`
	BorderRadius string `json:"borderRadius"`
}

type SettingsSpacing struct {
	RowHeight  string `json:"rowHeight"`
	SectionGap string `json:"sectionGap"`
	LabelWidth string `json:"labelWidth"`
}

type TypographyTokens struct {
	FontFamily FontFamilies           `json:"fontFamily"`
	Scale      map[string]string      `json:"scale"`
	Weight     map[string]float64     `json:"weight"`
	LineHeight map[string]interface{} `json:"lineHeight,omitempty"`
}

type FontFamilies struct {
	Display string `json:"display"`
	Body    string `json:"body"`
	Mono    string `json:"mono"`
}

type AnimationTokens struct {
	Duration   map[string]string `json:"duration"`
	Easing     map[string]string `json:"easing"`
	Transition Transitions       `json:"transition"`
}

type Transitions struct {
	Default  string `json:"default"`
	Glass    string `json:"glass"`
	Sidebar  string `json:"sidebar"`
	Settings string `json:"settings"`
}

// ParseTree decodes a JSON object into a token tree. Numbers are kept as
// json.Number so they round-trip exactly.
func ParseTree(data []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tree map[string]interface{}
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	if tree == nil {
		tree = map[string]interface{}{}
	}

	return tree, nil
}

// Decode converts a token tree into the typed shape.
func Decode(tree map[string]interface{}) (*DesignTokens, error) {
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, apperrors.NewInternalError(apperrors.ErrCodeInternalError, "encoding token tree", err)
	}

	var dt DesignTokens
	if err := json.Unmarshal(raw, &dt); err != nil {
		return nil, apperrors.NewValidationError(
			apperrors.ErrCodeTokenShapeMismatch,
			"tokens do not match the design token shape",
		).WithContext("detail", err.Error())
	}

	return &dt, nil
}

// MissingFields lists the dotted paths of required leaves that are empty.
// Root presets are expected to return nothing here.
func (d *DesignTokens) MissingFields() []string {
	var missing []string
	check := func(path, value string) {
		if value == "" {
			missing = append(missing, path)
		}
	}

	check("colors.base.bg", d.Colors.Base.Bg)
	check("colors.base.surface", d.Colors.Base.Surface)
	check("colors.base.border", d.Colors.Base.Border)
	check("colors.base.overlay", d.Colors.Base.Overlay)
	check("colors.text.primary", d.Colors.Text.Primary)
	check("colors.text.secondary", d.Colors.Text.Secondary)
	check("colors.text.muted", d.Colors.Text.Muted)
	check("colors.text.inverse", d.Colors.Text.Inverse)
	check("colors.glass.tint", d.Colors.Glass.Tint)
	check("colors.glass.highlight", d.Colors.Glass.Highlight)
	check("colors.glass.shadow", d.Colors.Glass.Shadow)
	check("blur.none", d.Blur.None)
	check("blur.sm", d.Blur.Sm)
	check("blur.md", d.Blur.Md)
	check("blur.lg", d.Blur.Lg)
	check("blur.xl", d.Blur.Xl)
	for _, level := range []string{"0", "1", "2", "3", "4"} {
		check("blur.elevation."+level, d.Blur.Elevation[level])
	}
	check("spacing.sidebar.width", d.Spacing.Sidebar.Width)
	check("spacing.sidebar.collapsedWidth", d.Spacing.Sidebar.CollapsedWidth)
	check("spacing.card.padding", d.Spacing.Card.Padding)
	check("spacing.card.gap", d.Spacing.Card.Gap)
	check("spacing.card.borderRadius", d.Spacing.Card.BorderRadius)
	check("typography.fontFamily.display", d.Typography.FontFamily.Display)
	check("typography.fontFamily.body", d.Typography.FontFamily.Body)
	check("typography.fontFamily.mono", d.Typography.FontFamily.Mono)
	check("animation.transition.default", d.Animation.Transition.Default)
	check("animation.transition.glass", d.Animation.Transition.Glass)
	check("animation.transition.sidebar", d.Animation.Transition.Sidebar)
	check("animation.transition.settings", d.Animation.Transition.Settings)

	if len(d.Spacing.Scale) == 0 {
		missing = append(missing, "spacing.scale")
	}
	if len(d.Colors.Accent) == 0 {
		missing = append(missing, "colors.accent")
	}

	return missing
}

// Elevation returns the blur for an elevation level, or "" when absent.
func (d *DesignTokens) Elevation(level int) string {
	return d.Blur.Elevation[fmt.Sprint(level)]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
