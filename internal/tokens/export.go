package tokens

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
)

// Format names a token export format.
type Format string

const (
	FormatCSS      Format = "css"
	FormatJS       Format = "js"
	FormatJSON     Format = "json"
	FormatTailwind Format = "tailwind"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatCSS, FormatJS, FormatJSON, FormatTailwind}

// ParseFormat validates a format name; the empty string selects css.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatCSS, nil
	}
	for _, f := range Formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}

	return "", apperrors.NewValidationError(
		apperrors.ErrCodeUnsupportedFormat,
		fmt.Sprintf("unsupported token format %q (expected css, js, json or tailwind)", name),
	)
}

// GenerateJSON renders the raw token tree with two-space indentation.
func GenerateJSON(tree map[string]interface{}) (string, error) {
	return marshalIndent(tree, "  ")
}

// GenerateExport renders a TypeScript module exporting the token tree as a
// const literal together with its derived type.
func GenerateExport(tree map[string]interface{}) (string, error) {
	body, err := marshalIndent(tree, "  ")
	if err != nil {
		return "", err
	}

	return "export const tokens = " + body + " as const;\n\nexport type Tokens = typeof tokens;\n", nil
}

type tailwindColors struct {
	Glass  GlassColors       `json:"glass"`
	Accent map[string]string `json:"accent"`
	Base   BaseColors        `json:"base"`
	Text   TextColors        `json:"text"`
}

type tailwindFontFamily struct {
	Display []string `json:"display"`
	Body    []string `json:"body"`
	Mono    []string `json:"mono"`
}

type tailwindExtend struct {
	Colors                   tailwindColors     `json:"colors"`
	BorderRadius             map[string]string  `json:"borderRadius"`
	FontFamily               tailwindFontFamily `json:"fontFamily"`
	FontSize                 map[string]string  `json:"fontSize"`
	FontWeight               map[string]string  `json:"fontWeight"`
	TransitionTimingFunction map[string]string  `json:"transitionTimingFunction"`
	TransitionDuration       map[string]string  `json:"transitionDuration"`
}

// GenerateTailwind renders the theme.extend fragment of a tailwind config.
func GenerateTailwind(t *DesignTokens) (string, error) {
	weights := make(map[string]string, len(t.Typography.Weight))
	for k, v := range t.Typography.Weight {
		weights[k] = formatNumber(v)
	}

	extend := tailwindExtend{
		Colors: tailwindColors{
			Glass:  t.Colors.Glass,
			Accent: nonNil(t.Colors.Accent),
			Base:   t.Colors.Base,
			Text:   t.Colors.Text,
		},
		BorderRadius: map[string]string{"card": t.Spacing.Card.BorderRadius},
		FontFamily: tailwindFontFamily{
			Display: []string{t.Typography.FontFamily.Display},
			Body:    []string{t.Typography.FontFamily.Body},
			Mono:    []string{t.Typography.FontFamily.Mono},
		},
		FontSize:                 nonNil(t.Typography.Scale),
		FontWeight:               weights,
		TransitionTimingFunction: nonNil(t.Animation.Easing),
		TransitionDuration:       nonNil(t.Animation.Duration),
	}

	body, err := marshalIndent(extend, "    ")
	if err != nil {
		return "", err
	}

	return "// tailwind.config.js – theme.extend\nmodule.exports = {\n  theme: {\n    extend: " +
		body + ",\n  },\n};\n", nil
}

// Header renders the comment block prepended to css, js and tailwind exports.
func Header(presetID, version string, generated time.Time) string {
	return fmt.Sprintf(
		"/* Generated by OG-Glass preset server\n   Preset: %s v%s\n   Generated: %s\n*/\n\n",
		presetID, version, generated.UTC().Format("2006-01-02T15:04:05.000Z"),
	)
}

func marshalIndent(v interface{}, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return "", apperrors.NewInternalError(apperrors.ErrCodeInternalError, "encoding tokens", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}

	return m
}
