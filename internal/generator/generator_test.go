package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
	"github.com/ncsound919/OG-Glass/internal/presets"
	"github.com/ncsound919/OG-Glass/internal/testutils"
)

func strPtr(s string) *string { return &s }

func cardPreset(t *testing.T) *presets.Preset {
	t.Helper()

	return &presets.Preset{
		Manifest: presets.Manifest{ID: "glassmorphic-base"},
		Tokens:   testutils.BaseTokens(t),
		Components: map[string]*presets.ComponentTemplate{
			"GlassCard": {
				Name:     "GlassCard",
				Category: presets.CategorySurface,
				PropsSchema: map[string]presets.PropDefinition{
					"title": {Type: "string", Required: true},
				},
				Template:  `<div style={{ background: '{{token:colors.glass.tint}}', color: '{{token:colors.missing}}' }}>{{prop:title}} {{prop:title}} {{prop:footer}}</div>`,
				CSSModule: `.card { backdrop-filter: {{token:blur.elevation.2}}; }`,
				Variants: map[string]presets.ComponentVariant{
					"compact": {Template: strPtr(`<div className="compact">{{prop:title}}</div>`)},
					"wide":    {Description: strPtr("Wide card")},
				},
			},
			"Button": {Name: "Button", Category: presets.CategoryFeedback, Template: "<button />"},
		},
		Layouts: map[string]*presets.LayoutTemplate{
			"dashboard": {Name: "dashboard", Regions: []string{"sidebar", "main"}},
			"blank":     {Name: "blank"},
		},
	}
}

func TestGenerate(t *testing.T) {
	preset := cardPreset(t)

	result, err := Generate(preset, preset.Tokens, Request{
		Template: "GlassCard",
		Props:    map[string]interface{}{"title": "Revenue"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		`<div style={{ background: 'rgba(255,255,255,0.06)', color: '{{token:colors.missing}}' }}>Revenue Revenue {{prop:footer}}</div>`,
		result.Code)
	assert.Equal(t, `.card { backdrop-filter: blur(16px); }`, result.CSSModule)
	assert.Equal(t, "GlassCard", result.TemplateUsed)
	assert.Equal(t, DefaultVariant, result.Variant)
	assert.Equal(t, []string{"compact", "wide"}, result.AvailableVariants)
	assert.Equal(t, []string{"colors.missing"}, result.UnresolvedTokens)
	assert.Contains(t, result.AvailableProps, "title")
}

func TestGenerateWithVariant(t *testing.T) {
	preset := cardPreset(t)

	result, err := Generate(preset, preset.Tokens, Request{
		Template: "GlassCard",
		Props:    map[string]interface{}{"title": "Hi"},
		Variant:  "compact",
	})
	require.NoError(t, err)

	assert.Equal(t, `<div className="compact">Hi</div>`, result.Code)
	assert.Equal(t, "compact", result.Variant)
	assert.Contains(t, result.AvailableProps, "title")
	assert.Empty(t, result.UnresolvedTokens)
}

func TestGenerateErrors(t *testing.T) {
	preset := cardPreset(t)

	tests := []struct {
		name    string
		req     Request
		code    string
		message string
	}{
		{"unknown template", Request{Template: "Nope"}, apperrors.ErrCodeTemplateNotFound, "Available: Button, GlassCard"},
		{"unknown variant", Request{Template: "GlassCard", Variant: "huge"}, apperrors.ErrCodeVariantNotFound, "Available: compact, wide"},
		{"no variants", Request{Template: "Button", Variant: "huge"}, apperrors.ErrCodeVariantNotFound, "Available: none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(preset, preset.Tokens, tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestApplyVariant(t *testing.T) {
	category := presets.CategoryData
	base := &presets.ComponentTemplate{
		Name:        "Table",
		Category:    presets.CategorySurface,
		Description: "Base",
		PropsSchema: map[string]presets.PropDefinition{"rows": {Type: "array"}},
		Template:    "<table />",
		CSSModule:   ".t {}",
	}

	tests := []struct {
		name    string
		variant presets.ComponentVariant
		check   func(t *testing.T, out *presets.ComponentTemplate)
	}{
		{
			name:    "empty variant keeps everything",
			variant: presets.ComponentVariant{},
			check: func(t *testing.T, out *presets.ComponentTemplate) {
				assert.Equal(t, base, out)
			},
		},
		{
			name:    "template only",
			variant: presets.ComponentVariant{Template: strPtr("<table class='dense' />")},
			check: func(t *testing.T, out *presets.ComponentTemplate) {
				assert.Equal(t, "<table class='dense' />", out.Template)
				assert.Equal(t, ".t {}", out.CSSModule)
				assert.Equal(t, "Base", out.Description)
			},
		},
		{
			name: "props schema replaced whole",
			variant: presets.ComponentVariant{
				PropsSchema: map[string]presets.PropDefinition{"dense": {Type: "boolean"}},
				Category:    &category,
			},
			check: func(t *testing.T, out *presets.ComponentTemplate) {
				assert.Equal(t, []string{"dense"}, out.PropNames())
				assert.Equal(t, presets.CategoryData, out.Category)
			},
		},
		{
			name:    "empty string still replaces",
			variant: presets.ComponentVariant{CSSModule: strPtr("")},
			check: func(t *testing.T, out *presets.ComponentTemplate) {
				assert.Equal(t, "", out.CSSModule)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ApplyVariant(base, tt.variant)
			tt.check(t, out)
			assert.Equal(t, "<table />", base.Template)
			assert.Equal(t, []string{"rows"}, base.PropNames())
		})
	}
}

func TestInjectProps(t *testing.T) {
	tests := []struct {
		name     string
		template string
		props    map[string]interface{}
		expected string
	}{
		{"string", "Hello {{prop:name}}", map[string]interface{}{"name": "Ada"}, "Hello Ada"},
		{"repeated", "{{prop:a}}-{{prop:a}}", map[string]interface{}{"a": "x"}, "x-x"},
		{"number and bool", "{{prop:n}} {{prop:b}}", map[string]interface{}{"n": 3, "b": true}, "3 true"},
		{"null", "{{prop:v}}", map[string]interface{}{"v": nil}, "null"},
		{"unknown stays", "{{prop:missing}}", map[string]interface{}{"other": "x"}, "{{prop:missing}}"},
		{"regex chars in key", "{{prop:a.b}} {{prop:aXb}}", map[string]interface{}{"a.b": "dot"}, "dot {{prop:aXb}}"},
		{"no props", "{{prop:a}}", nil, "{{prop:a}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InjectProps(tt.template, tt.props))
		})
	}
}

func TestListings(t *testing.T) {
	preset := cardPreset(t)

	components := Components(preset)
	require.Len(t, components, 2)
	assert.Equal(t, "Button", components[0].Name)
	assert.Equal(t, ComponentInfo{
		Name:     "GlassCard",
		Category: presets.CategorySurface,
		Variants: []string{"compact", "wide"},
		Props:    []string{"title"},
	}, components[1])

	layouts := Layouts(preset)
	assert.Equal(t, []LayoutInfo{
		{Name: "blank", Regions: []string{}},
		{Name: "dashboard", Regions: []string{"sidebar", "main"}},
	}, layouts)
}
