// Package generator turns a preset's component templates into source code:
// it applies a named variant, resolves {{token:...}} placeholders against the
// effective tokens and injects {{prop:...}} values.
package generator

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
	"github.com/ncsound919/OG-Glass/internal/presets"
	"github.com/ncsound919/OG-Glass/internal/tokens"
)

// DefaultVariant names the result of generating without a variant.
const DefaultVariant = "default"

// Request selects a template, its props and an optional variant.
type Request struct {
	Template string                 `json:"template_name"`
	Props    map[string]interface{} `json:"props,omitempty"`
	Variant  string                 `json:"variant,omitempty"`
}

// Result is the generated component.
type Result struct {
	Code              string                            `json:"code"`
	CSSModule         string                            `json:"cssModule,omitempty"`
	TemplateUsed      string                            `json:"templateUsed"`
	Variant           string                            `json:"variant"`
	AvailableProps    map[string]presets.PropDefinition `json:"availableProps"`
	AvailableVariants []string                          `json:"availableVariants"`
	UnresolvedTokens  []string                          `json:"unresolvedTokens,omitempty"`
}

// ApplyVariant returns base with every field the variant sets replaced. The
// replacement is one level deep: a variant props schema replaces the whole
// schema. base is not modified.
func ApplyVariant(base *presets.ComponentTemplate, v presets.ComponentVariant) *presets.ComponentTemplate {
	out := *base

	if v.Name != nil {
		out.Name = *v.Name
	}
	if v.Category != nil {
		out.Category = *v.Category
	}
	if v.Description != nil {
		out.Description = *v.Description
	}
	if v.PropsSchema != nil {
		out.PropsSchema = v.PropsSchema
	}
	if v.Template != nil {
		out.Template = *v.Template
	}
	if v.CSSModule != nil {
		out.CSSModule = *v.CSSModule
	}

	return &out
}

// InjectProps replaces every {{prop:key}} placeholder for each supplied prop.
// Keys are applied in sorted order; placeholders for props not supplied are
// left as they are.
func InjectProps(template string, props map[string]interface{}) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		template = strings.ReplaceAll(template, "{{prop:"+k+"}}", propString(props[k]))
	}
	return template
}

func propString(v interface{}) string {
	if v == nil {
		return "null"
	}
	return tokens.Stringify(v)
}

// Generate renders req.Template from preset using tree as the effective
// tokens.
func Generate(preset *presets.Preset, tree map[string]interface{}, req Request) (*Result, error) {
	base, ok := preset.Components[req.Template]
	if !ok {
		return nil, apperrors.NewNotFoundError(apperrors.ErrCodeTemplateNotFound,
			fmt.Sprintf("template '%s' not found in preset '%s'. Available: %s",
				req.Template, preset.ID(), strings.Join(preset.ComponentNames(), ", "))).
			WithPreset(preset.ID()).
			WithContext("available", preset.ComponentNames())
	}

	template := base
	variant := DefaultVariant
	if req.Variant != "" {
		v, ok := base.Variants[req.Variant]
		if !ok {
			available := "none"
			if names := base.VariantNames(); len(names) > 0 {
				available = strings.Join(names, ", ")
			}
			return nil, apperrors.NewNotFoundError(apperrors.ErrCodeVariantNotFound,
				fmt.Sprintf("variant '%s' not found for template '%s'. Available: %s",
					req.Variant, req.Template, available)).
				WithPreset(preset.ID())
		}
		template = ApplyVariant(base, v)
		variant = req.Variant
	}

	resolved := tokens.Resolve(template.Template, tree)
	code := InjectProps(resolved, req.Props)

	props := template.PropsSchema
	if props == nil {
		props = map[string]presets.PropDefinition{}
	}

	return &Result{
		Code:              code,
		CSSModule:         tokens.Resolve(template.CSSModule, tree),
		TemplateUsed:      req.Template,
		Variant:           variant,
		AvailableProps:    props,
		AvailableVariants: base.VariantNames(),
		UnresolvedTokens:  tokens.Placeholders(resolved),
	}, nil
}
