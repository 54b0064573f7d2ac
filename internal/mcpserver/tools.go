package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
	"github.com/ncsound919/OG-Glass/internal/generator"
	"github.com/ncsound919/OG-Glass/internal/lint"
	"github.com/ncsound919/OG-Glass/internal/presets"
)

// Tool names.
const (
	ToolLoadPreset           = "load_preset"
	ToolSwapTemplate         = "swap_template"
	ToolListPresets          = "list_presets"
	ToolDiffPresets          = "diff_presets"
	ToolGetSessionState      = "get_session_state"
	ToolScaffoldPreset       = "scaffold_preset"
	ToolAutocorrect          = "autocorrect_component"
	ToolValidateUI           = "validate_ui"
	ToolGenerateComponent    = "generate_component"
	ToolGenerateTokens       = "generate_tokens"
	ToolApplyTokenOverrides  = "apply_token_overrides"
	ToolGenerateColorPalette = "generate_color_palette"
	ToolSuggestStyle         = "suggest_style"
	ToolListStyleCategories  = "list_style_categories"
)

func readOnly() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	}
}

func tool(name, title, description string, opts ...mcp.ToolOption) mcp.Tool {
	base := []mcp.ToolOption{mcp.WithDescription(description), mcp.WithTitleAnnotation(title)}
	return mcp.NewTool(name, append(base, opts...)...)
}

func (s *Server) registerTools() {
	s.registerPresetTools()
	s.registerCorrectionTools()
	s.registerStyleTools()
}

func (s *Server) registerPresetTools() {
	s.mcp.AddTool(tool(ToolLoadPreset, "Load Preset",
		"Activate a UI preset bundle by ID. Loads all tokens, component templates and layout templates, "+
			"resolving the extends chain. Any runtime overrides are discarded.",
		mcp.WithString("preset_id", mcp.Required(),
			mcp.Description("Preset folder name in the presets directory (e.g. 'glassmorphic-base')")),
		mcp.WithBoolean("force_reload", mcp.DefaultBool(false),
			mcp.Description("Bypass the cache and re-read from disk")),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	), s.wrap(ToolLoadPreset, s.loadPreset))

	s.mcp.AddTool(tool(ToolSwapTemplate, "Swap Template",
		"Hot-swap the active preset without restarting the server, optionally keeping the current overrides.",
		mcp.WithString("preset_id", mcp.Required(), mcp.Description("The preset to switch to")),
		mcp.WithBoolean("preserve_overrides", mcp.DefaultBool(false),
			mcp.Description("Keep current overrides after the swap")),
		mcp.WithOpenWorldHintAnnotation(false),
	), s.wrap(ToolSwapTemplate, s.swapTemplate))

	s.mcp.AddTool(tool(ToolListPresets, "List Presets",
		"List all available presets. Optionally includes manifest metadata for each preset.",
		append(readOnly(),
			mcp.WithBoolean("include_metadata", mcp.DefaultBool(false),
				mcp.Description("Include the manifest summary for each preset")),
		)...,
	), s.wrap(ToolListPresets, s.listPresets))

	s.mcp.AddTool(tool(ToolDiffPresets, "Diff Presets",
		"Compare two presets and return the added, removed and changed token paths, components and layouts.",
		append(readOnly(),
			mcp.WithString("preset_a", mcp.Required(), mcp.Description("First preset ID")),
			mcp.WithString("preset_b", mcp.Required(), mcp.Description("Second preset ID")),
			mcp.WithString("scope", mcp.Enum("tokens", "components", "layouts", "all"),
				mcp.DefaultString("all"), mcp.Description("What to compare")),
		)...,
	), s.wrap(ToolDiffPresets, s.diffPresets))

	s.mcp.AddTool(tool(ToolGetSessionState, "Get Session State",
		"Returns the current session: active preset ID, load time and any runtime token overrides.",
		readOnly()...,
	), s.wrap(ToolGetSessionState, s.sessionState))

	s.mcp.AddTool(tool(ToolScaffoldPreset, "Scaffold Preset",
		"Create a new preset directory with a manifest and a token override scaffold, inheriting from a parent preset.",
		mcp.WithString("preset_id", mcp.Required(), mcp.Description("Kebab-case ID for the new preset")),
		mcp.WithString("name", mcp.Description("Human-readable display name")),
		mcp.WithString("description", mcp.Description("Short description")),
		mcp.WithString("extends", mcp.Description("Parent preset to inherit from")),
		mcp.WithString("accent_color", mcp.Description("Accent color (#rrggbb) written into the scaffolded tokens")),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	), s.wrap(ToolScaffoldPreset, s.scaffoldPreset))
}

func (s *Server) registerCorrectionTools() {
	s.mcp.AddTool(tool(ToolAutocorrect, "Autocorrect Component",
		"Analyze a React component and auto-correct it against the active preset. "+
			"Hardcoded colors become token variables, surfaces get glass treatment and missing preset imports are added.",
		append(readOnly(),
			mcp.WithString("code", mcp.Required(),
				mcp.Description(fmt.Sprintf("React component source code (max %d chars)", lint.MaxCodeLength))),
			mcp.WithString("context",
				mcp.Enum("sidebar", "settings", "dashboard", "surface", "navigation", "form", "auto"),
				mcp.DefaultString("auto"), mcp.Description("Component context hint for targeted rules")),
			mcp.WithBoolean("dry_run", mcp.DefaultBool(false),
				mcp.Description("Return issues without changing code")),
		)...,
	), s.wrap(ToolAutocorrect, s.autocorrect))

	s.mcp.AddTool(tool(ToolValidateUI, "Validate UI",
		"Validate a React component against the active preset rules without modifying code. Returns issues and a 0-100 score.",
		append(readOnly(),
			mcp.WithString("code", mcp.Required(), mcp.Description("React component source code to validate")),
			mcp.WithBoolean("include_suggestions", mcp.DefaultBool(true),
				mcp.Description("Include info-level suggestions")),
		)...,
	), s.wrap(ToolValidateUI, s.validateUI))

	s.mcp.AddTool(tool(ToolGenerateComponent, "Generate Component",
		"Generate a React component from a preset template with tokens resolved and props injected.",
		append(readOnly(),
			mcp.WithString("template_name", mcp.Required(),
				mcp.Description("Component template to generate (e.g. 'GlassCard')")),
			mcp.WithObject("props", mcp.Description("Props to inject into the template")),
			mcp.WithString("variant", mcp.Description("Template variant (e.g. 'compact')")),
		)...,
	), s.wrap(ToolGenerateComponent, s.generateComponent))

	s.mcp.AddTool(tool(ToolGenerateTokens, "Generate Tokens",
		"Export the active preset's design tokens, overrides applied, as CSS custom properties, a JS module, JSON or a Tailwind config.",
		append(readOnly(),
			mcp.WithString("format", mcp.Enum("css", "js", "json", "tailwind"), mcp.DefaultString("css"),
				mcp.Description("Output format")),
			mcp.WithBoolean("include_comments", mcp.DefaultBool(true),
				mcp.Description("Prepend a header naming the preset")),
		)...,
	), s.wrap(ToolGenerateTokens, s.generateTokens))

	s.mcp.AddTool(tool(ToolApplyTokenOverrides, "Apply Token Overrides",
		"Apply runtime token overrides on top of the active preset (deep merged), optionally persisting them to overrides.json.",
		mcp.WithObject("overrides", mcp.Required(),
			mcp.Description("Partial token tree deeply merged over the active tokens")),
		mcp.WithBoolean("persist", mcp.DefaultBool(false),
			mcp.Description("Write overrides to the preset's overrides.json")),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	), s.wrap(ToolApplyTokenOverrides, s.applyTokenOverrides))
}

func (s *Server) registerStyleTools() {
	s.mcp.AddTool(tool(ToolGenerateColorPalette, "Generate Color Palette",
		"Generate a harmonious color palette from a seed hex color using color theory.",
		append(readOnly(),
			mcp.WithString("seed_color", mcp.Required(), mcp.Description("Seed color as #rrggbb")),
			mcp.WithString("harmony",
				mcp.Enum("complementary", "triadic", "analogous", "monochromatic", "split-complementary", "tetradic"),
				mcp.DefaultString("complementary"), mcp.Description("Color harmony rule")),
			mcp.WithBoolean("include_shades", mcp.DefaultBool(true),
				mcp.Description("Include a 50-900 shade scale")),
		)...,
	), s.wrap(ToolGenerateColorPalette, s.colorPalette))

	s.mcp.AddTool(tool(ToolSuggestStyle, "Suggest Style",
		"Suggest a style category, presets and token overrides from a natural-language aesthetic description.",
		append(readOnly(),
			mcp.WithString("description", mcp.Required(),
				mcp.Description("Desired look and feel (e.g. 'dark hacker terminal', 'professional fintech dashboard')")),
			mcp.WithString("output_format", mcp.Enum("full", "tokens", "preset_id"),
				mcp.DefaultString("full"), mcp.Description("Shape of the suggestion")),
		)...,
	), s.wrap(ToolSuggestStyle, s.suggestStyle))

	s.mcp.AddTool(tool(ToolListStyleCategories, "List Style Categories",
		"List the design style categories with descriptions, design principles and associated presets.",
		append(readOnly(),
			mcp.WithBoolean("include_presets", mcp.DefaultBool(true),
				mcp.Description("Include the presets of each category")),
		)...,
	), s.wrap(ToolListStyleCategories, s.styleCategories))
}

func requireString(req mcp.CallToolRequest, key string) (string, error) {
	value, err := req.RequireString(key)
	if err != nil || value == "" {
		return "", apperrors.ErrInvalidInput(key + " is required")
	}
	return value, nil
}

// object reads an optional JSON object argument.
func object(req mcp.CallToolRequest, key string) (map[string]interface{}, bool, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, false, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, false, apperrors.ErrInvalidInput(key + " must be an object")
	}
	return m, true, nil
}

func (s *Server) loadPreset(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	id, err := requireString(req, "preset_id")
	if err != nil {
		return nil, err
	}
	return s.studio.LoadPreset(ctx, id, req.GetBool("force_reload", false))
}

func (s *Server) swapTemplate(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	id, err := requireString(req, "preset_id")
	if err != nil {
		return nil, err
	}
	return s.studio.SwapPreset(ctx, id, req.GetBool("preserve_overrides", false))
}

func (s *Server) listPresets(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	if req.GetBool("include_metadata", false) {
		return map[string]interface{}{"presets": s.studio.Manifests(ctx)}, nil
	}
	return map[string]interface{}{"presets": s.studio.ListPresets(ctx)}, nil
}

func (s *Server) diffPresets(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	a, err := requireString(req, "preset_a")
	if err != nil {
		return nil, err
	}
	b, err := requireString(req, "preset_b")
	if err != nil {
		return nil, err
	}
	return s.studio.Diff(ctx, a, b, req.GetString("scope", "all"))
}

func (s *Server) sessionState(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	return s.studio.SessionSummary(), nil
}

func (s *Server) scaffoldPreset(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	id, err := requireString(req, "preset_id")
	if err != nil {
		return nil, err
	}
	return s.studio.Scaffold(ctx, presets.ScaffoldRequest{
		ID:          id,
		Name:        req.GetString("name", ""),
		Description: req.GetString("description", ""),
		Extends:     req.GetString("extends", ""),
		AccentColor: req.GetString("accent_color", ""),
	})
}

func (s *Server) autocorrect(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	code, err := requireString(req, "code")
	if err != nil {
		return nil, err
	}
	return s.studio.Autocorrect(code, req.GetString("context", "auto"), req.GetBool("dry_run", false))
}

func (s *Server) validateUI(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	code, err := requireString(req, "code")
	if err != nil {
		return nil, err
	}
	if err := lint.CheckCodeLength(code); err != nil {
		return nil, err
	}
	return s.studio.Validate(code, req.GetBool("include_suggestions", true))
}

func (s *Server) generateComponent(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	name, err := requireString(req, "template_name")
	if err != nil {
		return nil, err
	}
	props, _, err := object(req, "props")
	if err != nil {
		return nil, err
	}
	return s.studio.Generate(generator.Request{
		Template: name,
		Props:    props,
		Variant:  req.GetString("variant", ""),
	})
}

func (s *Server) generateTokens(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	return s.studio.ExportTokens(req.GetString("format", "css"), req.GetBool("include_comments", true))
}

func (s *Server) applyTokenOverrides(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	overrides, ok, err := object(req, "overrides")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrInvalidInput("overrides is required")
	}
	return s.studio.ApplyOverrides(ctx, overrides, req.GetBool("persist", false))
}

func (s *Server) colorPalette(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	seed, err := requireString(req, "seed_color")
	if err != nil {
		return nil, err
	}
	return s.studio.Palette(seed, req.GetString("harmony", "complementary"), req.GetBool("include_shades", true))
}

func (s *Server) suggestStyle(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	description, err := requireString(req, "description")
	if err != nil {
		return nil, err
	}
	return s.studio.SuggestStyle(description, req.GetString("output_format", "full"))
}

func (s *Server) styleCategories(ctx context.Context, req mcp.CallToolRequest) (interface{}, error) {
	categories := s.studio.StyleCategories(req.GetBool("include_presets", true))
	return map[string]interface{}{"categories": categories, "total": len(categories)}, nil
}
