package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncsound919/OG-Glass/internal/presets"
	"github.com/ncsound919/OG-Glass/internal/services"
	"github.com/ncsound919/OG-Glass/internal/testutils"
)

type rpcResponse struct {
	Result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
		Tools   []struct {
			Name        string `json:"name"`
			InputSchema struct {
				Required []string `json:"required"`
			} `json:"inputSchema"`
		} `json:"tools"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	root := testutils.CreatePresetRoot(t)
	testutils.WriteBasePreset(t, root, "glassmorphic-base")
	testutils.WritePreset(t, root, "client-fintech", testutils.PresetFixture{
		Manifest: testutils.Manifest("client-fintech", "glassmorphic-base"),
		Tokens:   `{"colors": {"accent": {"primary": "#00d4aa"}}}`,
	})

	store, err := presets.NewStore(root, nil)
	require.NoError(t, err)

	return New(services.NewStudio(store, services.Options{}), Options{}), root
}

func rpc(t *testing.T, s *Server, method string, params interface{}) rpcResponse {
	t.Helper()

	msg, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	reply := s.MCPServer().HandleMessage(context.Background(), msg)
	raw, err := json.Marshal(reply)
	require.NoError(t, err)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(raw, &resp), string(raw))
	return resp
}

// call invokes a tool and returns its text and error flag.
func call(t *testing.T, s *Server, name string, args map[string]interface{}) (string, bool) {
	t.Helper()

	if args == nil {
		args = map[string]interface{}{}
	}
	resp := rpc(t, s, "tools/call", map[string]interface{}{"name": name, "arguments": args})
	require.Nil(t, resp.Error)
	require.Len(t, resp.Result.Content, 1)
	assert.Equal(t, "text", resp.Result.Content[0].Type)
	return resp.Result.Content[0].Text, resp.Result.IsError
}

func callJSON(t *testing.T, s *Server, name string, args map[string]interface{}) map[string]interface{} {
	t.Helper()

	text, isError := call(t, s, name, args)
	require.False(t, isError, text)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &out), text)
	return out
}

func TestToolsAreRegistered(t *testing.T) {
	s, _ := newTestServer(t)

	resp := rpc(t, s, "tools/list", map[string]interface{}{})
	require.Nil(t, resp.Error)

	var names []string
	required := map[string][]string{}
	for _, tool := range resp.Result.Tools {
		names = append(names, tool.Name)
		required[tool.Name] = tool.InputSchema.Required
	}
	sort.Strings(names)

	assert.Equal(t, []string{
		ToolApplyTokenOverrides,
		ToolAutocorrect,
		ToolDiffPresets,
		ToolGenerateColorPalette,
		ToolGenerateComponent,
		ToolGenerateTokens,
		ToolGetSessionState,
		ToolListPresets,
		ToolListStyleCategories,
		ToolLoadPreset,
		ToolScaffoldPreset,
		ToolSuggestStyle,
		ToolSwapTemplate,
		ToolValidateUI,
	}, names)
	assert.Equal(t, []string{"preset_id"}, required[ToolLoadPreset])
	assert.ElementsMatch(t, []string{"preset_a", "preset_b"}, required[ToolDiffPresets])
	assert.Empty(t, required[ToolGetSessionState])
}

func TestPresetWorkflow(t *testing.T) {
	s, _ := newTestServer(t)

	listed := callJSON(t, s, ToolListPresets, nil)
	assert.Equal(t, []interface{}{"client-fintech", "glassmorphic-base"}, listed["presets"])

	loaded := callJSON(t, s, ToolLoadPreset, map[string]interface{}{"preset_id": "glassmorphic-base"})
	assert.Equal(t, "glassmorphic-base", loaded["id"])
	assert.Equal(t, float64(1), loaded["componentCount"])

	state := callJSON(t, s, ToolGetSessionState, nil)
	assert.Equal(t, "glassmorphic-base", state["activePresetId"])
	assert.Equal(t, false, state["hasOverrides"])

	applied := callJSON(t, s, ToolApplyTokenOverrides, map[string]interface{}{
		"overrides": map[string]interface{}{"colors": map[string]interface{}{"accent": map[string]interface{}{"primary": "#ff00aa"}}},
	})
	assert.Equal(t, []interface{}{"colors.accent.primary"}, applied["appliedPaths"])

	swapped := callJSON(t, s, ToolSwapTemplate, map[string]interface{}{
		"preset_id":          "client-fintech",
		"preserve_overrides": true,
	})
	assert.Equal(t, "glassmorphic-base", swapped["previousPreset"])
	assert.Equal(t, true, swapped["overridesPreserved"])

	exported := callJSON(t, s, ToolGenerateTokens, map[string]interface{}{"format": "css"})
	assert.Contains(t, exported["content"], "--color-accent-primary: #ff00aa;")
	assert.Contains(t, exported["content"], "client-fintech")
}

func TestToolErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name     string
		tool     string
		args     map[string]interface{}
		contains string
	}{
		{"missing preset id", ToolLoadPreset, nil, "preset_id is required"},
		{"unknown preset", ToolLoadPreset, map[string]interface{}{"preset_id": "nope"}, "not found"},
		{"traversal", ToolLoadPreset, map[string]interface{}{"preset_id": "../../etc"}, "preset"},
		{"no active preset", ToolGenerateTokens, nil, "no active preset"},
		{"validate without preset", ToolValidateUI, map[string]interface{}{"code": "<div />"}, "no active preset"},
		{"overrides missing", ToolApplyTokenOverrides, nil, "overrides is required"},
		{"overrides not object", ToolApplyTokenOverrides, map[string]interface{}{"overrides": "x"}, "must be an object"},
		{"bad seed", ToolGenerateColorPalette, map[string]interface{}{"seed_color": "red"}, "seed color"},
		{"bad scope", ToolDiffPresets, map[string]interface{}{
			"preset_a": "glassmorphic-base", "preset_b": "client-fintech", "scope": "everything",
		}, "scope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isError := call(t, s, tt.tool, tt.args)
			assert.True(t, isError)
			assert.Contains(t, text, tt.contains)
		})
	}
}

func TestLoadErrorsNameThePreset(t *testing.T) {
	s, root := newTestServer(t)
	testutils.WritePreset(t, root, "broken-tokens", testutils.PresetFixture{
		Manifest: testutils.Manifest("broken-tokens", ""),
		Tokens:   `{"colors": `,
	})
	testutils.WritePreset(t, root, "orphan", testutils.PresetFixture{
		Manifest: testutils.Manifest("orphan", "ghost"),
		Tokens:   `{}`,
	})

	tests := []struct {
		name     string
		id       string
		contains []string
	}{
		{"malformed tokens", "broken-tokens", []string{"invalid tokens file for preset 'broken-tokens': unexpected EOF"}},
		{"missing parent", "orphan", []string{`resolving parent "ghost" of preset "orphan"`, "preset 'ghost' not found"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isError := call(t, s, ToolLoadPreset, map[string]interface{}{"preset_id": tt.id})
			assert.True(t, isError)
			for _, want := range tt.contains {
				assert.Contains(t, text, want)
			}
			assert.NotContains(t, text, "ERR_")
			assert.NotContains(t, text, root)
		})
	}
}

func TestCorrectionTools(t *testing.T) {
	s, _ := newTestServer(t)
	callJSON(t, s, ToolLoadPreset, map[string]interface{}{"preset_id": "glassmorphic-base"})

	validated := callJSON(t, s, ToolValidateUI, map[string]interface{}{
		"code": `<img src="a.png" />`,
	})
	assert.Equal(t, true, validated["valid"])
	assert.Equal(t, float64(95), validated["score"])

	corrected := callJSON(t, s, ToolAutocorrect, map[string]interface{}{
		"code":    "<GlassCard />",
		"context": "surface",
	})
	assert.Equal(t, "import { GlassCard } from '@/components/preset';\n<GlassCard />", corrected["corrected"])

	dry := callJSON(t, s, ToolAutocorrect, map[string]interface{}{
		"code":    "color: #123456",
		"dry_run": true,
	})
	assert.Contains(t, dry, "score")
	assert.NotContains(t, dry, "corrected")

	text, isError := call(t, s, ToolAutocorrect, map[string]interface{}{"code": "<div />", "context": "modal"})
	assert.True(t, isError)
	assert.Contains(t, text, "modal")
}

func TestGenerateComponentTool(t *testing.T) {
	s, _ := newTestServer(t)
	callJSON(t, s, ToolLoadPreset, map[string]interface{}{"preset_id": "glassmorphic-base"})

	generated := callJSON(t, s, ToolGenerateComponent, map[string]interface{}{
		"template_name": "GlassCard",
		"props":         map[string]interface{}{"title": "Hello"},
	})
	assert.Equal(t, `<div style={{ background: 'rgba(255,255,255,0.06)' }}>Hello</div>`, generated["code"])
	assert.Equal(t, "default", generated["variant"])

	text, isError := call(t, s, ToolGenerateComponent, map[string]interface{}{"template_name": "Nope"})
	assert.True(t, isError)
	assert.Contains(t, text, "GlassCard")
}

func TestScaffoldAndDiffTools(t *testing.T) {
	s, root := newTestServer(t)

	scaffolded := callJSON(t, s, ToolScaffoldPreset, map[string]interface{}{
		"preset_id":    "client-acme",
		"name":         "Acme",
		"accent_color": "#ff6600",
	})
	assert.Equal(t, "client-acme", scaffolded["presetId"])
	assert.Equal(t, "glassmorphic-base", scaffolded["extends"])
	assert.FileExists(t, filepath.Join(root, "client-acme", "manifest.json"))

	text, isError := call(t, s, ToolScaffoldPreset, map[string]interface{}{"preset_id": "client-acme"})
	assert.True(t, isError)
	assert.Contains(t, text, "exists")

	diff := callJSON(t, s, ToolDiffPresets, map[string]interface{}{
		"preset_a": "glassmorphic-base",
		"preset_b": "client-acme",
		"scope":    "tokens",
	})
	changed := diff["changed"].([]interface{})
	require.Len(t, changed, 1)
	assert.Equal(t, "#ff6600", changed[0].(map[string]interface{})["to"])
}

func TestStyleTools(t *testing.T) {
	s, _ := newTestServer(t)

	palette := callJSON(t, s, ToolGenerateColorPalette, map[string]interface{}{
		"seed_color":     "#6366f1",
		"harmony":        "analogous",
		"include_shades": false,
	})
	assert.Equal(t, "analogous", palette["harmony"])
	assert.NotContains(t, palette, "shades")

	categories := callJSON(t, s, ToolListStyleCategories, nil)
	assert.Equal(t, float64(6), categories["total"])

	suggestion := callJSON(t, s, ToolSuggestStyle, map[string]interface{}{"description": "frosted glass with blur"})
	assert.NotEmpty(t, suggestion)
}
