package testutils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// BaseTokensJSON is a complete token set suitable for a root preset.
const BaseTokensJSON = `{
  "colors": {
    "base": {"bg": "#000000", "surface": "rgba(1,1,1,0.1)", "border": "#222222", "overlay": "#00000080"},
    "accent": {"primary": "#6366f1", "secondary": "#ec4899", "success": "#10b981"},
    "text": {"primary": "#f8fafc", "secondary": "#cbd5e1", "muted": "#64748b", "inverse": "#0f172a"},
    "glass": {"tint": "rgba(255,255,255,0.06)", "highlight": "rgba(255,255,255,0.12)", "shadow": "rgba(0,0,0,0.4)"}
  },
  "blur": {
    "none": "none", "sm": "blur(4px)", "md": "blur(12px)", "lg": "blur(24px)", "xl": "blur(40px)",
    "elevation": {"0": "none", "1": "blur(8px)", "2": "blur(16px)", "3": "blur(24px)", "4": "blur(32px)"}
  },
  "spacing": {
    "scale": [0, 4, 8, 12, 16, 24, 32],
    "sidebar": {"width": "260px", "collapsedWidth": "72px", "padding": "16px"},
    "card": {"padding": "24px", "gap": "16px", "borderRadius": "16px"},
    "settings": {"rowHeight": "56px", "sectionGap": "32px", "labelWidth": "200px"}
  },
  "typography": {
    "fontFamily": {"display": "Inter, sans-serif", "body": "Inter, sans-serif", "mono": "JetBrains Mono, monospace"},
    "scale": {"xs": "0.75rem", "sm": "0.875rem", "base": "1rem", "lg": "1.125rem"},
    "weight": {"regular": 400, "medium": 500, "bold": 700}
  },
  "animation": {
    "duration": {"fast": "150ms", "normal": "250ms", "slow": "400ms"},
    "easing": {"standard": "cubic-bezier(0.4, 0, 0.2, 1)", "spring": "cubic-bezier(0.34, 1.56, 0.64, 1)"},
    "transition": {
      "default": "all 250ms ease",
      "glass": "background 250ms ease, backdrop-filter 250ms ease",
      "sidebar": "width 300ms ease",
      "settings": "opacity 200ms ease"
    }
  }
}`

// BaseTokens returns a fresh copy of BaseTokensJSON decoded as a token tree.
func BaseTokens(t testing.TB) map[string]interface{} {
	t.Helper()

	return DecodeTree(t, BaseTokensJSON)
}

// DecodeTree decodes a JSON object the way the preset loader does, keeping
// numbers as json.Number.
func DecodeTree(t testing.TB, raw string) map[string]interface{} {
	t.Helper()

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var tree map[string]interface{}
	require.NoError(t, dec.Decode(&tree))

	return tree
}

// PresetFixture describes a preset directory to materialise on disk. Nil
// fields are skipped so tests can exercise missing optional files.
type PresetFixture struct {
	Manifest   map[string]interface{}
	Tokens     interface{}
	Components map[string][]map[string]interface{} // category -> templates
	Layouts    []map[string]interface{}
}

// Manifest builds a minimal manifest for id.
func Manifest(id, extends string) map[string]interface{} {
	m := map[string]interface{}{
		"id":          id,
		"name":        id,
		"description": "fixture preset " + id,
		"version":     "1.0.0",
		"tags":        []string{"test"},
		"components":  []string{},
		"layouts":     []string{},
	}
	if extends != "" {
		m["extends"] = extends
	}

	return m
}

// Component builds a component template fixture.
func Component(name, category, template string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"category":    category,
		"description": name + " component",
		"propsSchema": map[string]interface{}{
			"title": map[string]interface{}{"type": "string", "required": false, "default": "Untitled"},
		},
		"template": template,
	}
}

// Layout builds a layout template fixture.
func Layout(name string, regions ...string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"description": name + " layout",
		"regions":     regions,
		"template":    "<main>{{token:colors.base.bg}}</main>",
	}
}

// CreatePresetRoot returns an empty presets root in a temporary directory.
func CreatePresetRoot(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "presets")
	require.NoError(t, os.MkdirAll(root, 0o755))

	return root
}

// WritePreset materialises fixture under root/id and returns its directory.
func WritePreset(t *testing.T, root, id string, fixture PresetFixture) string {
	t.Helper()

	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	if fixture.Manifest != nil {
		WriteJSON(t, filepath.Join(dir, "manifest.json"), fixture.Manifest)
	}
	switch tok := fixture.Tokens.(type) {
	case nil:
	case string:
		WriteFile(t, filepath.Join(dir, "tokens.json"), tok)
	default:
		WriteJSON(t, filepath.Join(dir, "tokens.json"), tok)
	}
	for category, templates := range fixture.Components {
		catDir := filepath.Join(dir, "components", category)
		require.NoError(t, os.MkdirAll(catDir, 0o755))
		for _, tmpl := range templates {
			WriteJSON(t, filepath.Join(catDir, tmpl["name"].(string)+".json"), tmpl)
		}
	}
	for _, layout := range fixture.Layouts {
		layoutDir := filepath.Join(dir, "layouts")
		require.NoError(t, os.MkdirAll(layoutDir, 0o755))
		WriteJSON(t, filepath.Join(layoutDir, layout["name"].(string)+".json"), layout)
	}

	return dir
}

// WriteBasePreset writes a complete root preset with one surface component
// and one layout.
func WriteBasePreset(t *testing.T, root, id string) string {
	t.Helper()

	return WritePreset(t, root, id, PresetFixture{
		Manifest: Manifest(id, ""),
		Tokens:   BaseTokensJSON,
		Components: map[string][]map[string]interface{}{
			"surface": {Component("GlassCard", "surface",
				`<div style={{ background: '{{token:colors.glass.tint}}' }}>{{prop:title}}</div>`)},
		},
		Layouts: []map[string]interface{}{Layout("dashboard", "sidebar", "main")},
	})
}

// WriteJSON encodes v with two-space indentation to path.
func WriteJSON(t *testing.T, path string, v interface{}) {
	t.Helper()

	raw, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	WriteFile(t, path, string(raw))
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// PathTraversalIDs are preset ids that must never resolve outside the root.
var PathTraversalIDs = []string{
	"../../../etc/passwd",
	"..",
	"../outside",
	"nested/../../outside",
	"/etc/passwd",
	".",
	"",
}

// WaitFor polls cond until it holds or timeout elapses.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("condition not met within %v", timeout)
}
