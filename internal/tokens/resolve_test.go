package tokens

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
	"github.com/ncsound919/OG-Glass/internal/testutils"
)

func TestResolve(t *testing.T) {
	tree := testutils.BaseTokens(t)
	tree["flags"] = map[string]interface{}{"enabled": true, "missing": nil}

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"string leaf", "{{token:colors.base.bg}}", "#000000"},
		{"unknown path unchanged", "{{token:does.not.exist}}", "{{token:does.not.exist}}"},
		{"scalar midway unchanged", "{{token:colors.base.bg.deeper}}", "{{token:colors.base.bg.deeper}}"},
		{"array index", "{{token:spacing.scale.2}}px", "8px"},
		{"array out of range", "{{token:spacing.scale.99}}", "{{token:spacing.scale.99}}"},
		{"whole array", "{{token:spacing.scale}}", "0,4,8,12,16,24,32"},
		{"number", "{{token:typography.weight.bold}}", "700"},
		{"bool", "{{token:flags.enabled}}", "true"},
		{"null unchanged", "{{token:flags.missing}}", "{{token:flags.missing}}"},
		{"object as json", "{{token:spacing.card}}", `{"borderRadius":"16px","gap":"16px","padding":"24px"}`},
		{"trimmed path", "{{token: colors.base.border }}", "#222222"},
		{
			"mixed",
			"color: {{token:colors.text.primary}}; gap: {{token:nope}}; radius: {{token:spacing.card.borderRadius}}",
			"color: #f8fafc; gap: {{token:nope}}; radius: 16px",
		},
		{"no placeholders", "plain text", "plain text"},
		{"prop placeholders untouched", "{{prop:title}}", "{{prop:title}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.template, tree))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	paths := Placeholders("{{token:a.b}} {{token:c}} {{token: a.b }} {{prop:x}}")
	assert.Equal(t, []string{"a.b", "c"}, paths)
	assert.Empty(t, Placeholders("none here"))
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in       interface{}
		expected string
	}{
		{nil, ""},
		{"x", "x"},
		{json.Number("1.50"), "1.50"},
		{2.5, "2.5"},
		{float64(16), "16"},
		{3, "3"},
		{int64(7), "7"},
		{false, "false"},
		{[]interface{}{"a", json.Number("1")}, "a,1"},
		{map[string]interface{}{"k": "v"}, `{"k":"v"}`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Stringify(tt.in))
	}
}

func TestFlattenPaths(t *testing.T) {
	tree := map[string]interface{}{
		"b": map[string]interface{}{"y": "1", "x": []interface{}{"1", "2"}},
		"a": "root",
	}

	assert.Equal(t, []string{"a", "b.x", "b.y"}, FlattenPaths(tree))
	assert.Empty(t, FlattenPaths(map[string]interface{}{}))
}

func TestQuery(t *testing.T) {
	tree := testutils.BaseTokens(t)

	results, err := Query(tree, "$.colors.base.bg")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"#000000"}, results)

	results, err = Query(tree, "$.colors.accent.*")
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Contains(t, results, "#6366f1")

	results, err = Query(tree, "$.nothing.here")
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = Query(tree, "$.colors[")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}
