//go:build property
// +build property

package lint

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/ncsound919/OG-Glass/internal/presets"
)

var fragments = []string{
	`<div className="card">`, `</div>`, `color: "#fff";`, `padding: 12px;`,
	`<img src="a.png">`, `<IconButton />`, `fontFamily: "Inter"`, `Settings`,
	`<input />`, `sidebar`, `<NavItem />`, `backdropFilter: 'blur(8px)'`,
	`transition: opacity 200ms`, `rgba(0,0,0,0.5)`, "\n",
}

func snippet(picks []int) string {
	var b strings.Builder
	for _, p := range picks {
		b.WriteString(fragments[p%len(fragments)])
	}
	return b.String()
}

// TestValidationProperties checks determinism and the score formula bounds.
func TestValidationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	preset := &presets.Preset{Manifest: presets.Manifest{ID: "prop"}}
	picks := gen.SliceOf(gen.IntRange(0, len(fragments)-1))

	properties.Property("validation is deterministic", prop.ForAll(
		func(p []int) bool {
			code := snippet(p)
			return reflect.DeepEqual(Validate(code, preset, nil), Validate(code, preset, nil))
		},
		picks,
	))

	properties.Property("score stays within bounds and matches the formula", prop.ForAll(
		func(p []int) bool {
			result := Validate(snippet(p), preset, nil)
			errs, warns := Count(result.Issues)
			expected := 100 - 15*errs - 5*warns
			if expected < 0 {
				expected = 0
			}
			return result.Score == expected && result.Score >= 0 && result.Score <= 100 &&
				result.Valid == (errs == 0)
		},
		picks,
	))

	properties.Property("correction keeps the original text", prop.ForAll(
		func(p []int) bool {
			code := snippet(p)
			result := Correct(code, preset, nil, Options{})
			return result.Original == code && len(result.AppliedFixes) <= len(result.Issues)
		},
		picks,
	))

	properties.TestingRun(t)
}
