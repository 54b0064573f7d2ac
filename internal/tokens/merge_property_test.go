//go:build property
// +build property

package tokens

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func buildTree(keys []string, values []string) map[string]interface{} {
	tree := map[string]interface{}{}
	for i, key := range keys {
		if key == "" {
			continue
		}
		value := ""
		if i < len(values) {
			value = values[i]
		}
		if i%3 == 0 {
			tree[key] = map[string]interface{}{"leaf": value, "list": []interface{}{value, key}}
			continue
		}
		tree[key] = value
	}

	return tree
}

// TestMergeProperties checks immutability and replacement rules of Merge.
func TestMergeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	keys := gen.SliceOfN(6, gen.RegexMatch(`^[a-d]{1,2}$`))
	values := gen.SliceOfN(6, gen.AlphaString())

	properties.Property("inputs are never modified", prop.ForAll(
		func(bk, bv, ok, ov []string) bool {
			base := buildTree(bk, bv)
			override := buildTree(ok, ov)
			baseCopy := Clone(base)
			overrideCopy := Clone(override)

			_ = Merge(base, override)

			return reflect.DeepEqual(base, baseCopy) && reflect.DeepEqual(override, overrideCopy)
		},
		keys, values, keys, values,
	))

	properties.Property("override leaves win and arrays replace", prop.ForAll(
		func(bk, bv, ok, ov []string) bool {
			base := buildTree(bk, bv)
			override := buildTree(ok, ov)
			merged := Merge(base, override)

			for key, value := range override {
				switch v := value.(type) {
				case map[string]interface{}:
					got, isMap := merged[key].(map[string]interface{})
					if !isMap {
						return false
					}
					if !reflect.DeepEqual(got["leaf"], v["leaf"]) || !reflect.DeepEqual(got["list"], v["list"]) {
						return false
					}
				default:
					if merged[key] != v {
						return false
					}
				}
			}
			return true
		},
		keys, values, keys, values,
	))

	properties.Property("base-only keys survive", prop.ForAll(
		func(bk, bv, ok, ov []string) bool {
			base := buildTree(bk, bv)
			override := buildTree(ok, ov)
			merged := Merge(base, override)

			for key, value := range base {
				if _, overridden := override[key]; overridden {
					continue
				}
				if !reflect.DeepEqual(merged[key], value) {
					return false
				}
			}
			return true
		},
		keys, values, keys, values,
	))

	properties.Property("merging an empty override is a deep copy", prop.ForAll(
		func(bk, bv []string) bool {
			base := buildTree(bk, bv)
			return reflect.DeepEqual(Merge(base, map[string]interface{}{}), base)
		},
		keys, values,
	))

	properties.TestingRun(t)
}

// TestResolveProperties checks the fail-open behaviour of Resolve.
func TestResolveProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("unknown paths are left verbatim", prop.ForAll(
		func(path string) bool {
			tmpl := "x {{token:zz" + path + "}} y"
			return Resolve(tmpl, map[string]interface{}{"a": "1"}) == tmpl
		},
		gen.RegexMatch(`^[a-z.]{0,12}$`),
	))

	properties.Property("text without placeholders is unchanged", prop.ForAll(
		func(text string) bool {
			if strings.Contains(text, "{{token:") {
				return true
			}
			return Resolve(text, map[string]interface{}{"a": "1"}) == text
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
