package presets

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
)

// DiffScope selects which parts of two presets Compare looks at.
type DiffScope string

const (
	ScopeTokens     DiffScope = "tokens"
	ScopeComponents DiffScope = "components"
	ScopeLayouts    DiffScope = "layouts"
	ScopeAll        DiffScope = "all"
)

// ParseDiffScope validates a scope name; the empty string selects all.
func ParseDiffScope(name string) (DiffScope, error) {
	switch DiffScope(strings.ToLower(name)) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeTokens:
		return ScopeTokens, nil
	case ScopeComponents:
		return ScopeComponents, nil
	case ScopeLayouts:
		return ScopeLayouts, nil
	}

	return "", apperrors.ErrInvalidInput(
		fmt.Sprintf("unknown diff scope %q (expected tokens, components, layouts or all)", name))
}

func (s DiffScope) includes(part DiffScope) bool {
	return s == ScopeAll || s == part
}

// Change is one leaf whose value differs between two presets.
type Change struct {
	Path string      `json:"path"`
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// Diff lists what changes when moving from preset a to preset b.
type Diff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Changed []Change `json:"changed"`
}

// Compare diffs a against b. Token trees are compared leaf by leaf under a
// "tokens." prefix with arrays flattened by index; components and layouts are
// compared by name only. Every list in the result is sorted.
func Compare(a, b *Preset, scope DiffScope) *Diff {
	diff := &Diff{Added: []string{}, Removed: []string{}, Changed: []Change{}}

	if scope.includes(ScopeTokens) {
		from := flattenLeaves(a.Tokens, "tokens")
		to := flattenLeaves(b.Tokens, "tokens")

		for path, value := range to {
			old, ok := from[path]
			switch {
			case !ok:
				diff.Added = append(diff.Added, path)
			case !reflect.DeepEqual(old, value):
				diff.Changed = append(diff.Changed, Change{Path: path, From: old, To: value})
			}
		}
		for path := range from {
			if _, ok := to[path]; !ok {
				diff.Removed = append(diff.Removed, path)
			}
		}
	}
	if scope.includes(ScopeComponents) {
		diffNames(diff, "components", a.ComponentNames(), b.ComponentNames())
	}
	if scope.includes(ScopeLayouts) {
		diffNames(diff, "layouts", a.LayoutNames(), b.LayoutNames())
	}

	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Slice(diff.Changed, func(i, j int) bool { return diff.Changed[i].Path < diff.Changed[j].Path })

	return diff
}

func diffNames(diff *Diff, prefix string, from, to []string) {
	inFrom := make(map[string]bool, len(from))
	for _, name := range from {
		inFrom[name] = true
	}
	inTo := make(map[string]bool, len(to))
	for _, name := range to {
		inTo[name] = true
		if !inFrom[name] {
			diff.Added = append(diff.Added, prefix+"."+name)
		}
	}
	for _, name := range from {
		if !inTo[name] {
			diff.Removed = append(diff.Removed, prefix+"."+name)
		}
	}
}

// flattenLeaves maps dotted leaf paths to values. Object keys and array
// indexes both become path segments.
func flattenLeaves(tree map[string]interface{}, prefix string) map[string]interface{} {
	leaves := make(map[string]interface{})
	if len(tree) == 0 {
		return leaves
	}

	jp.Walk(tree, func(path jp.Expr, value interface{}) {
		segments := []string{prefix}
		for _, frag := range path {
			switch f := frag.(type) {
			case jp.Child:
				segments = append(segments, string(f))
			case jp.Nth:
				segments = append(segments, strconv.Itoa(int(f)))
			}
		}
		if len(segments) > 1 {
			leaves[strings.Join(segments, ".")] = value
		}
	}, true)

	return leaves
}
