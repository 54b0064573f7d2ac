package tokens

import (
	"regexp"
	"strings"
)

// placeholderPattern matches {{token:<dotted.path>}}.
var placeholderPattern = regexp.MustCompile(`\{\{token:([^}]+)\}\}`)

// Resolve substitutes every {{token:path}} placeholder in template with the
// string form of the value at that path. Placeholders whose path does not
// resolve are left verbatim.
func Resolve(template string, tree map[string]interface{}) string {
	matches := placeholderPattern.FindAllStringSubmatchIndex(template, -1)
	if len(matches) == 0 {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	last := 0
	for _, m := range matches {
		b.WriteString(template[last:m[0]])

		path := strings.TrimSpace(template[m[2]:m[3]])
		if value, ok := Lookup(tree, path); ok {
			b.WriteString(Stringify(value))
		} else {
			b.WriteString(template[m[0]:m[1]])
		}
		last = m[1]
	}
	b.WriteString(template[last:])

	return b.String()
}

// Placeholders returns the distinct token paths referenced by template in
// order of first appearance.
func Placeholders(template string) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		path := strings.TrimSpace(m[1])
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	return paths
}
