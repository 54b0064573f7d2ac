package tokens

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
)

// Lookup walks tree along a dotted path. Objects are indexed by key and arrays
// by non-negative integer segment. The second result is false when any
// segment is missing, when traversal reaches a scalar before the path ends, or
// when the value found is null.
func Lookup(tree map[string]interface{}, path string) (interface{}, bool) {
	var current interface{} = tree

	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []interface{}:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}

	if current == nil {
		return nil, false
	}

	return current, true
}

// Stringify renders a token value the way it is substituted into templates.
func Stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case []interface{}:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	default:
		raw, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// FlattenPaths lists the dotted paths of every leaf in tree, sorted. Arrays
// count as leaves.
func FlattenPaths(tree map[string]interface{}) []string {
	var paths []string

	var walk func(node map[string]interface{}, prefix string)
	walk = func(node map[string]interface{}, prefix string) {
		for key, value := range node {
			full := key
			if prefix != "" {
				full = prefix + "." + key
			}
			if child, ok := value.(map[string]interface{}); ok {
				walk(child, full)
				continue
			}
			paths = append(paths, full)
		}
	}
	walk(tree, "")

	sort.Strings(paths)

	return paths
}

// Query evaluates a JSONPath expression such as "$.colors.accent.*" against a
// token tree.
func Query(tree map[string]interface{}, expr string) ([]interface{}, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, apperrors.ErrInvalidInput("invalid token query: " + err.Error())
	}

	return x.Get(tree), nil
}
