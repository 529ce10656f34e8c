// Package paths addresses nested configuration values by dotted path
// strings (e.g. "llm_info.model") with copy-on-write update semantics.
package paths

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Get resolves a dotted path against a nested map. The second return is
// false when any segment is missing or a non-map value is traversed.
func Get(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	segments := strings.Split(path, ".")
	var current any = root
	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Set returns a new root with value placed at the dotted path. The input
// map is never mutated; intermediate maps are created as needed, and an
// intermediate non-map value is replaced by a map.
func Set(root map[string]any, path string, value any) map[string]any {
	out := CloneMap(root)
	if path == "" {
		return out
	}
	segments := strings.Split(path, ".")
	m := out
	for _, seg := range segments[:len(segments)-1] {
		child, ok := m[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
		}
		m[seg] = child
		m = child
	}
	m[segments[len(segments)-1]] = value
	return out
}

// CloneMap deep-copies a nested configuration map.
func CloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Clone(v)
	}
	return out
}

// Clone deep-copies a configuration value. Only the shapes a node
// configuration can actually hold are descended into; everything else is
// treated as an immutable scalar.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneMap(val)
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, s := range val {
			out[k] = s
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	case *orderedmap.OrderedMap[string, string]:
		if val == nil {
			return val
		}
		out := orderedmap.New[string, string]()
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, pair.Value)
		}
		return out
	default:
		return v
	}
}
