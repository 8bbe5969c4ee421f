// Package normalize resolves loosely shaped backend payloads to fixed
// canonical values. The platform backend does not commit to a single JSON
// contract: collections arrive as `{articles: [...]}`, `{data: [...]}` or a
// bare array, and field names drift between camelCase, snake_case and short
// forms. Every accessor here tries an ordered list of candidates and falls
// back to a zero value, so callers never branch on payload shape and never
// see a panic from a missing field.
package normalize

// Object returns the first candidate key whose value is a JSON object,
// falling back to payload itself when it is an object and no key matches.
// Returns nil when nothing object-shaped is found.
func Object(payload any, keys ...string) map[string]any {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	for _, k := range keys {
		if inner, ok := m[k].(map[string]any); ok {
			return inner
		}
	}
	return m
}

// Collection unwraps a list payload: each candidate key is tried in order,
// then "data", then the payload itself. The first array found wins. Elements
// that are not objects are skipped. A payload with no array anywhere yields
// an empty, non-nil slice.
func Collection(payload any, keys ...string) []map[string]any {
	if m, ok := payload.(map[string]any); ok {
		for _, k := range append(keys, "data") {
			if arr, ok := m[k].([]any); ok {
				return objects(arr)
			}
		}
	}
	if arr, ok := payload.([]any); ok {
		return objects(arr)
	}
	return []map[string]any{}
}

func objects(arr []any) []map[string]any {
	out := make([]map[string]any, 0, len(arr))
	for _, e := range arr {
		if obj, ok := e.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// Text returns the first candidate key holding a non-empty string.
func Text(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Bool returns the first candidate key holding a boolean, default false.
// A string "true"/"false" also counts; some backend serializers emit those.
func Bool(obj map[string]any, keys ...string) bool {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case bool:
			return v
		case string:
			if v == "true" {
				return true
			}
			if v == "false" {
				return false
			}
		}
	}
	return false
}

// Float returns the first candidate key holding a number, default 0.
// encoding/json decodes all JSON numbers to float64.
func Float(obj map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if f, ok := obj[k].(float64); ok {
			return f
		}
	}
	return 0
}

// Int is Float truncated to an int.
func Int(obj map[string]any, keys ...string) int {
	return int(Float(obj, keys...))
}
