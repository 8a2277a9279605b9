// Package data holds the property data document and the helpers used to read it.
package data

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Document is the decoded JSON data document. Every field is optional.
type Document map[string]any

// Get walks path on the document. See Get.
func (d Document) Get(path string) any {
	return Get(map[string]any(d), path, nil)
}

// String returns the value at path coerced to a string.
func (d Document) String(path string) string {
	return String(d.Get(path))
}

// Slice returns the array at path, or nil.
func (d Document) Slice(path string) []any {
	return Slice(d.Get(path))
}

// Map returns the object at path, or nil.
func (d Document) Map(path string) map[string]any {
	return Map(d.Get(path))
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneMap(d))
}

// Get walks a dotted path through nested objects and arrays. Numeric segments
// index arrays. The moment a segment is missing, out of range or null, def is
// returned.
func Get(root any, path string, def any) any {
	if root == nil {
		return def
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return root
	}
	cur := root
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok || v == nil {
				return def
			}
			cur = v
		case Document:
			v, ok := node[seg]
			if !ok || v == nil {
				return def
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) || node[i] == nil {
				return def
			}
			cur = node[i]
		default:
			return def
		}
	}
	return cur
}

// String coerces scalars to text. Objects, arrays and null yield "".
func String(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// Int coerces numbers and numeric strings.
func Int(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil {
			return int(f), true
		}
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

// IntOr returns Int(v) or def.
func IntOr(v any, def int) int {
	if n, ok := Int(v); ok {
		return n
	}
	return def
}

// Float coerces numbers and numeric strings.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// Bool reports whether v is the JSON literal true.
func Bool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// Slice returns v as an array or nil.
func Slice(v any) []any {
	s, _ := v.([]any)
	return s
}

// Map returns v as an object or nil.
func Map(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case Document:
		return map[string]any(t)
	}
	return nil
}

// Maps returns the object elements of an array, skipping anything else.
func Maps(v any) []map[string]any {
	items := Slice(v)
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m := Map(it); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Has reports whether key is present on m, even when its value is null.
func Has(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	_, ok := m[key]
	return ok
}
