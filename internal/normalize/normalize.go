// Package normalize converts the upstream API's arbitrarily-cased JSON
// objects into canonical entities. Every canonical field carries an ordered
// alias list; the first present, non-null spelling wins and a missing field
// degrades to a documented default instead of failing.
package normalize

import (
	"sort"
	"strconv"
)

// pick returns the first present, non-null value among the given key
// spellings.
func pick(obj map[string]interface{}, keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Float resolves a numeric field, tolerating JSON numbers and numeric
// strings.
func Float(obj map[string]interface{}, keys []string, def float64) float64 {
	v, ok := pick(obj, keys)
	if !ok {
		return def
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

func Int(obj map[string]interface{}, keys []string, def int) int {
	return int(Float(obj, keys, float64(def)))
}

func String(obj map[string]interface{}, keys []string, def string) string {
	v, ok := pick(obj, keys)
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func Bool(obj map[string]interface{}, keys []string, def bool) bool {
	v, ok := pick(obj, keys)
	if !ok {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

// StringPtr resolves an optional string field; absence is nil, not "".
func StringPtr(obj map[string]interface{}, keys []string) *string {
	v, ok := pick(obj, keys)
	if !ok {
		return nil
	}
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

// IntPtr resolves an optional integer field; absence is nil, not 0.
func IntPtr(obj map[string]interface{}, keys []string) *int {
	v, ok := pick(obj, keys)
	if !ok {
		return nil
	}
	if f, ok := toFloat(v); ok {
		n := int(f)
		return &n
	}
	return nil
}

// Collection tolerates the upstream envelope inconsistency: the value may be
// a bare array or an object wrapping one array-valued member. Object members
// are scanned in sorted key order so the pick is deterministic.
func Collection(v interface{}) []interface{} {
	switch data := v.(type) {
	case []interface{}:
		return data
	case map[string]interface{}:
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if arr, ok := data[k].([]interface{}); ok {
				return arr
			}
		}
	}
	return nil
}

// mapItems runs fn over every object item of a collection, dropping items
// that are not JSON objects or that fn rejects.
func mapItems[T any](v interface{}, fn func(map[string]interface{}) (T, bool)) []T {
	items := Collection(v)
	out := make([]T, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if t, ok := fn(obj); ok {
			out = append(out, t)
		}
	}
	return out
}
