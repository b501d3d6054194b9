package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is one loosely-typed item from a scrape dataset.
type Record = map[string]any

// Number extracts a finite, non-negative number from a record.
type Number func(Record) (float64, bool)

// Text extracts a non-empty string from a record.
type Text func(Record) (string, bool)

// Field reads key as a number. Values that do not parse as a finite, non-negative
// number are reported as absent so that a fallback chain moves on.
func Field(key string) Number {
	return func(r Record) (float64, bool) {
		v, ok := r[key]
		if !ok {
			return 0, false
		}
		return toNumber(v)
	}
}

// NonZero treats a zero value as absent.
func NonZero(n Number) Number {
	return func(r Record) (float64, bool) {
		v, ok := n(r)
		if !ok || v == 0 {
			return 0, false
		}
		return v, true
	}
}

// FirstOf returns the first accessor that resolves.
func FirstOf(chain ...Number) Number {
	return func(r Record) (float64, bool) {
		for _, n := range chain {
			if v, ok := n(r); ok {
				return v, true
			}
		}
		return 0, false
	}
}

// Fields is FirstOf over Field for each key.
func Fields(keys ...string) Number {
	chain := make([]Number, len(keys))
	for i, k := range keys {
		chain[i] = Field(k)
	}
	return FirstOf(chain...)
}

// Count resolves n and truncates to an integer, defaulting to 0.
func Count(r Record, n Number) int64 {
	v, ok := n(r)
	if !ok {
		return 0
	}
	return int64(math.Floor(v))
}

// StringField reads key as a non-empty string.
func StringField(key string) Text {
	return func(r Record) (string, bool) {
		s, ok := r[key].(string)
		if !ok || strings.TrimSpace(s) == "" {
			return "", false
		}
		return s, true
	}
}

// FirstText returns the first non-empty string among keys, or def.
func FirstText(r Record, def string, keys ...string) string {
	for _, k := range keys {
		if s, ok := StringField(k)(r); ok {
			return s
		}
	}
	return def
}

// Bool reports whether any of keys holds boolean true.
func Bool(r Record, keys ...string) bool {
	for _, k := range keys {
		if b, ok := r[k].(bool); ok && b {
			return true
		}
	}
	return false
}

// Has reports whether any of keys is present with a non-null value.
func Has(r Record, keys ...string) bool {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return true
		}
	}
	return false
}

func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}
