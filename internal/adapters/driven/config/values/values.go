// Package values converts loosely typed configuration values, as decoded
// from TOML or set by callers, into the types ConfigStore getters return.
// Values of the wrong type yield the zero value.
package values

import "time"

// String returns v if it is a string.
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Int accepts Go ints and TOML int64 or float64 numbers.
func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// Bool returns v if it is a bool.
func Bool(v any) bool {
	b, _ := v.(bool)
	return b
}

// Strings accepts []string and TOML arrays, skipping non-string items.
func Strings(v any) []string {
	switch items := v.(type) {
	case []string:
		return items
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Duration accepts a time.Duration, a string such as "250ms", or a number
// of milliseconds.
func Duration(v any) time.Duration {
	switch d := v.(type) {
	case time.Duration:
		return d
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0
		}
		return parsed
	case int, int64, float64:
		return time.Duration(Int(d)) * time.Millisecond
	}
	return 0
}
