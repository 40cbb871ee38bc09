package domains

import "strconv"

// Argument helpers for decoded MCP tool arguments. JSON decoding yields
// float64 numbers and []any arrays, so all reads normalize through here.

// StringArg reads an optional string argument.
func StringArg(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

// IntArg reads an optional integer argument.
func IntArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// StringSliceArg reads an optional string-array argument. A bare string is
// accepted as a one-element list; numbers are stringified through their
// JSON form, so a rating of 5 and "5" filter identically.
func StringSliceArg(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case float64:
				out = append(out, formatNumber(s))
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}

// NumberArg reads an optional numeric argument, reporting presence.
func NumberArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
