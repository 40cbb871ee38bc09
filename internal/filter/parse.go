package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTime parses an API timestamp. App Store Connect emits ISO 8601 with
// either a numeric offset or a trailing Z; values already decoded as
// time.Time pass through.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z0700", "2006-01-02"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// ParseNumber coerces a field value to float64. JSON decoding yields
// float64 for all numbers, but the API also returns numeric strings for
// some attributes.
func ParseNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// parseVersion splits a dotted version string into major/minor/patch.
// Non-numeric segments count as zero, matching how the App Store Connect
// API reports OS versions.
func parseVersion(s string) [3]int {
	var out [3]int
	parts := strings.Split(strings.TrimSpace(s), ".")
	for i := 0; i < len(parts) && i < 3; i++ {
		if n, err := strconv.Atoi(parts[i]); err == nil {
			out[i] = n
		}
	}
	return out
}

// compareVersions orders two dotted version strings. Returns -1, 0 or 1.
func compareVersions(a, b string) int {
	va, vb := parseVersion(a), parseVersion(b)
	for i := 0; i < 3; i++ {
		if va[i] < vb[i] {
			return -1
		}
		if va[i] > vb[i] {
			return 1
		}
	}
	return 0
}

// stringify renders a field value for equality comparison. Floats that are
// whole numbers render without a fraction so a JSON 5 matches "5".
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}
