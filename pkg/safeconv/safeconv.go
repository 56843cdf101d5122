// Package safeconv provides safe type conversion functions.
package safeconv

import (
	"math"
	"strconv"
	"strings"
)

// IntToInt32 safely converts int to int32, capping at min/max values.
func IntToInt32(v int) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

// ParseID parses a surrogate key taken from a path or query parameter.
// Only strictly positive base-10 integers are accepted.
func ParseID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
