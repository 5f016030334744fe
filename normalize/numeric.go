package normalize

import (
	"strconv"
	"strings"
)

// LenientFloat parses a raw cell value as a float, tolerating thousands
// separators, currency prefixes and stray whitespace. Anything that still
// fails to parse becomes 0.0 rather than an error, mirroring the
// relaxed-fill policy of the source datasets. All numeric canonical fields
// default to zero so downstream aggregation stays total-safe.
func LenientFloat(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
