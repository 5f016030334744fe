package normalize

import (
	"regexp"
	"strings"
)

var (
	// Control characters, C1 range and the U+25A0 black square that some
	// exports embed in policy numbers.
	nonPrintable = regexp.MustCompile(`[\x00-\x1F\x7F-\x9F\x{25A0}]`)

	// Trailing co-insurance markers of the form " A/B".
	coinsuranceSuffix = regexp.MustCompile(`\s+[A-Z]/[A-Z]$`)
)

// CleanPolicyNumber strips non-printable characters and trailing
// co-insurance markers from a raw policy number and trims whitespace.
// An empty result means the row has no usable business key.
func CleanPolicyNumber(raw string) string {
	cleaned := nonPrintable.ReplaceAllString(raw, "")
	cleaned = coinsuranceSuffix.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// cleanText trims whitespace and strips non-printable characters from a
// free-text field.
func cleanText(raw string) string {
	return strings.TrimSpace(nonPrintable.ReplaceAllString(raw, ""))
}
