package normalize

import (
	"regexp"
	"strings"
	"time"
)

const (
	// periodSeparator splits the composite "start - end" period string.
	periodSeparator = " - "

	// periodLayout is day/month/year, as the source exports write dates.
	periodLayout = "02/01/2006"
)

var nonDateChars = regexp.MustCompile(`[^0-9/]`)

// SplitPeriod parses the composite period-of-insurance string into start and
// end dates. A missing or malformed period yields nil dates rather than an
// error: partial data is acceptable and the record still ingests.
func SplitPeriod(period string) (start, end *time.Time) {
	if !strings.Contains(period, periodSeparator) {
		return nil, nil
	}

	parts := strings.SplitN(period, periodSeparator, 2)
	return parsePeriodDate(parts[0]), parsePeriodDate(parts[1])
}

func parsePeriodDate(s string) *time.Time {
	s = nonDateChars.ReplaceAllString(s, "")
	if s == "" {
		return nil
	}
	t, err := time.Parse(periodLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
