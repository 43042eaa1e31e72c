package domain

import (
	"fmt"
	"time"
)

// Period identifies one calendar month in "YYYY-MM" form. The ISO layout makes
// lexicographic order equal to chronological order, which the ledger relies on.
type Period string

// ParsePeriod validates a "YYYY-MM" period label.
func ParsePeriod(s string) (Period, error) {
	if _, err := time.Parse("2006-01", s); err != nil {
		return "", fmt.Errorf("invalid period %q, expected YYYY-MM: %w", s, err)
	}
	return Period(s), nil
}

// After reports whether p is chronologically after other.
func (p Period) After(other Period) bool {
	return string(p) > string(other)
}

func (p Period) String() string {
	return string(p)
}
