package expense

import (
	"time"
)

const (
	// DateLayout is the only accepted date form, YYYY-MM-DD.
	DateLayout = "2006-01-02"

	// YearMonthLayout is the month key used for prefix filtering, YYYY-MM.
	YearMonthLayout = "2006-01"
)

// ParseDate parses s as a real calendar date in YYYY-MM-DD form.
// "2025-13-40" and "2025-02-30" are rejected.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// YearMonth renders t as YYYY-MM.
func YearMonth(t time.Time) string {
	return t.Format(YearMonthLayout)
}
