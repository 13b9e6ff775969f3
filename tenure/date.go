package tenure

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// CALENDAR DATES
// =============================================================================

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Date returns the calendar date y-m-d at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize drops the time of day, keeping the calendar date as seen in t's
// own location.
func Normalize(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD date. Empty or malformed input returns a
// *DateError wrapping ErrInvalidDate.
func ParseDate(field, value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, &DateError{Field: field, Value: value}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &DateError{Field: field, Value: value, Err: err}
	}
	return t, nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(value string) time.Time {
	t, err := ParseDate("date", value)
	if err != nil {
		panic(err)
	}
	return t
}

var monthAbbrev = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// FormatDate renders "Aug 15, 2004". The month table is fixed so output
// never depends on the host locale.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s %02d, %04d", monthAbbrev[t.Month()-1], t.Day(), t.Year())
}

// daysBetween counts whole calendar days from start to ref. Negative when
// ref is before start.
func daysBetween(start, ref time.Time) int {
	const secondsPerDay = 24 * 60 * 60
	return int((Normalize(ref).Unix() - Normalize(start).Unix()) / secondsPerDay)
}

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
