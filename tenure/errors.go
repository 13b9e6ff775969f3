/*
errors.go - Error types for tenure calculations

PURPOSE:
  Every failure is local to one calculation and comes back as an error
  value. Batch callers (reports, roster views) attach the error to the
  offending row and keep going.

ERROR CATEGORIES:
  1. ErrInvalidDate  - empty or unparseable date text
  2. ErrInvalidRange - reference date before start date
  3. ErrInvalidInput - negative claimed years

USAGE:
  if errors.Is(err, tenure.ErrInvalidDate) {
      var de *tenure.DateError
      errors.As(err, &de) // de.Field, de.Value
  }

SEE ALSO:
  - calculator.go: Evaluate, the checked entry point
*/
package tenure

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date is empty or not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidRange is returned when the reference date precedes the start
	// date and the range policy is RangeReject.
	ErrInvalidRange = errors.New("invalid range: reference date before start date")

	// ErrInvalidInput is returned for negative claimed years.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// DateError names the field and raw value that failed to parse.
type DateError struct {
	Field string
	Value string
	Err   error // underlying parse error, nil for empty input
}

func (e *DateError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid date: %s is empty", e.Field)
	}
	return fmt.Sprintf("invalid date: %s %q", e.Field, e.Value)
}

func (e *DateError) Unwrap() error { return ErrInvalidDate }

// RangeError reports a reference date earlier than the start date.
type RangeError struct {
	Start     time.Time
	Reference time.Time
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range: reference %s is before start %s",
		e.Reference.Format(DateLayout), e.Start.Format(DateLayout))
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// ClaimError reports a negative claimed-years count.
type ClaimError struct {
	ClaimedYears int
}

func (e *ClaimError) Error() string {
	return fmt.Sprintf("invalid input: claimed years must be >= 0, got %d", e.ClaimedYears)
}

func (e *ClaimError) Unwrap() error { return ErrInvalidInput }

// IsClientError returns true if the error is due to bad caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidInput)
}
