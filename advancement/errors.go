package advancement

import (
	"errors"
	"fmt"

	"github.com/warp/tenure-engine/roster"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrMissingField is returned when a required request field is empty.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidRequest covers malformed values: years below one, an
	// unparseable payout date, a negative amount.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrEmployeeNotFound is the roster sentinel, re-exported for callers
	// that only import this package.
	ErrEmployeeNotFound = roster.ErrEmployeeNotFound

	// ErrInactiveEmployee is returned when the employee is not Active.
	ErrInactiveEmployee = errors.New("employee is not active")

	// ErrExceedsRemaining is returned when more years are requested than
	// the employee has left to claim.
	ErrExceedsRemaining = errors.New("requested years exceed remaining eligible years")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// FieldError names the offending request field.
type FieldError struct {
	Field  string
	Reason string
	Err    error // ErrMissingField or ErrInvalidRequest
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Err }

func missing(field string) error {
	return &FieldError{Field: field, Reason: "is required", Err: ErrMissingField}
}

func invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason, Err: ErrInvalidRequest}
}

// ExceedsRemainingError carries the numbers behind ErrExceedsRemaining.
type ExceedsRemainingError struct {
	EmployeeID string
	Requested  int
	Remaining  int
}

func (e *ExceedsRemainingError) Error() string {
	return fmt.Sprintf("employee %s: requested %d years, only %d remaining",
		e.EmployeeID, e.Requested, e.Remaining)
}

func (e *ExceedsRemainingError) Unwrap() error { return ErrExceedsRemaining }

// IsRejected reports whether err is a business-rule rejection rather than
// malformed input or a storage failure.
func IsRejected(err error) bool {
	return errors.Is(err, ErrInactiveEmployee) || errors.Is(err, ErrExceedsRemaining)
}

// IsInvalid reports whether err is due to a malformed request.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrMissingField) || errors.Is(err, ErrInvalidRequest)
}
