package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrDuplicateAdvancement is returned when an advancement id is reused.
	ErrDuplicateAdvancement = errors.New("duplicate advancement id")

	// ErrDuplicateEmployee is returned when creating an employee whose id exists.
	ErrDuplicateEmployee = errors.New("duplicate employee id")

	// ErrInvalidRecord is returned when a record fails structural validation.
	ErrInvalidRecord = errors.New("invalid record")
)

// NotFoundError names the missing employee.
type NotFoundError struct {
	EmployeeID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("employee not found: %s", e.EmployeeID)
}

func (e *NotFoundError) Unwrap() error { return ErrEmployeeNotFound }

// IsNotFound returns true if the error indicates a missing employee.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}

// Validate checks the fields every stored employee must carry. Dates are
// not parsed here; that is the calculator's job.
func (e Employee) Validate() error {
	switch {
	case e.ID == "":
		return fmt.Errorf("%w: employee id is required", ErrInvalidRecord)
	case e.Name == "":
		return fmt.Errorf("%w: employee %s has no name", ErrInvalidRecord, e.ID)
	case !e.Status.Valid():
		return fmt.Errorf("%w: employee %s has unknown status %q", ErrInvalidRecord, e.ID, e.Status)
	}
	return nil
}
