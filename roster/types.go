/*
Package roster holds employee and pay-advancement records and the
interfaces through which they are read and written.

PURPOSE:
  The tenure calculator never touches storage. Everything that needs
  employee data (reports, the advancement service, the HTTP API) reads it
  through Source and writes it through Store.

KEY TYPES:
  Employee:    Person on the payroll with a start date and claimed years
  Advancement: One recorded service pay advancement
  Source:      Ordered, read-only listing of both
  Store:       Source plus lookups and the append-only advancement write

RAW DATES:
  StartDate and Date are kept as the YYYY-MM-DD text the data source holds.
  They are parsed at calculation time so a single malformed record yields
  a per-row tenure.ErrInvalidDate instead of failing the whole listing.

IMPLEMENTATIONS:
  - roster/store/memory.go: in-memory, for tests and demos
  - store/sqlite/sqlite.go: SQLite

SEE ALSO:
  - dataset.go: the bundled seed dataset
  - tenure/calculator.go: consumes Employee via ServiceRecord
*/
package roster

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

// Status is an employee's employment status.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return s == StatusActive || s == StatusInactive }

type Employee struct {
	ID           string
	Name         string
	Department   string
	StartDate    string // YYYY-MM-DD
	Status       Status
	ClaimedYears int
}

// IsActive reports whether the employee is currently active.
func (e Employee) IsActive() bool { return e.Status == StatusActive }

// ServiceRecord adapts the employee for the tenure calculator. An empty
// asOf means today.
func (e Employee) ServiceRecord(asOf string) tenure.ServiceRecord {
	return tenure.ServiceRecord{
		StartDate:     e.StartDate,
		ReferenceDate: asOf,
		ClaimedYears:  e.ClaimedYears,
	}
}

// =============================================================================
// PAY ADVANCEMENT
// =============================================================================

type Advancement struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	YearsClaimed int
	Date         string           // payout date, YYYY-MM-DD
	Amount       *decimal.Decimal // optional
	Remarks      string
	CreatedAt    time.Time
}

// AmountOrZero returns the amount, or zero when none was recorded.
func (a Advancement) AmountOrZero() decimal.Decimal {
	if a.Amount == nil {
		return decimal.Zero
	}
	return *a.Amount
}

// =============================================================================
// SOURCE / STORE
// =============================================================================

// Source is the read-only data layer. Both listings are ordered: employees
// and advancements come back in the order they were recorded.
type Source interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	ListAdvancements(ctx context.Context) ([]Advancement, error)
}

// Store extends Source with lookups and writes.
// Advancements are append-only; recording one also adds its years to the
// employee's claimed years in the same atomic step.
type Store interface {
	Source

	// GetEmployee returns ErrEmployeeNotFound if id is unknown.
	GetEmployee(ctx context.Context, id string) (Employee, error)

	// SaveEmployee inserts or replaces an employee.
	SaveEmployee(ctx context.Context, e Employee) error

	// CreateEmployee inserts a new employee and returns
	// ErrDuplicateEmployee if the id is taken.
	CreateEmployee(ctx context.Context, e Employee) error

	// RecordAdvancement appends adv and increments the employee's claimed
	// years by adv.YearsClaimed. Nothing is written if either step fails.
	RecordAdvancement(ctx context.Context, adv Advancement) error

	// ImportAdvancement appends adv as historical data without touching
	// claimed years. Used by seeding, where claimed years already include it.
	ImportAdvancement(ctx context.Context, adv Advancement) error

	// Reset removes all employees and advancements.
	Reset(ctx context.Context) error

	// ResetAndSeed replaces the whole store with ds. On error the previous
	// contents are kept.
	ResetAndSeed(ctx context.Context, ds Dataset) error
}

// RunStore keeps the history of tenure recalculations.
type RunStore interface {
	SaveRecalculationRun(ctx context.Context, run RecalculationRun) error
	ListRecalculationRuns(ctx context.Context, limit int) ([]RecalculationRun, error)
}

// RecalculationRun records one batch recomputation of every employee's tenure.
type RecalculationRun struct {
	ID          string
	AsOf        time.Time
	Trigger     string // "manual" or "scheduled"
	Processed   int
	Failed      int
	StartedAt   time.Time
	CompletedAt time.Time
}
