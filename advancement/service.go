/*
Package advancement validates and records service pay advancement requests.

PURPOSE:
  An employee earns one claimable year per full year of service. A request
  pays out some of the unclaimed years; recording it appends an Advancement
  and adds the years to the employee's claimed total in one atomic step.

VALIDATION ORDER:
  1. Required fields present            -> ErrMissingField
  2. Values well-formed                 -> ErrInvalidRequest
  3. Employee exists                    -> ErrEmployeeNotFound
  4. Employee is Active                 -> ErrInactiveEmployee
  5. Tenure computes for the employee   -> tenure errors
  6. Years <= remaining eligible years  -> ErrExceedsRemaining

  Nothing is written unless every step passes.

SEE ALSO:
  - roster/types.go: Store.RecordAdvancement
  - tenure/calculator.go: eligibility
*/
package advancement

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/tenure-engine/roster"
	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// REQUEST / PREVIEW
// =============================================================================

// Request is a submitted pay advancement form.
type Request struct {
	EmployeeID    string
	YearsToPayOut int
	PayoutDate    string           // YYYY-MM-DD
	Amount        *decimal.Decimal // optional
	Remarks       string
}

// Preview is the read-only panel shown next to the request form.
type Preview struct {
	Employee       roster.Employee
	FormattedStart string
	ServiceLength  string
	TotalYears     int
	ClaimedYears   int
	RemainingYears int
}

// CanRequest reports whether at least one year is available to claim.
func (p Preview) CanRequest() bool {
	return p.Employee.IsActive() && p.RemainingYears > 0
}

// =============================================================================
// SERVICE
// =============================================================================

type Service struct {
	Store roster.Store
	Calc  *tenure.Calculator

	// NewID generates advancement ids. Defaults to uuid.NewString.
	NewID func() string
	// Now stamps CreatedAt. Defaults to time.Now.
	Now func() time.Time

	// mu serializes the eligibility check with the write, so two concurrent
	// requests cannot both spend the same remaining years.
	mu sync.Mutex
}

func NewService(store roster.Store, calc *tenure.Calculator) *Service {
	return &Service{
		Store: store,
		Calc:  calc,
		NewID: uuid.NewString,
		Now:   time.Now,
	}
}

// Preview computes the eligibility panel for one employee as of asOf
// (YYYY-MM-DD, empty for today).
func (s *Service) Preview(ctx context.Context, employeeID, asOf string) (Preview, error) {
	if strings.TrimSpace(employeeID) == "" {
		return Preview{}, missing("employee_id")
	}
	emp, err := s.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return Preview{}, err
	}
	a, err := s.Calc.Evaluate(emp.ServiceRecord(asOf))
	if err != nil {
		return Preview{}, fmt.Errorf("employee %s: %w", emp.ID, err)
	}
	return Preview{
		Employee:       emp,
		FormattedStart: a.FormattedStart,
		ServiceLength:  a.ServiceLength,
		TotalYears:     a.YearsOfService(),
		ClaimedYears:   a.ClaimedYears,
		RemainingYears: a.RemainingYears(),
	}, nil
}

// Submit validates req against the employee's eligibility as of asOf and
// records it. The returned Advancement is what was stored.
func (s *Service) Submit(ctx context.Context, req Request, asOf string) (roster.Advancement, error) {
	if err := req.validate(); err != nil {
		return roster.Advancement{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	preview, err := s.Preview(ctx, req.EmployeeID, asOf)
	if err != nil {
		return roster.Advancement{}, err
	}
	emp := preview.Employee
	if !emp.IsActive() {
		return roster.Advancement{}, fmt.Errorf("employee %s: %w", emp.ID, ErrInactiveEmployee)
	}
	if req.YearsToPayOut > preview.RemainingYears {
		return roster.Advancement{}, &ExceedsRemainingError{
			EmployeeID: emp.ID,
			Requested:  req.YearsToPayOut,
			Remaining:  preview.RemainingYears,
		}
	}

	adv := roster.Advancement{
		ID:           s.newID(),
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		YearsClaimed: req.YearsToPayOut,
		Date:         strings.TrimSpace(req.PayoutDate),
		Amount:       req.Amount,
		Remarks:      strings.TrimSpace(req.Remarks),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.Store.RecordAdvancement(ctx, adv); err != nil {
		return roster.Advancement{}, fmt.Errorf("record advancement: %w", err)
	}
	return adv, nil
}

func (s *Service) newID() string {
	if s.NewID == nil {
		return uuid.NewString()
	}
	return s.NewID()
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// validate checks the request on its own, before any lookup.
func (r Request) validate() error {
	switch {
	case strings.TrimSpace(r.EmployeeID) == "":
		return missing("employee_id")
	case r.YearsToPayOut == 0:
		return missing("years_to_pay_out")
	case strings.TrimSpace(r.PayoutDate) == "":
		return missing("payout_date")
	}

	if r.YearsToPayOut < 1 {
		return invalid("years_to_pay_out", fmt.Sprintf("must be at least 1, got %d", r.YearsToPayOut))
	}
	if _, err := tenure.ParseDate("payout_date", r.PayoutDate); err != nil {
		return invalid("payout_date", err.Error())
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		return invalid("amount", "must not be negative")
	}
	return nil
}
