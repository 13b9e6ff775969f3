/*
Package report builds the dashboard, directory, tenure tracker and report
views from roster data.

PURPOSE:
  Every view is a batch over employees. Each employee is assessed on its
  own: a malformed record becomes a Row with Err set and is skipped by the
  aggregates, while every other row is still computed and returned.

VIEWS:
  Assess:           per-employee tenure rows (tenure tracker, directory)
  FilterEmployees:  directory search/department/status filters
  SortRows:         report orderings (longest-service, most-claimed, ...)
  DepartmentStats:  per-department service and claim totals
  BuildDashboard:   headline numbers, recent activity, department overview
  FilterHistory:    pay-advancement history search and summary

AVERAGES:
  Averages of whole years are rounded half up, so 12.5 years shows as 13.

SEE ALSO:
  - tenure/calculator.go: per-row computation
  - api/handlers.go: HTTP views over these builders
*/
package report

import (
	"time"

	"github.com/warp/tenure-engine/roster"
	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// ROWS
// =============================================================================

// Row is one employee's tenure as of a reference date. When Err is set,
// Assessment is the zero value.
type Row struct {
	Employee   roster.Employee
	Assessment tenure.Assessment
	Err        error
}

// OK reports whether the row was assessed successfully.
func (r Row) OK() bool { return r.Err == nil }

// Batch is the result of assessing a list of employees.
type Batch struct {
	AsOf      time.Time
	Rows      []Row
	Processed int
	Failed    int
}

// Valid returns only the rows without errors.
func (b Batch) Valid() []Row {
	out := make([]Row, 0, len(b.Rows))
	for _, r := range b.Rows {
		if r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// =============================================================================
// BUILDER
// =============================================================================

// Builder assesses employees with a shared calculator.
type Builder struct {
	Calc *tenure.Calculator
}

func NewBuilder(calc *tenure.Calculator) *Builder {
	return &Builder{Calc: calc}
}

// Assess evaluates every employee as of asOf. Failures are recorded per row
// and never abort the batch.
func (b *Builder) Assess(employees []roster.Employee, asOf time.Time) Batch {
	ref := asOf.Format(tenure.DateLayout)
	batch := Batch{AsOf: asOf, Rows: make([]Row, len(employees))}

	for i, e := range employees {
		a, err := b.Calc.Evaluate(e.ServiceRecord(ref))
		batch.Rows[i] = Row{Employee: e, Assessment: a, Err: err}
		batch.Processed++
		if err != nil {
			batch.Failed++
		}
	}
	return batch
}

// AssessOne evaluates a single employee.
func (b *Builder) AssessOne(e roster.Employee, asOf time.Time) Row {
	a, err := b.Calc.Evaluate(e.ServiceRecord(asOf.Format(tenure.DateLayout)))
	return Row{Employee: e, Assessment: a, Err: err}
}

// AverageService is the rounded mean years of service over the rows that
// assessed successfully.
func AverageService(batch Batch) int {
	total := 0
	for _, r := range batch.Valid() {
		total += r.Assessment.YearsOfService()
	}
	return roundedAverage(total, len(batch.Rows)-batch.Failed)
}

// roundedAverage is round-half-up(sum/n). Zero when n is zero.
func roundedAverage(sum, n int) int {
	if n == 0 {
		return 0
	}
	num, den := 2*sum+n, 2*n
	q := num / den
	if num%den != 0 && num < 0 {
		q--
	}
	return q
}
