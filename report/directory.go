package report

import (
	"strings"

	"github.com/warp/tenure-engine/roster"
)

// =============================================================================
// EMPLOYEE DIRECTORY
// =============================================================================

// FilterAll disables a department or status filter.
const FilterAll = "all"

// EmployeeFilter narrows the directory. Empty fields and FilterAll match
// everything.
type EmployeeFilter struct {
	Search     string // substring of name or department, case-insensitive
	Department string // exact department
	Status     string // exact status
}

// Match reports whether e passes every filter.
func (f EmployeeFilter) Match(e roster.Employee) bool {
	if f.Search != "" && !containsFold(e.Name, f.Search) && !containsFold(e.Department, f.Search) {
		return false
	}
	if f.Department != "" && f.Department != FilterAll && e.Department != f.Department {
		return false
	}
	if f.Status != "" && f.Status != FilterAll && string(e.Status) != f.Status {
		return false
	}
	return true
}

// FilterEmployees keeps employees matching f, in their original order.
func FilterEmployees(employees []roster.Employee, f EmployeeFilter) []roster.Employee {
	out := make([]roster.Employee, 0, len(employees))
	for _, e := range employees {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// FilterRows keeps the rows whose employee matches f, recounting
// Processed and Failed for the rows kept.
func FilterRows(batch Batch, f EmployeeFilter) Batch {
	out := Batch{AsOf: batch.AsOf, Rows: make([]Row, 0, len(batch.Rows))}
	for _, r := range batch.Rows {
		if !f.Match(r.Employee) {
			continue
		}
		out.Rows = append(out.Rows, r)
		out.Processed++
		if !r.OK() {
			out.Failed++
		}
	}
	return out
}

// Departments returns distinct departments in first-seen order.
func Departments(employees []roster.Employee) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range employees {
		if !seen[e.Department] {
			seen[e.Department] = true
			out = append(out, e.Department)
		}
	}
	return out
}

// DirectoryStats is the summary strip under the employee directory.
type DirectoryStats struct {
	Total       int
	Active      int
	Inactive    int
	Departments int
}

func Directory(employees []roster.Employee) DirectoryStats {
	s := DirectoryStats{Total: len(employees), Departments: len(Departments(employees))}
	for _, e := range employees {
		switch e.Status {
		case roster.StatusActive:
			s.Active++
		case roster.StatusInactive:
			s.Inactive++
		}
	}
	return s
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
