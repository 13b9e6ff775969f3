package report

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// SORTED EMPLOYEE REPORT
// =============================================================================

// SortKey selects the ordering of the employee report.
type SortKey string

const (
	SortLongestService SortKey = "longest-service" // years of service, descending
	SortMostClaimed    SortKey = "most-claimed"    // claimed years, descending
	SortName           SortKey = "name"
	SortDepartment     SortKey = "department"
)

// ParseSortKey accepts the known keys; empty means longest-service.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortLongestService, nil
	case SortLongestService, SortMostClaimed, SortName, SortDepartment:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// SortRows returns a sorted copy of rows. The sort is stable, so ties keep
// source order. Rows that failed assessment have no years of service and
// sort last under SortLongestService.
func SortRows(rows []Row, key SortKey) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)

	var less func(a, b Row) bool
	switch key {
	case SortLongestService:
		less = func(a, b Row) bool {
			if a.OK() != b.OK() {
				return a.OK()
			}
			return a.Assessment.YearsOfService() > b.Assessment.YearsOfService()
		}
	case SortMostClaimed:
		less = func(a, b Row) bool { return a.Employee.ClaimedYears > b.Employee.ClaimedYears }
	case SortName:
		less = func(a, b Row) bool { return compareText(a.Employee.Name, b.Employee.Name) < 0 }
	case SortDepartment:
		less = func(a, b Row) bool { return compareText(a.Employee.Department, b.Employee.Department) < 0 }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// compareText orders case-insensitively, falling back to byte order.
func compareText(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// =============================================================================
// DEPARTMENT STATISTICS
// =============================================================================

// DepartmentStat aggregates one department.
//
// RemainingYears is total service minus total claimed, not clamped per
// employee, so over-claimed employees pull the department figure down.
type DepartmentStat struct {
	Department     string
	Employees      int
	Skipped        int // rows that failed assessment
	TotalYears     int
	AvgService     int
	TotalClaimed   int
	RemainingYears int
}

// DepartmentStats groups the batch by department in first-seen order.
func DepartmentStats(batch Batch) []DepartmentStat {
	index := make(map[string]int)
	var stats []DepartmentStat

	for _, r := range batch.Rows {
		dept := r.Employee.Department
		i, ok := index[dept]
		if !ok {
			i = len(stats)
			index[dept] = i
			stats = append(stats, DepartmentStat{Department: dept})
		}

		s := &stats[i]
		s.Employees++
		if !r.OK() {
			s.Skipped++
			continue
		}
		s.TotalYears += r.Assessment.YearsOfService()
		s.TotalClaimed += r.Employee.ClaimedYears
	}

	for i := range stats {
		s := &stats[i]
		s.AvgService = roundedAverage(s.TotalYears, s.Employees-s.Skipped)
		s.RemainingYears = s.TotalYears - s.TotalClaimed
	}
	return stats
}

// LargestDepartment returns the department with the most employees. Ties
// keep the department seen first. ok is false when stats is empty.
func LargestDepartment(stats []DepartmentStat) (largest DepartmentStat, ok bool) {
	for i, s := range stats {
		if i == 0 || s.Employees > largest.Employees {
			largest = s
		}
	}
	return largest, len(stats) > 0
}

// =============================================================================
// UNCLAIMED YEARS
// =============================================================================

// UnclaimedSummary totals the years employees could still claim.
type UnclaimedSummary struct {
	TotalUnclaimed    int // sum of per-employee remaining years, each clamped at zero
	EligibleEmployees int // employees with at least one remaining year
	Skipped           int // rows that failed assessment
}

// Unclaimed summarises remaining eligible years over the assessed rows.
// Over-claimed employees contribute zero.
func Unclaimed(batch Batch) UnclaimedSummary {
	s := UnclaimedSummary{Skipped: batch.Failed}
	for _, r := range batch.Valid() {
		remaining := r.Assessment.RemainingYears()
		s.TotalUnclaimed += remaining
		if remaining > 0 {
			s.EligibleEmployees++
		}
	}
	return s
}
