/*
Package tenure computes length of service and pay-advancement eligibility.

PURPOSE:
  Pure, stateless functions over calendar dates. Nothing here reads the
  wall clock, touches storage or keeps state between calls: every value is
  recomputed from its inputs.

TWO DURATION ALGORITHMS:
  YearsOfService  floor(elapsed days / 365.25)
                  Fixed-length-year approximation. Drives eligibility.

  Elapsed         Calendar-field subtraction (year and month fields only,
                  day of month ignored). Drives the "X years, Y months"
                  display string.

  The two disagree near anniversaries. 2004-08-15 -> 2005-08-15 is 365
  days, so YearsOfService is 0 while ServiceLength reads "1 year". Both
  results are kept as they are; callers that show a duration string next
  to a remaining-years count are showing numbers from different methods.

ELIGIBILITY:
  remaining = max(0, YearsOfService - claimed)

  Over-claiming clamps to zero and is never reported as an error here.

USAGE:
  start := tenure.Date(2015, time.January, 20)
  asOf := tenure.Date(2024, time.August, 15)

  tenure.YearsOfService(start, asOf)            // 9
  tenure.ServiceLength(start, asOf)             // "9 years, 7 months"
  tenure.RemainingEligibleYears(start, 2, asOf) // 7
  tenure.FormatDate(start)                      // "Jan 20, 2015"

SEE ALSO:
  - calculator.go: validated entry point over raw text records
  - clock.go: injected "today"
*/
package tenure

import (
	"fmt"
	"time"
)

// =============================================================================
// SERVICE DURATION - Calendar-field elapsed time
// =============================================================================

// ServiceDuration is elapsed service as whole years plus months in [0, 11].
// Years is negative when the reference date precedes the start date.
type ServiceDuration struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

// Elapsed subtracts calendar fields: ref.Year-start.Year and
// ref.Month-start.Month, borrowing a year when months go negative.
func Elapsed(start, ref time.Time) ServiceDuration {
	years := ref.Year() - start.Year()
	months := int(ref.Month()) - int(start.Month())
	if months < 0 {
		years--
		months += 12
	}
	return ServiceDuration{Years: years, Months: months}
}

// String renders the duration for display.
//
//	years == 0   -> "5 months"
//	months == 0  -> "20 years"
//	otherwise    -> "9 years, 7 months"
func (d ServiceDuration) String() string {
	switch {
	case d.Years == 0:
		return plural(d.Months, "month")
	case d.Months == 0:
		return plural(d.Years, "year")
	default:
		return plural(d.Years, "year") + ", " + plural(d.Months, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// ServiceLength is Elapsed(start, ref).String().
func ServiceLength(start, ref time.Time) string {
	return Elapsed(start, ref).String()
}

// =============================================================================
// YEARS OF SERVICE - Day count over average year length
// =============================================================================

// YearsOfService returns floor(days/365.25) between start and ref, computed
// as floor(4*days/1461) so no floating point is involved.
func YearsOfService(start, ref time.Time) int {
	return floorDiv(daysBetween(start, ref)*4, 1461)
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

// EligibilityResult is total service and the part not yet paid out.
type EligibilityResult struct {
	TotalYearsOfService int `json:"total_years_of_service"`
	RemainingYears      int `json:"remaining_years"`
}

// Eligibility composes YearsOfService with the claimed-years clamp.
func Eligibility(start time.Time, claimedYears int, ref time.Time) EligibilityResult {
	total := YearsOfService(start, ref)
	return EligibilityResult{
		TotalYearsOfService: total,
		RemainingYears:      max(0, total-claimedYears),
	}
}

// RemainingEligibleYears is max(0, YearsOfService(start, ref) - claimedYears).
func RemainingEligibleYears(start time.Time, claimedYears int, ref time.Time) int {
	return Eligibility(start, claimedYears, ref).RemainingYears
}

// HasUnclaimedYears reports whether any service years remain to be paid out.
func (e EligibilityResult) HasUnclaimedYears() bool { return e.RemainingYears > 0 }

// =============================================================================
// DISPLAY HELPERS
// =============================================================================

// YearsLabel renders an integer year count the way the request form does:
// "7 years". The form never singularises.
func YearsLabel(n int) string {
	return fmt.Sprintf("%d years", n)
}
