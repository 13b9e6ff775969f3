package tenure

import (
	"fmt"
	"time"
)

// =============================================================================
// RANGE POLICY - What to do when the reference date precedes the start
// =============================================================================

// RangePolicy decides how Evaluate treats a reference date before the start.
type RangePolicy string

const (
	RangeReject      RangePolicy = "reject"      // ErrInvalidRange
	RangeClamp       RangePolicy = "clamp"       // zero elapsed time
	RangePassthrough RangePolicy = "passthrough" // raw negative values
)

// ParseRangePolicy maps a config string to a RangePolicy. Empty means reject.
func ParseRangePolicy(s string) (RangePolicy, error) {
	switch p := RangePolicy(s); p {
	case "":
		return RangeReject, nil
	case RangeReject, RangeClamp, RangePassthrough:
		return p, nil
	default:
		return "", fmt.Errorf("unknown range policy %q", s)
	}
}

// =============================================================================
// SERVICE RECORD / ASSESSMENT
// =============================================================================

// ServiceRecord is the caller-supplied input for one employee. Dates are raw
// YYYY-MM-DD text as held by the data source. An empty ReferenceDate means
// today according to the calculator's clock.
type ServiceRecord struct {
	StartDate     string
	ReferenceDate string
	ClaimedYears  int
}

// Assessment is everything derived from one ServiceRecord.
type Assessment struct {
	StartDate      time.Time
	ReferenceDate  time.Time
	FormattedStart string
	Duration       ServiceDuration
	ServiceLength  string
	ClaimedYears   int
	Eligibility    EligibilityResult
}

// YearsOfService is shorthand for Eligibility.TotalYearsOfService.
func (a Assessment) YearsOfService() int { return a.Eligibility.TotalYearsOfService }

// RemainingYears is shorthand for Eligibility.RemainingYears.
func (a Assessment) RemainingYears() int { return a.Eligibility.RemainingYears }

// =============================================================================
// CALCULATOR - Validated entry point
// =============================================================================

// Calculator validates raw records and runs the pure functions over them.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	Clock               Clock
	RangePolicy         RangePolicy
	AllowNegativeClaims bool
}

// NewCalculator returns a calculator that rejects inverted ranges and
// negative claims.
func NewCalculator(clock Clock) *Calculator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Calculator{Clock: clock, RangePolicy: RangeReject}
}

// Today is the calculator clock's current date.
func (c *Calculator) Today() time.Time { return Today(c.Clock) }

// ReferenceDate parses asOf, or falls back to today when asOf is empty.
func (c *Calculator) ReferenceDate(asOf string) (time.Time, error) {
	if asOf == "" {
		return c.Today(), nil
	}
	return ParseDate("reference_date", asOf)
}

// Evaluate parses and validates rec, then computes its assessment.
func (c *Calculator) Evaluate(rec ServiceRecord) (Assessment, error) {
	start, err := ParseDate("start_date", rec.StartDate)
	if err != nil {
		return Assessment{}, err
	}
	ref, err := c.ReferenceDate(rec.ReferenceDate)
	if err != nil {
		return Assessment{}, err
	}
	return c.Assess(start, ref, rec.ClaimedYears)
}

// Assess is Evaluate for already-parsed dates.
func (c *Calculator) Assess(start, ref time.Time, claimedYears int) (Assessment, error) {
	if claimedYears < 0 && !c.AllowNegativeClaims {
		return Assessment{}, &ClaimError{ClaimedYears: claimedYears}
	}

	start, ref = Normalize(start), Normalize(ref)
	effective := ref
	if ref.Before(start) {
		switch c.RangePolicy {
		case RangeClamp:
			effective = start
		case RangePassthrough:
		default:
			return Assessment{}, &RangeError{Start: start, Reference: ref}
		}
	}

	d := Elapsed(start, effective)
	return Assessment{
		StartDate:      start,
		ReferenceDate:  ref,
		FormattedStart: FormatDate(start),
		Duration:       d,
		ServiceLength:  d.String(),
		ClaimedYears:   claimedYears,
		Eligibility:    Eligibility(start, claimedYears, effective),
	}, nil
}
