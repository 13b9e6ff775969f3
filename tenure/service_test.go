package tenure_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) time.Time {
	return tenure.Date(year, month, day)
}

// =============================================================================
// YEARS OF SERVICE
// =============================================================================

func TestYearsOfService(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		ref   time.Time
		want  int
	}{
		{"same day", date(2020, time.March, 1), date(2020, time.March, 1), 0},
		{"twenty calendar years is exactly 7305 days", date(2004, time.August, 15), date(2024, time.August, 15), 20},
		{"one day short of 7305 days", date(2004, time.August, 15), date(2024, time.August, 14), 19},
		{"365 days is under one average year", date(2004, time.August, 15), date(2005, time.August, 15), 0},
		{"366 days crosses one average year", date(2004, time.August, 15), date(2005, time.August, 16), 1},
		{"mid-year reference", date(2015, time.January, 20), date(2024, time.August, 15), 9},
		{"reference before start floors to -1", date(2024, time.August, 20), date(2024, time.August, 15), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tenure.YearsOfService(tt.start, tt.ref))
		})
	}
}

func TestYearsOfService_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2004, time.August, 15, 23, 59, 0, 0, time.UTC)
	ref := time.Date(2024, time.August, 15, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 20, tenure.YearsOfService(start, ref))
}

func TestYearsOfService_ZeroForEveryDayOfAYear(t *testing.T) {
	d := date(2023, time.January, 1)
	for i := 0; i < 366; i++ {
		assert.Equal(t, 0, tenure.YearsOfService(d, d), d.Format(tenure.DateLayout))
		d = d.AddDate(0, 0, 1)
	}
}

// =============================================================================
// SERVICE LENGTH
// =============================================================================

func TestServiceLength(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		ref   time.Time
		want  string
	}{
		{"months only", date(2020, time.January, 1), date(2020, time.June, 1), "5 months"},
		{"single month", date(2024, time.July, 1), date(2024, time.August, 1), "1 month"},
		{"same month is zero months", date(2024, time.August, 1), date(2024, time.August, 31), "0 months"},
		{"whole years", date(2004, time.August, 15), date(2024, time.August, 15), "20 years"},
		{"single year", date(2004, time.August, 15), date(2005, time.August, 15), "1 year"},
		{"years and months", date(2015, time.January, 20), date(2024, time.August, 15), "9 years, 7 months"},
		{"singular both", date(2023, time.July, 10), date(2024, time.August, 10), "1 year, 1 month"},
		{"borrow across year end", date(2022, time.December, 15), date(2024, time.January, 2), "1 year, 1 month"},
		{"day of month ignored", date(2023, time.August, 31), date(2024, time.August, 1), "1 year"},
		{"inverted range passes through", date(2025, time.March, 1), date(2024, time.January, 1), "-2 years, 10 months"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tenure.ServiceLength(tt.start, tt.ref))
		})
	}
}

func TestServiceLength_PluralizationIsExclusive(t *testing.T) {
	start := date(2010, time.January, 1)
	ref := start
	for i := 0; i < 60; i++ {
		s := tenure.ServiceLength(start, ref)
		d := tenure.Elapsed(start, ref)

		hasMonthsWord := strings.Contains(s, "months")
		hasMonthWord := strings.Contains(s, "month") && !hasMonthsWord
		if d.Years == 0 || d.Months != 0 {
			assert.True(t, hasMonthWord != hasMonthsWord, s)
			assert.Equal(t, d.Months == 1, hasMonthWord, s)
		}

		hasYearsWord := strings.Contains(s, "years")
		hasYearWord := strings.Contains(s, "year") && !hasYearsWord
		if d.Years != 0 {
			assert.True(t, hasYearWord != hasYearsWord, s)
			assert.Equal(t, d.Years == 1, hasYearWord, s)
		}
		ref = ref.AddDate(0, 1, 0)
	}
}

func TestElapsed_MonthsAlwaysInRange(t *testing.T) {
	start := date(2018, time.September, 12)
	for ref := date(2018, time.September, 1); ref.Year() < 2026; ref = ref.AddDate(0, 0, 17) {
		d := tenure.Elapsed(start, ref)
		assert.GreaterOrEqual(t, d.Months, 0)
		assert.LessOrEqual(t, d.Months, 11)
	}
}

// =============================================================================
// ALGORITHM DIVERGENCE
// =============================================================================

func TestDurationAlgorithmsDiverge(t *testing.T) {
	// GIVEN: Start Aug 15 2004, reference one day before the 20th anniversary
	start := date(2004, time.August, 15)
	ref := date(2024, time.August, 14)

	// THEN: Day-count says 19 years, calendar fields say 20
	assert.Equal(t, 19, tenure.YearsOfService(start, ref))
	assert.Equal(t, "20 years", tenure.ServiceLength(start, ref))

	// AND: On the anniversary itself both agree
	ref = date(2024, time.August, 15)
	assert.Equal(t, 20, tenure.YearsOfService(start, ref))
	assert.Equal(t, "20 years", tenure.ServiceLength(start, ref))
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

func TestRemainingEligibleYears(t *testing.T) {
	start := date(2015, time.January, 20)
	ref := date(2024, time.August, 15)

	assert.Equal(t, 7, tenure.RemainingEligibleYears(start, 2, ref))
	assert.Equal(t, 9, tenure.RemainingEligibleYears(start, 0, ref))
	assert.Equal(t, 0, tenure.RemainingEligibleYears(start, 9, ref))
	assert.Equal(t, 0, tenure.RemainingEligibleYears(start, 999, ref), "over-claiming clamps to zero")
}

func TestRemainingEligibleYears_NeverNegative(t *testing.T) {
	ref := date(2024, time.August, 15)
	for start := date(1990, time.January, 1); start.Before(ref); start = start.AddDate(0, 3, 11) {
		for _, claimed := range []int{0, 1, 5, 20, 40, 999} {
			assert.GreaterOrEqual(t, tenure.RemainingEligibleYears(start, claimed, ref), 0)
		}
	}
}

func TestRemainingEligibleYears_UnvalidatedNegativeClaim(t *testing.T) {
	// The raw function accepts negative claims; only the clamp applies.
	start := date(2015, time.January, 20)
	ref := date(2024, time.August, 15)

	assert.Equal(t, 12, tenure.RemainingEligibleYears(start, -3, ref))
}

func TestEligibility(t *testing.T) {
	got := tenure.Eligibility(date(2004, time.August, 15), 10, date(2024, time.August, 15))

	assert.Equal(t, tenure.EligibilityResult{TotalYearsOfService: 20, RemainingYears: 10}, got)
	assert.True(t, got.HasUnclaimedYears())
}

// =============================================================================
// DATE FORMATTING
// =============================================================================

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Aug 15, 2004", tenure.FormatDate(date(2004, time.August, 15)))
	assert.Equal(t, "Sep 05, 2018", tenure.FormatDate(date(2018, time.September, 5)))
	assert.Equal(t, "Jan 01, 0999", tenure.FormatDate(date(999, time.January, 1)))

	d := date(2012, time.June, 5)
	assert.Equal(t, tenure.FormatDate(d), tenure.FormatDate(d), "deterministic for a fixed date")
}

func TestParseDate(t *testing.T) {
	got, err := tenure.ParseDate("start_date", " 2004-08-15 ")
	assert.NoError(t, err)
	assert.Equal(t, date(2004, time.August, 15), got)

	for _, bad := range []string{"", "2024-13-01", "15/08/2004", "2024-02-30", "not a date"} {
		_, err := tenure.ParseDate("start_date", bad)
		assert.ErrorIs(t, err, tenure.ErrInvalidDate, bad)

		var de *tenure.DateError
		if assert.ErrorAs(t, err, &de) {
			assert.Equal(t, "start_date", de.Field)
			assert.Equal(t, bad, de.Value)
		}
	}
}

func TestYearsLabel(t *testing.T) {
	assert.Equal(t, "1 years", tenure.YearsLabel(1))
	assert.Equal(t, "0 years", tenure.YearsLabel(0))
}
