package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/tenure-engine/roster"
	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// PAY ADVANCEMENT HISTORY
// =============================================================================

// HistoryFilter narrows the advancement history.
type HistoryFilter struct {
	Search     string // substring of employee name or remarks, case-insensitive
	Department string // department of the advanced employee; "" or FilterAll for any
}

// FilterHistory keeps matching advancements in their original order. The
// department filter looks the employee up in employees; advancements for
// unknown employees only match when no department filter is set.
func FilterHistory(advs []roster.Advancement, employees []roster.Employee, f HistoryFilter) []roster.Advancement {
	deptOf := make(map[string]string, len(employees))
	for _, e := range employees {
		deptOf[e.ID] = e.Department
	}

	out := make([]roster.Advancement, 0, len(advs))
	for _, a := range advs {
		if f.Search != "" && !containsFold(a.EmployeeName, f.Search) && !containsFold(a.Remarks, f.Search) {
			continue
		}
		if f.Department != "" && f.Department != FilterAll {
			dept, ok := deptOf[a.EmployeeID]
			if !ok || dept != f.Department {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// HistorySummary totals a list of advancements.
type HistorySummary struct {
	Records           int
	TotalYearsClaimed int
	TotalAmount       decimal.Decimal
}

// SummarizeHistory totals advs. Missing amounts count as zero.
func SummarizeHistory(advs []roster.Advancement) HistorySummary {
	s := HistorySummary{Records: len(advs), TotalAmount: decimal.Zero}
	for _, a := range advs {
		s.TotalYearsClaimed += a.YearsClaimed
		s.TotalAmount = s.TotalAmount.Add(a.AmountOrZero())
	}
	return s
}

// =============================================================================
// DISPLAY
// =============================================================================

// NotAvailable is shown for advancements without an amount.
const NotAvailable = "N/A"

// FormatPeso renders an amount as "₱50,000" with thousands separators and
// at most three fraction digits.
func FormatPeso(d decimal.Decimal) string {
	return "₱" + groupThousands(d.Round(3).String())
}

// FormatAmount is FormatPeso, or NotAvailable for a nil amount.
func FormatAmount(d *decimal.Decimal) string {
	if d == nil {
		return NotAvailable
	}
	return FormatPeso(*d)
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + frac
}

// FormatDisplayDate renders a raw YYYY-MM-DD date as "Dec 01, 2024", or
// returns the raw text unchanged when it does not parse.
func FormatDisplayDate(raw string) string {
	t, err := tenure.ParseDate("date", raw)
	if err != nil {
		return raw
	}
	return tenure.FormatDate(t)
}
