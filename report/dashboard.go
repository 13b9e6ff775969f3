package report

import (
	"github.com/shopspring/decimal"

	"github.com/warp/tenure-engine/roster"
)

// =============================================================================
// DASHBOARD
// =============================================================================

// RecentActivityLimit is how many advancements the dashboard lists.
const RecentActivityLimit = 3

// Dashboard is the landing page summary.
type Dashboard struct {
	TotalEmployees    int
	ActiveEmployees   int
	AvgServiceYears   int
	AdvancementCount  int
	TotalAmountPaid   decimal.Decimal
	RecentActivity    []roster.Advancement
	DepartmentSummary []DepartmentStat
	Skipped           int // employees left out of the averages
}

// BuildDashboard summarises an assessed batch and the advancement history.
// Recent activity is the first RecentActivityLimit advancements in source
// order.
func BuildDashboard(batch Batch, advs []roster.Advancement) Dashboard {
	d := Dashboard{
		TotalEmployees:    len(batch.Rows),
		AdvancementCount:  len(advs),
		TotalAmountPaid:   SummarizeHistory(advs).TotalAmount,
		DepartmentSummary: DepartmentStats(batch),
		Skipped:           batch.Failed,
	}

	for _, r := range batch.Rows {
		if r.Employee.IsActive() {
			d.ActiveEmployees++
		}
	}
	d.AvgServiceYears = AverageService(batch)

	n := min(RecentActivityLimit, len(advs))
	d.RecentActivity = append([]roster.Advancement(nil), advs[:n]...)
	return d
}
