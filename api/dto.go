/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model (roster, tenure, report) from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Wrappers around lists plus their summaries

TYPES:
  Employee:     EmployeeDTO, TenureDTO, CreateEmployeeRequest
  Advancement:  AdvancementDTO, SubmitAdvancementRequest, PreviewDTO
  Views:        DashboardDTO, DepartmentStatDTO, DepartmentReportResponse,
                HistorySummaryDTO
  Tenure runs:  RecalculationRunDTO

MONEY:
  Amounts are decimal strings ("50000") alongside a display form
  ("₱50,000" or "N/A").

DATES:
  Raw dates are YYYY-MM-DD. Display dates are "Aug 15, 2004".

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/tenure-engine/advancement"
	"github.com/warp/tenure-engine/report"
	"github.com/warp/tenure-engine/roster"
	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses. Exactly one of
// Tenure and Error is set.
type EmployeeDTO struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Department   string     `json:"department"`
	StartDate    string     `json:"start_date"`
	Status       string     `json:"status"`
	ClaimedYears int        `json:"claimed_years"`
	Tenure       *TenureDTO `json:"tenure,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// TenureDTO is one tenure assessment.
type TenureDTO struct {
	AsOf              string `json:"as_of"`
	FormattedStart    string `json:"formatted_start"`
	ServiceLength     string `json:"service_length"`
	Years             int    `json:"years"`
	Months            int    `json:"months"`
	YearsOfService    int    `json:"years_of_service"`
	YearsLabel        string `json:"years_label"`
	ClaimedYears      int    `json:"claimed_years"`
	RemainingYears    int    `json:"remaining_years"`
	HasUnclaimedYears bool   `json:"has_unclaimed_years"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Department   string `json:"department"`
	StartDate    string `json:"start_date"`
	Status       string `json:"status"`
	ClaimedYears int    `json:"claimed_years"`
}

// EmployeeListResponse is the employee directory.
type EmployeeListResponse struct {
	AsOf      string            `json:"as_of"`
	Employees []EmployeeDTO     `json:"employees"`
	Summary   DirectoryStatsDTO `json:"summary"`
	Processed int               `json:"processed"`
	Failed    int               `json:"failed"`
}

type DirectoryStatsDTO struct {
	Total           int `json:"total"`
	Active          int `json:"active"`
	Inactive        int `json:"inactive"`
	Departments     int `json:"departments"`
	AvgServiceYears int `json:"avg_service_years"`
}

// =============================================================================
// PAY ADVANCEMENTS
// =============================================================================

type AdvancementDTO struct {
	ID            string           `json:"id"`
	EmployeeID    string           `json:"employee_id"`
	EmployeeName  string           `json:"employee_name"`
	YearsClaimed  int              `json:"years_claimed"`
	Date          string           `json:"date"`
	DisplayDate   string           `json:"display_date"`
	Amount        *decimal.Decimal `json:"amount"`
	AmountDisplay string           `json:"amount_display"`
	Remarks       string           `json:"remarks,omitempty"`
	CreatedAt     string           `json:"created_at,omitempty"`
}

// SubmitAdvancementRequest is the pay advancement form. Amount may be a
// JSON number or string, or omitted.
type SubmitAdvancementRequest struct {
	EmployeeID    string           `json:"employee_id"`
	YearsToPayOut int              `json:"years_to_pay_out"`
	PayoutDate    string           `json:"payout_date"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Remarks       string           `json:"remarks,omitempty"`
}

// PreviewDTO is the read-only panel next to the advancement form.
type PreviewDTO struct {
	EmployeeID     string `json:"employee_id"`
	EmployeeName   string `json:"employee_name"`
	Status         string `json:"status"`
	FormattedStart string `json:"formatted_start"`
	ServiceLength  string `json:"service_length"`
	TotalYears     int    `json:"total_years"`
	ClaimedYears   int    `json:"claimed_years"`
	RemainingYears int    `json:"remaining_years"`
	CanRequest     bool   `json:"can_request"`
}

type HistorySummaryDTO struct {
	Records           int             `json:"records"`
	TotalYearsClaimed int             `json:"total_years_claimed"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	TotalAmountText   string          `json:"total_amount_display"`
}

type AdvancementListResponse struct {
	Advancements []AdvancementDTO  `json:"advancements"`
	Summary      HistorySummaryDTO `json:"summary"`
}

// =============================================================================
// DASHBOARD / REPORTS
// =============================================================================

type DashboardDTO struct {
	AsOf               string              `json:"as_of"`
	TotalEmployees     int                 `json:"total_employees"`
	ActiveEmployees    int                 `json:"active_employees"`
	AvgServiceYears    int                 `json:"avg_service_years"`
	AdvancementCount   int                 `json:"advancement_count"`
	TotalAmountPaid    decimal.Decimal     `json:"total_amount_paid"`
	TotalAmountDisplay string              `json:"total_amount_display"`
	RecentActivity     []AdvancementDTO    `json:"recent_activity"`
	Departments        []DepartmentStatDTO `json:"departments"`
	Skipped            int                 `json:"skipped"`
}

type DepartmentStatDTO struct {
	Department     string `json:"department"`
	Employees      int    `json:"employees"`
	Skipped        int    `json:"skipped,omitempty"`
	TotalYears     int    `json:"total_years"`
	AvgService     int    `json:"avg_service"`
	TotalClaimed   int    `json:"total_claimed"`
	RemainingYears int    `json:"remaining_years"`
}

// DepartmentReportResponse is the per-department breakdown plus the
// company-wide unclaimed totals.
type DepartmentReportResponse struct {
	AsOf              string              `json:"as_of"`
	Departments       []DepartmentStatDTO `json:"departments"`
	DepartmentCount   int                 `json:"department_count"`
	LargestDepartment string              `json:"largest_department,omitempty"`
	Unclaimed         UnclaimedDTO        `json:"unclaimed"`
}

type UnclaimedDTO struct {
	TotalUnclaimed    int `json:"total_unclaimed"`
	EligibleEmployees int `json:"eligible_employees"`
	Skipped           int `json:"skipped"`
}

type EmployeeReportResponse struct {
	AsOf      string        `json:"as_of"`
	Sort      string        `json:"sort"`
	Employees []EmployeeDTO `json:"employees"`
}

// CalculatorDTO is the response of the standalone calculator.
type CalculatorDTO struct {
	StartDate string    `json:"start_date"`
	Tenure    TenureDTO `json:"tenure"`
}

// =============================================================================
// TENURE RUNS
// =============================================================================

type RecalculationRunDTO struct {
	ID          string `json:"id"`
	AsOf        string `json:"as_of"`
	Trigger     string `json:"trigger"`
	Processed   int    `json:"processed"`
	Failed      int    `json:"failed"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at"`
}

type RecalculateResponse struct {
	Run       RecalculationRunDTO `json:"run"`
	Employees []EmployeeDTO       `json:"employees"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toTenureDTO(a tenure.Assessment) TenureDTO {
	return TenureDTO{
		AsOf:              a.ReferenceDate.Format(tenure.DateLayout),
		FormattedStart:    a.FormattedStart,
		ServiceLength:     a.ServiceLength,
		Years:             a.Duration.Years,
		Months:            a.Duration.Months,
		YearsOfService:    a.YearsOfService(),
		YearsLabel:        tenure.YearsLabel(a.YearsOfService()),
		ClaimedYears:      a.ClaimedYears,
		RemainingYears:    a.RemainingYears(),
		HasUnclaimedYears: a.Eligibility.HasUnclaimedYears(),
	}
}

func toEmployeeDTO(e roster.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:           e.ID,
		Name:         e.Name,
		Department:   e.Department,
		StartDate:    e.StartDate,
		Status:       string(e.Status),
		ClaimedYears: e.ClaimedYears,
	}
}

func toRowDTO(r report.Row) EmployeeDTO {
	dto := toEmployeeDTO(r.Employee)
	if r.Err != nil {
		dto.Error = r.Err.Error()
		return dto
	}
	t := toTenureDTO(r.Assessment)
	dto.Tenure = &t
	return dto
}

func toRowDTOs(rows []report.Row) []EmployeeDTO {
	dtos := make([]EmployeeDTO, len(rows))
	for i, r := range rows {
		dtos[i] = toRowDTO(r)
	}
	return dtos
}

func toAdvancementDTO(a roster.Advancement) AdvancementDTO {
	dto := AdvancementDTO{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		EmployeeName:  a.EmployeeName,
		YearsClaimed:  a.YearsClaimed,
		Date:          a.Date,
		DisplayDate:   report.FormatDisplayDate(a.Date),
		Amount:        a.Amount,
		AmountDisplay: report.FormatAmount(a.Amount),
		Remarks:       a.Remarks,
	}
	if !a.CreatedAt.IsZero() {
		dto.CreatedAt = a.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toAdvancementDTOs(advs []roster.Advancement) []AdvancementDTO {
	dtos := make([]AdvancementDTO, len(advs))
	for i, a := range advs {
		dtos[i] = toAdvancementDTO(a)
	}
	return dtos
}

func toPreviewDTO(p advancement.Preview) PreviewDTO {
	return PreviewDTO{
		EmployeeID:     p.Employee.ID,
		EmployeeName:   p.Employee.Name,
		Status:         string(p.Employee.Status),
		FormattedStart: p.FormattedStart,
		ServiceLength:  p.ServiceLength,
		TotalYears:     p.TotalYears,
		ClaimedYears:   p.ClaimedYears,
		RemainingYears: p.RemainingYears,
		CanRequest:     p.CanRequest(),
	}
}

func toHistorySummaryDTO(s report.HistorySummary) HistorySummaryDTO {
	return HistorySummaryDTO{
		Records:           s.Records,
		TotalYearsClaimed: s.TotalYearsClaimed,
		TotalAmount:       s.TotalAmount,
		TotalAmountText:   report.FormatPeso(s.TotalAmount),
	}
}

func toDepartmentStatDTOs(stats []report.DepartmentStat) []DepartmentStatDTO {
	dtos := make([]DepartmentStatDTO, len(stats))
	for i, s := range stats {
		dtos[i] = DepartmentStatDTO{
			Department:     s.Department,
			Employees:      s.Employees,
			Skipped:        s.Skipped,
			TotalYears:     s.TotalYears,
			AvgService:     s.AvgService,
			TotalClaimed:   s.TotalClaimed,
			RemainingYears: s.RemainingYears,
		}
	}
	return dtos
}

func toRunDTO(r roster.RecalculationRun) RecalculationRunDTO {
	return RecalculationRunDTO{
		ID:          r.ID,
		AsOf:        r.AsOf.Format(tenure.DateLayout),
		Trigger:     r.Trigger,
		Processed:   r.Processed,
		Failed:      r.Failed,
		StartedAt:   r.StartedAt.Format(time.RFC3339),
		CompletedAt: r.CompletedAt.Format(time.RFC3339),
	}
}

func toUnclaimedDTO(u report.UnclaimedSummary) UnclaimedDTO {
	return UnclaimedDTO{
		TotalUnclaimed:    u.TotalUnclaimed,
		EligibleEmployees: u.EligibleEmployees,
		Skipped:           u.Skipped,
	}
}
