/*
handlers.go - HTTP API handlers for the tenure dashboard

PURPOSE:
  Exposes tenure calculation, the employee roster and pay advancements via
  REST API. Handles HTTP request/response, JSON serialization, and
  delegates to the tenure, report and advancement packages.

ENDPOINTS:
  Employees:
    GET    /api/employees                          Directory (search/department/status)
    POST   /api/employees                          Create employee
    GET    /api/employees/{id}                     Employee with tenure
    GET    /api/employees/{id}/tenure              Tenure only
    GET    /api/employees/{id}/advancement-preview Eligibility panel
    GET    /api/departments                        Distinct departments

  Pay advancements:
    GET    /api/advancements                       History (search/department)
    POST   /api/advancements                       Submit request
    GET    /api/advancements/summary               Totals

  Views:
    GET    /api/dashboard                          Headline numbers
    GET    /api/reports/employees?sort=            Sorted employee report
    GET    /api/reports/departments                Department statistics
    GET    /api/calculator?start=&claimed=         Standalone calculation

  Tenure tracker:
    POST   /api/tenure/recalculate                 Recalculate now
    GET    /api/tenure/runs                        Recalculation history

  Admin:
    POST   /api/admin/reset                        Clear and reseed

  Every tenure-sensitive GET accepts ?as_of=YYYY-MM-DD (default: today).

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (calculator, report builders, advancement service)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON {"error", "details"} with HTTP status:
  - 400: Malformed input (dates, ranges, missing fields)
  - 404: Employee not found
  - 409: Duplicate employee or advancement id
  - 422: Request rejected by eligibility rules
  - 500: Internal errors

  A malformed employee record never fails a list endpoint; it comes back
  as that employee's "error" field.

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Recalculator shared with the scheduler
*/
package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/warp/tenure-engine/advancement"
	"github.com/warp/tenure-engine/report"
	"github.com/warp/tenure-engine/roster"
	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// DataStore is the persistence the API needs.
type DataStore interface {
	roster.Store
	roster.RunStore
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store        DataStore
	Calc         *tenure.Calculator
	Builder      *report.Builder
	Advancements *advancement.Service
	Recalc       *Recalculator

	// Dataset is reloaded by the reset endpoint. Nil leaves the store empty.
	Dataset *roster.Dataset
}

// NewHandler wires the domain services around store and calc.
func NewHandler(store DataStore, calc *tenure.Calculator) *Handler {
	builder := report.NewBuilder(calc)
	return &Handler{
		Store:        store,
		Calc:         calc,
		Builder:      builder,
		Advancements: advancement.NewService(store, calc),
		Recalc:       NewRecalculator(store, store, builder),
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns the filtered directory with tenure per employee.
// GET /api/employees?search=&department=&status=&as_of=
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.asOf(w, r)
	if !ok {
		return
	}

	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	// The summary covers the whole roster, the rows only the filtered part
	q := r.URL.Query()
	all := h.Builder.Assess(employees, asOf)
	batch := report.FilterRows(all, report.EmployeeFilter{
		Search:     q.Get("search"),
		Department: q.Get("department"),
		Status:     q.Get("status"),
	})
	stats := report.Directory(employees)

	writeJSON(w, http.StatusOK, EmployeeListResponse{
		AsOf:      asOf.Format(tenure.DateLayout),
		Employees: toRowDTOs(batch.Rows),
		Summary: DirectoryStatsDTO{
			Total:           stats.Total,
			Active:          stats.Active,
			Inactive:        stats.Inactive,
			Departments:     stats.Departments,
			AvgServiceYears: report.AverageService(all),
		},
		Processed: batch.Processed,
		Failed:    batch.Failed,
	})
}

// GetEmployee returns one employee with tenure.
// GET /api/employees/{id}?as_of=
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.asOf(w, r)
	if !ok {
		return
	}

	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}

	writeJSON(w, http.StatusOK, toRowDTO(h.Builder.AssessOne(emp, asOf)))
}

// GetTenure returns only the tenure of one employee. Unlike GetEmployee, a
// record that cannot be assessed is an error response.
// GET /api/employees/{id}/tenure?as_of=
func (h *Handler) GetTenure(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.asOf(w, r)
	if !ok {
		return
	}

	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}

	row := h.Builder.AssessOne(emp, asOf)
	if row.Err != nil {
		writeDomainError(w, "Failed to calculate tenure", row.Err)
		return
	}
	writeJSON(w, http.StatusOK, toTenureDTO(row.Assessment))
}

// CreateEmployee adds an employee. A missing id is generated.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp := roster.Employee{
		ID:           strings.TrimSpace(req.ID),
		Name:         strings.TrimSpace(req.Name),
		Department:   strings.TrimSpace(req.Department),
		StartDate:    strings.TrimSpace(req.StartDate),
		Status:       roster.Status(req.Status),
		ClaimedYears: req.ClaimedYears,
	}
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	if emp.Status == "" {
		emp.Status = roster.StatusActive
	}

	if _, err := tenure.ParseDate("start_date", emp.StartDate); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date", err)
		return
	}
	if emp.ClaimedYears < 0 && !h.Calc.AllowNegativeClaims {
		writeError(w, http.StatusBadRequest, "Invalid claimed years", &tenure.ClaimError{ClaimedYears: emp.ClaimedYears})
		return
	}
	if err := emp.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee", err)
		return
	}

	if err := h.Store.CreateEmployee(r.Context(), emp); err != nil {
		if errors.Is(err, roster.ErrDuplicateEmployee) {
			writeError(w, http.StatusConflict, "Employee already exists", err)
			return
		}
		writeDomainError(w, "Failed to create employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// ListDepartments returns distinct departments in roster order.
// GET /api/departments
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	depts := report.Departments(employees)
	if depts == nil {
		depts = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"departments": depts})
}

// =============================================================================
// PAY ADVANCEMENT HANDLERS
// =============================================================================

// PreviewAdvancement returns the eligibility panel for the request form.
// GET /api/employees/{id}/advancement-preview?as_of=
func (h *Handler) PreviewAdvancement(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return
	}

	p, err := h.Advancements.Preview(r.Context(), chi.URLParam(r, "id"), asOf)
	if err != nil {
		writeDomainError(w, "Failed to preview advancement", err)
		return
	}
	writeJSON(w, http.StatusOK, toPreviewDTO(p))
}

// SubmitAdvancement validates and records a pay advancement.
// POST /api/advancements?as_of=
func (h *Handler) SubmitAdvancement(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return
	}

	var req SubmitAdvancementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	adv, err := h.Advancements.Submit(r.Context(), advancement.Request{
		EmployeeID:    req.EmployeeID,
		YearsToPayOut: req.YearsToPayOut,
		PayoutDate:    req.PayoutDate,
		Amount:        req.Amount,
		Remarks:       req.Remarks,
	}, asOf)
	if err != nil {
		writeDomainError(w, "Advancement request rejected", err)
		return
	}

	log.Printf("[Advancement] Recorded %s: employee=%s years=%d", adv.ID, adv.EmployeeID, adv.YearsClaimed)
	writeJSON(w, http.StatusCreated, toAdvancementDTO(adv))
}

// ListAdvancements returns the filtered history and its totals.
// GET /api/advancements?search=&department=
func (h *Handler) ListAdvancements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	advs, err := h.Store.ListAdvancements(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list advancements", err)
		return
	}
	employees, err := h.Store.ListEmployees(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	q := r.URL.Query()
	filtered := report.FilterHistory(advs, employees, report.HistoryFilter{
		Search:     q.Get("search"),
		Department: q.Get("department"),
	})

	writeJSON(w, http.StatusOK, AdvancementListResponse{
		Advancements: toAdvancementDTOs(filtered),
		Summary:      toHistorySummaryDTO(report.SummarizeHistory(filtered)),
	})
}

// AdvancementSummary totals the full history.
// GET /api/advancements/summary
func (h *Handler) AdvancementSummary(w http.ResponseWriter, r *http.Request) {
	advs, err := h.Store.ListAdvancements(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list advancements", err)
		return
	}
	writeJSON(w, http.StatusOK, toHistorySummaryDTO(report.SummarizeHistory(advs)))
}

// =============================================================================
// DASHBOARD / REPORT HANDLERS
// =============================================================================

// GetDashboard returns the landing page numbers.
// GET /api/dashboard?as_of=
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.assessAll(w, r)
	if !ok {
		return
	}
	advs, err := h.Store.ListAdvancements(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list advancements", err)
		return
	}

	d := report.BuildDashboard(batch, advs)
	writeJSON(w, http.StatusOK, DashboardDTO{
		AsOf:               batch.AsOf.Format(tenure.DateLayout),
		TotalEmployees:     d.TotalEmployees,
		ActiveEmployees:    d.ActiveEmployees,
		AvgServiceYears:    d.AvgServiceYears,
		AdvancementCount:   d.AdvancementCount,
		TotalAmountPaid:    d.TotalAmountPaid,
		TotalAmountDisplay: report.FormatPeso(d.TotalAmountPaid),
		RecentActivity:     toAdvancementDTOs(d.RecentActivity),
		Departments:        toDepartmentStatDTOs(d.DepartmentSummary),
		Skipped:            d.Skipped,
	})
}

// EmployeeReport returns every employee sorted by the requested key.
// GET /api/reports/employees?sort=&as_of=
func (h *Handler) EmployeeReport(w http.ResponseWriter, r *http.Request) {
	key, err := report.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sort key", err)
		return
	}
	batch, ok := h.assessAll(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, EmployeeReportResponse{
		AsOf:      batch.AsOf.Format(tenure.DateLayout),
		Sort:      string(key),
		Employees: toRowDTOs(report.SortRows(batch.Rows, key)),
	})
}

// DepartmentReport returns per-department statistics.
// GET /api/reports/departments?as_of=
func (h *Handler) DepartmentReport(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.assessAll(w, r)
	if !ok {
		return
	}
	stats := report.DepartmentStats(batch)
	resp := DepartmentReportResponse{
		AsOf:            batch.AsOf.Format(tenure.DateLayout),
		Departments:     toDepartmentStatDTOs(stats),
		DepartmentCount: len(stats),
		Unclaimed:       toUnclaimedDTO(report.Unclaimed(batch)),
	}
	if largest, ok := report.LargestDepartment(stats); ok {
		resp.LargestDepartment = largest.Department
	}
	writeJSON(w, http.StatusOK, resp)
}

// Calculate runs the calculator on query parameters without touching the
// roster.
// GET /api/calculator?start=&as_of=&claimed=
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	claimed := 0
	if s := q.Get("claimed"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid claimed years", err)
			return
		}
		claimed = n
	}

	a, err := h.Calc.Evaluate(tenure.ServiceRecord{
		StartDate:     q.Get("start"),
		ReferenceDate: q.Get("as_of"),
		ClaimedYears:  claimed,
	})
	if err != nil {
		writeDomainError(w, "Failed to calculate tenure", err)
		return
	}

	writeJSON(w, http.StatusOK, CalculatorDTO{
		StartDate: a.StartDate.Format(tenure.DateLayout),
		Tenure:    toTenureDTO(a),
	})
}

// =============================================================================
// TENURE TRACKER HANDLERS
// =============================================================================

// Recalculate recomputes every employee as of today and records the run.
// POST /api/tenure/recalculate
func (h *Handler) Recalculate(w http.ResponseWriter, r *http.Request) {
	run, batch, err := h.Recalc.Run(r.Context(), TriggerManual)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to recalculate", err)
		return
	}

	writeJSON(w, http.StatusOK, RecalculateResponse{
		Run:       toRunDTO(run),
		Employees: toRowDTOs(batch.Rows),
	})
}

// ListRecalculationRuns returns recalculation history, newest first.
// GET /api/tenure/runs?limit=
func (h *Handler) ListRecalculationRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	runs, err := h.Store.ListRecalculationRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get recalculation runs", err)
		return
	}

	dtos := make([]RecalculationRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toRunDTO(run))
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": dtos})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ResetDatabase clears all data and reloads the configured dataset.
// POST /api/admin/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Dataset == nil {
		if err := h.Store.Reset(ctx); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
			return
		}
	} else if err := h.Store.ResetAndSeed(ctx, *h.Dataset); err != nil {
		// Nothing was changed
		writeError(w, http.StatusInternalServerError, "Failed to reseed database", err)
		return
	}

	log.Println("[Admin] Database reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// asOfParam validates the as_of query parameter and returns it as text.
// Empty means today.
func (h *Handler) asOfParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("as_of"))
	if raw == "" {
		return "", true
	}
	if _, err := tenure.ParseDate("as_of", raw); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return "", false
	}
	return raw, true
}

// asOf resolves the as_of query parameter, defaulting to today.
func (h *Handler) asOf(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	t, err := h.Calc.ReferenceDate(strings.TrimSpace(r.URL.Query().Get("as_of")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return time.Time{}, false
	}
	return t, true
}

// assessAll assesses the whole roster as of the request's as_of.
func (h *Handler) assessAll(w http.ResponseWriter, r *http.Request) (report.Batch, bool) {
	asOf, ok := h.asOf(w, r)
	if !ok {
		return report.Batch{}, false
	}
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return report.Batch{}, false
	}
	return h.Builder.Assess(employees, asOf), true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps a domain error to its HTTP status.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch {
	case roster.IsNotFound(err):
		return http.StatusNotFound
	case advancement.IsRejected(err):
		return http.StatusUnprocessableEntity
	case advancement.IsInvalid(err), tenure.IsClientError(err), errors.Is(err, roster.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, roster.ErrDuplicateAdvancement), errors.Is(err, roster.ErrDuplicateEmployee):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
