/*
Package sqlite provides a SQLite-backed implementation of the roster stores.

PURPOSE:
  Implements roster.Store and roster.RunStore using SQLite. The schema is
  small: employees, advancements, and the history of tenure recalculations.

INTERFACES IMPLEMENTED:
  roster.Source:   ordered employee/advancement listings
  roster.Store:    lookups, upserts, insert-only creates, atomic
                   advancement recording and reseeding
  roster.RunStore: recalculation run history

ORDERING:
  Listings come back in insertion order (rowid). Upserting an existing
  employee keeps its rowid, so edits don't reorder the directory.

APPEND-ONLY ADVANCEMENTS:
  There is no UPDATE or DELETE on the advancements table outside Reset().
  RecordAdvancement inserts the advancement and increments the employee's
  claimed_years inside one SQL transaction.

RAW DATES:
  start_date and payout date are stored as the TEXT the caller supplied.
  Parsing is left to the tenure calculator so one bad row cannot fail a
  listing.

CONCURRENCY:
  sync.RWMutex around every method, one open connection. ":memory:"
  databases are per-connection in SQLite, so a single connection is also
  what keeps an in-memory store coherent.

USAGE:
  store, err := sqlite.New("./data/tenure.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - roster/types.go: interface definitions
  - roster/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/tenure-engine/roster"
)

// Store implements the roster storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ roster.Store    = (*Store)(nil)
	_ roster.RunStore = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		status TEXT NOT NULL,
		claimed_years INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_department
		ON employees(department);

	-- Pay advancements (append-only)
	CREATE TABLE IF NOT EXISTS advancements (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		employee_name TEXT NOT NULL,
		years_claimed INTEGER NOT NULL,
		payout_date TEXT NOT NULL,
		amount TEXT,
		remarks TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_advancements_employee
		ON advancements(employee_id);

	-- Tenure recalculation history
	CREATE TABLE IF NOT EXISTS recalculation_runs (
		id TEXT PRIMARY KEY,
		as_of TEXT NOT NULL,
		trigger_source TEXT NOT NULL,
		processed INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		started_at TEXT NOT NULL,
		completed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_recalculation_runs_started
		ON recalculation_runs(started_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

const employeeColumns = "id, name, department, start_date, status, claimed_years"

// ListEmployees returns all employees in insertion order.
func (s *Store) ListEmployees(ctx context.Context) ([]roster.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+employeeColumns+" FROM employees ORDER BY rowid",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []roster.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (roster.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE id = ?", id,
	)
	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return roster.Employee{}, &roster.NotFoundError{EmployeeID: id}
	}
	return emp, err
}

// SaveEmployee inserts or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp roster.Employee) error {
	if err := emp.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return upsertEmployee(ctx, s.db, emp)
}

// CreateEmployee inserts emp. The primary key rejects a taken id, so two
// concurrent creates cannot both succeed.
func (s *Store) CreateEmployee(ctx context.Context, emp roster.Employee) error {
	if err := emp.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, department, start_date, status, claimed_years, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		emp.ID, emp.Name, emp.Department, emp.StartDate,
		string(emp.Status), emp.ClaimedYears, now, now,
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: %s", roster.ErrDuplicateEmployee, emp.ID)
	}
	return err
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertEmployee(ctx context.Context, ex execer, emp roster.Employee) error {
	query := `
		INSERT INTO employees (id, name, department, start_date, status, claimed_years, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			department = excluded.department,
			start_date = excluded.start_date,
			status = excluded.status,
			claimed_years = excluded.claimed_years,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := ex.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Department, emp.StartDate,
		string(emp.Status), emp.ClaimedYears, now, now,
	)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (roster.Employee, error) {
	var emp roster.Employee
	var status string
	if err := row.Scan(&emp.ID, &emp.Name, &emp.Department, &emp.StartDate, &status, &emp.ClaimedYears); err != nil {
		return roster.Employee{}, err
	}
	emp.Status = roster.Status(status)
	return emp, nil
}

// =============================================================================
// ADVANCEMENTS
// =============================================================================

// ListAdvancements returns all advancements in insertion order.
func (s *Store) ListAdvancements(ctx context.Context) ([]roster.Advancement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, employee_name, years_claimed, payout_date, amount, remarks, created_at
		FROM advancements
		ORDER BY rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var advs []roster.Advancement
	for rows.Next() {
		var a roster.Advancement
		var amount, remarks sql.NullString
		var createdAt string
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.EmployeeName, &a.YearsClaimed,
			&a.Date, &amount, &remarks, &createdAt); err != nil {
			return nil, err
		}
		if amount.Valid {
			d, err := decimal.NewFromString(amount.String)
			if err != nil {
				return nil, fmt.Errorf("advancement %s: bad amount %q: %w", a.ID, amount.String, err)
			}
			a.Amount = &d
		}
		a.Remarks = remarks.String
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		advs = append(advs, a)
	}
	return advs, rows.Err()
}

// RecordAdvancement inserts adv and increments the employee's claimed years
// in one transaction.
func (s *Store) RecordAdvancement(ctx context.Context, adv roster.Advancement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE employees SET claimed_years = claimed_years + ?, updated_at = ? WHERE id = ?",
			adv.YearsClaimed, time.Now().UTC().Format(time.RFC3339), adv.EmployeeID,
		)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &roster.NotFoundError{EmployeeID: adv.EmployeeID}
		}
		return insertAdvancement(ctx, tx, adv)
	})
}

// ImportAdvancement inserts adv without touching claimed years.
func (s *Store) ImportAdvancement(ctx context.Context, adv roster.Advancement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertAdvancement(ctx, tx, adv)
	})
}

func insertAdvancement(ctx context.Context, tx *sql.Tx, adv roster.Advancement) error {
	var amount sql.NullString
	if adv.Amount != nil {
		amount = sql.NullString{String: adv.Amount.String(), Valid: true}
	}
	createdAt := adv.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO advancements (id, employee_id, employee_name, years_claimed, payout_date, amount, remarks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		adv.ID, adv.EmployeeID, adv.EmployeeName, adv.YearsClaimed,
		adv.Date, amount, nullString(adv.Remarks), createdAt.Format(time.RFC3339),
	)
	if isUniqueConstraintError(err) {
		return roster.ErrDuplicateAdvancement
	}
	if isForeignKeyError(err) {
		return &roster.NotFoundError{EmployeeID: adv.EmployeeID}
	}
	return err
}

// withTx runs fn in a transaction, rolling back if it returns an error.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// =============================================================================
// RECALCULATION RUNS (roster.RunStore)
// =============================================================================

// runTimeLayout is fixed-width so started_at sorts correctly as TEXT.
const runTimeLayout = "2006-01-02T15:04:05.000000Z"

// SaveRecalculationRun records a completed recalculation.
func (s *Store) SaveRecalculationRun(ctx context.Context, r roster.RecalculationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recalculation_runs (id, as_of, trigger_source, processed, failed, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID, r.AsOf.Format("2006-01-02"), r.Trigger, r.Processed, r.Failed,
		r.StartedAt.UTC().Format(runTimeLayout), r.CompletedAt.UTC().Format(runTimeLayout),
	)
	return err
}

// ListRecalculationRuns returns the newest runs first. limit <= 0 means all.
func (s *Store) ListRecalculationRuns(ctx context.Context, limit int) ([]roster.RecalculationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, as_of, trigger_source, processed, failed, started_at, completed_at
		FROM recalculation_runs
		ORDER BY started_at DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []roster.RecalculationRun
	for rows.Next() {
		var r roster.RecalculationRun
		var asOf, startedAt, completedAt string
		if err := rows.Scan(&r.ID, &asOf, &r.Trigger, &r.Processed, &r.Failed, &startedAt, &completedAt); err != nil {
			return nil, err
		}
		r.AsOf, _ = time.Parse("2006-01-02", asOf)
		r.StartedAt, _ = time.Parse(runTimeLayout, startedAt)
		r.CompletedAt, _ = time.Parse(runTimeLayout, completedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset removes all data. Development and demo use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return clearTables(ctx, tx)
	})
}

// ResetAndSeed clears the database and loads ds in a single transaction.
// A rejected record rolls everything back, leaving the old data in place.
func (s *Store) ResetAndSeed(ctx context.Context, ds roster.Dataset) error {
	for _, e := range ds.Employees {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("seed employee %s: %w", e.ID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := clearTables(ctx, tx); err != nil {
			return err
		}
		for _, e := range ds.Employees {
			if err := upsertEmployee(ctx, tx, e); err != nil {
				return fmt.Errorf("seed employee %s: %w", e.ID, err)
			}
		}
		for _, a := range ds.Advancements {
			if err := insertAdvancement(ctx, tx, a); err != nil {
				return fmt.Errorf("seed advancement %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

func clearTables(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"advancements", "recalculation_runs", "employees"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

// IsEmpty reports whether no employees are stored yet.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees").Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
