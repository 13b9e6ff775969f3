// Package store provides in-memory roster.Store implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/tenure-engine/roster"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	employees    []roster.Employee
	index        map[string]int // employee id -> position in employees
	advancements []roster.Advancement
	advIDs       map[string]bool
	runs         []roster.RecalculationRun
}

var (
	_ roster.Store    = (*Memory)(nil)
	_ roster.RunStore = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		index:  make(map[string]int),
		advIDs: make(map[string]bool),
	}
}

// NewSeededMemory returns a memory store loaded with ds.
func NewSeededMemory(ds roster.Dataset) (*Memory, error) {
	m := NewMemory()
	if err := roster.Seed(context.Background(), m, ds); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]roster.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]roster.Employee, len(m.employees))
	copy(result, m.employees)
	return result, nil
}

func (m *Memory) ListAdvancements(_ context.Context) ([]roster.Advancement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]roster.Advancement, len(m.advancements))
	copy(result, m.advancements)
	return result, nil
}

func (m *Memory) GetEmployee(_ context.Context, id string) (roster.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[id]
	if !ok {
		return roster.Employee{}, &roster.NotFoundError{EmployeeID: id}
	}
	return m.employees[i], nil
}

// SaveEmployee inserts a new employee at the end of the listing, or
// replaces an existing one in place.
func (m *Memory) SaveEmployee(_ context.Context, e roster.Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.index[e.ID]; ok {
		m.employees[i] = e
		return nil
	}
	m.index[e.ID] = len(m.employees)
	m.employees = append(m.employees, e)
	return nil
}

// CreateEmployee appends e unless its id is already taken. The check and
// the insert share one lock.
func (m *Memory) CreateEmployee(_ context.Context, e roster.Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.index[e.ID]; ok {
		return fmt.Errorf("%w: %s", roster.ErrDuplicateEmployee, e.ID)
	}
	m.index[e.ID] = len(m.employees)
	m.employees = append(m.employees, e)
	return nil
}

// RecordAdvancement appends adv and bumps claimed years under one lock, so
// the two writes are atomic with respect to readers.
func (m *Memory) RecordAdvancement(_ context.Context, adv roster.Advancement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[adv.EmployeeID]
	if !ok {
		return &roster.NotFoundError{EmployeeID: adv.EmployeeID}
	}
	if err := m.appendLocked(adv); err != nil {
		return err
	}
	m.employees[i].ClaimedYears += adv.YearsClaimed
	return nil
}

func (m *Memory) ImportAdvancement(_ context.Context, adv roster.Advancement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendLocked(adv)
}

func (m *Memory) appendLocked(adv roster.Advancement) error {
	if adv.ID != "" && m.advIDs[adv.ID] {
		return roster.ErrDuplicateAdvancement
	}
	m.advancements = append(m.advancements, adv)
	if adv.ID != "" {
		m.advIDs[adv.ID] = true
	}
	return nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.employees = nil
	m.index = make(map[string]int)
	m.advancements = nil
	m.advIDs = make(map[string]bool)
	m.runs = nil
	return nil
}

// ResetAndSeed loads ds into a staging store and swaps it in only when
// every record was accepted.
func (m *Memory) ResetAndSeed(ctx context.Context, ds roster.Dataset) error {
	staged := NewMemory()
	if err := roster.Seed(ctx, staged, ds); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.employees = staged.employees
	m.index = staged.index
	m.advancements = staged.advancements
	m.advIDs = staged.advIDs
	m.runs = nil
	return nil
}

// =============================================================================
// RECALCULATION RUNS
// =============================================================================

func (m *Memory) SaveRecalculationRun(_ context.Context, run roster.RecalculationRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

// ListRecalculationRuns returns the newest runs first. limit <= 0 means all.
func (m *Memory) ListRecalculationRuns(_ context.Context, limit int) ([]roster.RecalculationRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]roster.RecalculationRun, len(m.runs))
	copy(result, m.runs)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
