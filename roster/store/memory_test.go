package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/tenure-engine/roster"
	"github.com/warp/tenure-engine/roster/store"
)

func newSeeded(t *testing.T) *store.Memory {
	ds, err := roster.DefaultDataset()
	require.NoError(t, err)
	m, err := store.NewSeededMemory(ds)
	require.NoError(t, err)
	return m
}

func TestMemory_SeededListingKeepsOrder(t *testing.T) {
	m := newSeeded(t)
	ctx := context.Background()

	emps, err := m.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, emps, 6)
	assert.Equal(t, "John Santos", emps[0].Name)
	assert.Equal(t, "Linda Flores", emps[5].Name)

	advs, err := m.ListAdvancements(ctx)
	require.NoError(t, err)
	require.Len(t, advs, 4)
	assert.Equal(t, "1", advs[0].ID)
	assert.True(t, decimal.NewFromInt(50000).Equal(advs[0].AmountOrZero()))
}

func TestMemory_GetEmployee(t *testing.T) {
	m := newSeeded(t)

	emp, err := m.GetEmployee(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, "Roberto Cruz", emp.Name)

	_, err = m.GetEmployee(context.Background(), "missing")
	assert.ErrorIs(t, err, roster.ErrEmployeeNotFound)
	assert.True(t, roster.IsNotFound(err))
}

func TestMemory_SaveEmployeeReplacesInPlace(t *testing.T) {
	m := newSeeded(t)
	ctx := context.Background()

	emp, err := m.GetEmployee(ctx, "3")
	require.NoError(t, err)
	emp.Status = roster.StatusInactive
	require.NoError(t, m.SaveEmployee(ctx, emp))

	emps, _ := m.ListEmployees(ctx)
	assert.Len(t, emps, 6)
	assert.Equal(t, roster.StatusInactive, emps[2].Status)
}

func TestMemory_SaveEmployeeValidates(t *testing.T) {
	m := store.NewMemory()
	err := m.SaveEmployee(context.Background(), roster.Employee{ID: "x", Name: "X", Status: "Retired"})
	assert.ErrorIs(t, err, roster.ErrInvalidRecord)
}

func TestMemory_RecordAdvancementBumpsClaimedYears(t *testing.T) {
	// GIVEN: Carlos with no claimed years
	m := newSeeded(t)
	ctx := context.Background()

	// WHEN: Recording a 4-year advancement
	err := m.RecordAdvancement(ctx, roster.Advancement{
		ID: "adv-new", EmployeeID: "3", EmployeeName: "Carlos Mendoza",
		YearsClaimed: 4, Date: "2024-09-01",
	})
	require.NoError(t, err)

	// THEN: Claimed years and history both reflect it
	emp, _ := m.GetEmployee(ctx, "3")
	assert.Equal(t, 4, emp.ClaimedYears)
	advs, _ := m.ListAdvancements(ctx)
	assert.Len(t, advs, 5)
	assert.Equal(t, "adv-new", advs[4].ID)
}

func TestMemory_RecordAdvancementIsAtomic(t *testing.T) {
	m := newSeeded(t)
	ctx := context.Background()

	// Duplicate id: neither the history nor claimed years change
	err := m.RecordAdvancement(ctx, roster.Advancement{ID: "1", EmployeeID: "3", YearsClaimed: 4})
	assert.ErrorIs(t, err, roster.ErrDuplicateAdvancement)

	emp, _ := m.GetEmployee(ctx, "3")
	assert.Equal(t, 0, emp.ClaimedYears)
	advs, _ := m.ListAdvancements(ctx)
	assert.Len(t, advs, 4)

	// Unknown employee
	err = m.RecordAdvancement(ctx, roster.Advancement{ID: "z", EmployeeID: "99", YearsClaimed: 1})
	assert.ErrorIs(t, err, roster.ErrEmployeeNotFound)
}

func TestMemory_ListingsAreCopies(t *testing.T) {
	m := newSeeded(t)
	ctx := context.Background()

	emps, _ := m.ListEmployees(ctx)
	emps[0].Name = "changed"

	again, _ := m.ListEmployees(ctx)
	assert.Equal(t, "John Santos", again[0].Name)
}

func TestMemory_RecalculationRunsNewestFirst(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	base := time.Date(2024, time.August, 15, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, m.SaveRecalculationRun(ctx, roster.RecalculationRun{
			ID:        string(rune('a' + i)),
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := m.ListRecalculationRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}

func TestMemory_Reset(t *testing.T) {
	m := newSeeded(t)
	ctx := context.Background()

	require.NoError(t, m.Reset(ctx))

	emps, _ := m.ListEmployees(ctx)
	advs, _ := m.ListAdvancements(ctx)
	assert.Empty(t, emps)
	assert.Empty(t, advs)
}

func TestMemory_CreateEmployeeRejectsTakenID(t *testing.T) {
	m := newSeeded(t)
	ctx := context.Background()

	err := m.CreateEmployee(ctx, roster.Employee{
		ID: "1", Name: "Someone Else", StartDate: "2021-01-01", Status: roster.StatusActive,
	})
	assert.ErrorIs(t, err, roster.ErrDuplicateEmployee)

	emp, err := m.GetEmployee(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "John Santos", emp.Name, "existing employee untouched")
}

func TestMemory_CreateEmployeeConcurrent(t *testing.T) {
	// GIVEN: Many callers creating the same id at once
	m := store.NewMemory()
	ctx := context.Background()
	const callers = 16

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- m.CreateEmployee(ctx, roster.Employee{
				ID: "7", Name: "Paolo Reyes", StartDate: "2020-02-29", Status: roster.StatusActive,
			})
		}()
	}
	wg.Wait()
	close(errs)

	// THEN: Exactly one succeeds, the rest see a duplicate
	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, roster.ErrDuplicateEmployee)
	}
	assert.Equal(t, 1, created)
	emps, _ := m.ListEmployees(ctx)
	assert.Len(t, emps, 1)
}

func TestMemory_ResetAndSeed(t *testing.T) {
	// GIVEN: A seeded store with an extra employee and a run
	m := newSeeded(t)
	ctx := context.Background()
	require.NoError(t, m.SaveEmployee(ctx, roster.Employee{
		ID: "7", Name: "Extra", StartDate: "2020-01-01", Status: roster.StatusActive,
	}))
	require.NoError(t, m.SaveRecalculationRun(ctx, roster.RecalculationRun{ID: "r"}))

	// WHEN: Resetting to the bundled dataset
	ds, err := roster.DefaultDataset()
	require.NoError(t, err)
	require.NoError(t, m.ResetAndSeed(ctx, ds))

	// THEN: Only the dataset remains
	emps, _ := m.ListEmployees(ctx)
	advs, _ := m.ListAdvancements(ctx)
	runs, _ := m.ListRecalculationRuns(ctx, 0)
	assert.Len(t, emps, 6)
	assert.Len(t, advs, 4)
	assert.Empty(t, runs)
}

func TestMemory_ResetAndSeedFailureKeepsData(t *testing.T) {
	// GIVEN: A dataset that repeats an advancement id
	m := newSeeded(t)
	ctx := context.Background()
	require.NoError(t, m.SaveEmployee(ctx, roster.Employee{
		ID: "7", Name: "Extra", StartDate: "2020-01-01", Status: roster.StatusActive,
	}))
	ds, err := roster.DefaultDataset()
	require.NoError(t, err)
	ds.Advancements = append(ds.Advancements, ds.Advancements[0])

	// WHEN: Resetting to it
	err = m.ResetAndSeed(ctx, ds)

	// THEN: The reset fails and the previous data survives
	assert.ErrorIs(t, err, roster.ErrDuplicateAdvancement)
	emps, _ := m.ListEmployees(ctx)
	advs, _ := m.ListAdvancements(ctx)
	assert.Len(t, emps, 7)
	assert.Len(t, advs, 4)
}
