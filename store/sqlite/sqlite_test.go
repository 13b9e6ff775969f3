package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/tenure-engine/roster"
	"github.com/warp/tenure-engine/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newSeededStore(t *testing.T) *sqlite.Store {
	store := newTestStore(t)
	ds, err := roster.DefaultDataset()
	require.NoError(t, err)
	require.NoError(t, roster.Seed(context.Background(), store, ds))
	return store
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployees_SeedAndList(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	emps, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, emps, 6)

	names := make([]string, len(emps))
	for i, e := range emps {
		names[i] = e.Name
	}
	assert.Equal(t, []string{
		"John Santos", "Maria Garcia", "Carlos Mendoza",
		"Ana Rodriguez", "Roberto Cruz", "Linda Flores",
	}, names, "insertion order is preserved")

	empty, err := store.IsEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestEmployees_UpsertKeepsPosition(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	emp, err := store.GetEmployee(ctx, "1")
	require.NoError(t, err)
	emp.Department = "Executive"
	emp.Status = roster.StatusInactive
	require.NoError(t, store.SaveEmployee(ctx, emp))

	emps, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", emps[0].ID)
	assert.Equal(t, "Executive", emps[0].Department)
	assert.Equal(t, roster.StatusInactive, emps[0].Status)
}

func TestEmployees_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetEmployee(context.Background(), "nope")
	assert.ErrorIs(t, err, roster.ErrEmployeeNotFound)
}

func TestEmployees_RawDateKeptAsIs(t *testing.T) {
	// GIVEN: An employee whose start date is garbage
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, roster.Employee{
		ID: "bad", Name: "Bad Date", StartDate: "15/08/2004", Status: roster.StatusActive,
	}))

	// THEN: The store returns it untouched; parsing is the calculator's job
	emp, err := store.GetEmployee(ctx, "bad")
	require.NoError(t, err)
	assert.Equal(t, "15/08/2004", emp.StartDate)
}

// =============================================================================
// ADVANCEMENTS
// =============================================================================

func TestAdvancements_SeededHistory(t *testing.T) {
	store := newSeededStore(t)

	advs, err := store.ListAdvancements(context.Background())
	require.NoError(t, err)
	require.Len(t, advs, 4)

	assert.Equal(t, "John Santos", advs[0].EmployeeName)
	assert.Equal(t, "2024-12-01", advs[0].Date)
	require.NotNil(t, advs[0].Amount)
	assert.True(t, decimal.NewFromInt(50000).Equal(*advs[0].Amount))
	assert.Equal(t, "10-year service pay advancement requested", advs[0].Remarks)

	// Seeding imports history without double-counting claims
	john, err := store.GetEmployee(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 10, john.ClaimedYears)
}

func TestRecordAdvancement_UpdatesClaimedYears(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	err := store.RecordAdvancement(ctx, roster.Advancement{
		ID:           "adv-5",
		EmployeeID:   "6",
		EmployeeName: "Linda Flores",
		YearsClaimed: 3,
		Date:         "2024-09-01",
		Remarks:      "first claim",
	})
	require.NoError(t, err)

	linda, err := store.GetEmployee(ctx, "6")
	require.NoError(t, err)
	assert.Equal(t, 3, linda.ClaimedYears)

	advs, err := store.ListAdvancements(ctx)
	require.NoError(t, err)
	require.Len(t, advs, 5)
	assert.Equal(t, "adv-5", advs[4].ID)
	assert.Nil(t, advs[4].Amount)
	assert.False(t, advs[4].CreatedAt.IsZero())
}

func TestRecordAdvancement_RollsBackOnDuplicate(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	err := store.RecordAdvancement(ctx, roster.Advancement{
		ID: "1", EmployeeID: "3", EmployeeName: "Carlos Mendoza", YearsClaimed: 5, Date: "2024-09-01",
	})
	assert.ErrorIs(t, err, roster.ErrDuplicateAdvancement)

	carlos, err := store.GetEmployee(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 0, carlos.ClaimedYears, "claimed years must not change when the insert fails")
}

func TestRecordAdvancement_UnknownEmployee(t *testing.T) {
	store := newSeededStore(t)

	err := store.RecordAdvancement(context.Background(), roster.Advancement{
		ID: "x", EmployeeID: "404", YearsClaimed: 1, Date: "2024-09-01",
	})
	assert.ErrorIs(t, err, roster.ErrEmployeeNotFound)
}

// =============================================================================
// RECALCULATION RUNS
// =============================================================================

func TestRecalculationRuns_SaveAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, time.August, 15, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, store.SaveRecalculationRun(ctx, roster.RecalculationRun{
			ID:          id,
			AsOf:        time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC),
			Trigger:     "scheduled",
			Processed:   6,
			Failed:      i,
			StartedAt:   base.Add(time.Duration(i) * 500 * time.Millisecond),
			CompletedAt: base.Add(time.Duration(i)*500*time.Millisecond + time.Millisecond),
		}))
	}

	runs, err := store.ListRecalculationRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-2", runs[1].ID)
	assert.Equal(t, 2, runs[0].Failed)
	assert.Equal(t, "scheduled", runs[0].Trigger)
	assert.True(t, base.Add(time.Second).Equal(runs[0].StartedAt))

	all, err := store.ListRecalculationRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestReset(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	require.NoError(t, store.Reset(ctx))

	empty, err := store.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	advs, err := store.ListAdvancements(ctx)
	require.NoError(t, err)
	assert.Empty(t, advs)
}

func TestCreateEmployee_DuplicateID(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	err := store.CreateEmployee(ctx, roster.Employee{
		ID: "1", Name: "Someone Else", StartDate: "2021-01-01", Status: roster.StatusActive,
	})
	assert.ErrorIs(t, err, roster.ErrDuplicateEmployee)

	emp, err := store.GetEmployee(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "John Santos", emp.Name)

	require.NoError(t, store.CreateEmployee(ctx, roster.Employee{
		ID: "7", Name: "Paolo Reyes", StartDate: "2020-02-29", Status: roster.StatusActive,
	}))
	emps, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, emps, 7)
}

func TestResetAndSeed(t *testing.T) {
	// GIVEN: A seeded store with an extra employee and a run
	store := newSeededStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, roster.Employee{
		ID: "7", Name: "Extra", StartDate: "2020-01-01", Status: roster.StatusActive,
	}))
	require.NoError(t, store.SaveRecalculationRun(ctx, roster.RecalculationRun{
		ID: "r", StartedAt: time.Now(), CompletedAt: time.Now(),
	}))

	// WHEN: Resetting to the bundled dataset
	ds, err := roster.DefaultDataset()
	require.NoError(t, err)
	require.NoError(t, store.ResetAndSeed(ctx, ds))

	// THEN: Only the dataset remains
	emps, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, emps, 6)
	advs, err := store.ListAdvancements(ctx)
	require.NoError(t, err)
	assert.Len(t, advs, 4)
	runs, err := store.ListRecalculationRuns(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestResetAndSeed_RollsBackOnFailure(t *testing.T) {
	// GIVEN: A dataset that repeats an advancement id
	store := newSeededStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, roster.Employee{
		ID: "7", Name: "Extra", StartDate: "2020-01-01", Status: roster.StatusActive,
	}))
	ds, err := roster.DefaultDataset()
	require.NoError(t, err)
	ds.Advancements = append(ds.Advancements, ds.Advancements[0])

	// WHEN: Resetting to it
	err = store.ResetAndSeed(ctx, ds)

	// THEN: The transaction rolls back and nothing was deleted
	assert.ErrorIs(t, err, roster.ErrDuplicateAdvancement)
	emps, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, emps, 7)
	advs, err := store.ListAdvancements(ctx)
	require.NoError(t, err)
	assert.Len(t, advs, 4)
}
