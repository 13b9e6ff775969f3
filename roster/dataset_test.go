package roster_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/tenure-engine/roster"
)

func TestDefaultDataset(t *testing.T) {
	ds, err := roster.DefaultDataset()
	require.NoError(t, err)

	require.Len(t, ds.Employees, 6)
	require.Len(t, ds.Advancements, 4)

	john := ds.Employees[0]
	assert.Equal(t, "1", john.ID)
	assert.Equal(t, "Administration", john.Department)
	assert.Equal(t, "2004-08-15", john.StartDate)
	assert.Equal(t, roster.StatusActive, john.Status)
	assert.Equal(t, 10, john.ClaimedYears)

	last := ds.Advancements[3]
	assert.Equal(t, "Roberto Cruz", last.EmployeeName)
	assert.Equal(t, "10000", last.AmountOrZero().String())
}

func TestLoadDataset_OptionalAmount(t *testing.T) {
	ds, err := roster.LoadDataset(strings.NewReader(`
employees:
  - id: "7"
    name: Test
    department: QA
    start_date: "2020-01-01"
    status: Inactive
advancements:
  - id: "9"
    employee_id: "7"
    employee_name: Test
    years_claimed: 1
    date: "2024-01-01"
    remarks: no amount
`))
	require.NoError(t, err)
	assert.Nil(t, ds.Advancements[0].Amount)
	assert.True(t, ds.Advancements[0].AmountOrZero().IsZero())
	assert.False(t, ds.Employees[0].IsActive())
}

func TestLoadDataset_Rejects(t *testing.T) {
	_, err := roster.LoadDataset(strings.NewReader(`
employees:
  - id: "7"
    name: Test
    status: Retired
`))
	assert.ErrorIs(t, err, roster.ErrInvalidRecord)

	_, err = roster.LoadDataset(strings.NewReader(`
advancements:
  - id: "1"
    amount: "fifty"
`))
	assert.ErrorIs(t, err, roster.ErrInvalidRecord)

	_, err = roster.LoadDataset(strings.NewReader("employees: [oops"))
	assert.Error(t, err)
}

func TestLoadDataset_Empty(t *testing.T) {
	ds, err := roster.LoadDataset(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ds.Employees)
}

func TestEmployee_ServiceRecord(t *testing.T) {
	e := roster.Employee{StartDate: "2015-01-20", ClaimedYears: 2}
	rec := e.ServiceRecord("2024-08-15")

	assert.Equal(t, "2015-01-20", rec.StartDate)
	assert.Equal(t, "2024-08-15", rec.ReferenceDate)
	assert.Equal(t, 2, rec.ClaimedYears)
}
