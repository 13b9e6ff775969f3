package roster

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DATASET - YAML seed data
// =============================================================================

//go:embed dataset.yaml
var defaultDataset []byte

// Dataset is a full set of employees and advancements.
type Dataset struct {
	Employees    []Employee
	Advancements []Advancement
}

type datasetFile struct {
	Employees []struct {
		ID           string `yaml:"id"`
		Name         string `yaml:"name"`
		Department   string `yaml:"department"`
		StartDate    string `yaml:"start_date"`
		Status       string `yaml:"status"`
		ClaimedYears int    `yaml:"claimed_years"`
	} `yaml:"employees"`
	Advancements []struct {
		ID           string  `yaml:"id"`
		EmployeeID   string  `yaml:"employee_id"`
		EmployeeName string  `yaml:"employee_name"`
		YearsClaimed int     `yaml:"years_claimed"`
		Date         string  `yaml:"date"`
		Amount       *string `yaml:"amount"`
		Remarks      string  `yaml:"remarks"`
	} `yaml:"advancements"`
}

// DefaultDataset returns the bundled demo dataset.
func DefaultDataset() (Dataset, error) {
	return LoadDataset(bytes.NewReader(defaultDataset))
}

// LoadDatasetFile reads a dataset from a YAML file.
func LoadDatasetFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	return LoadDataset(f)
}

// LoadDataset decodes a YAML dataset. Amounts are decimal strings.
func LoadDataset(r io.Reader) (Dataset, error) {
	var raw datasetFile
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}

	var ds Dataset
	for _, e := range raw.Employees {
		emp := Employee{
			ID:           e.ID,
			Name:         e.Name,
			Department:   e.Department,
			StartDate:    e.StartDate,
			Status:       Status(e.Status),
			ClaimedYears: e.ClaimedYears,
		}
		if err := emp.Validate(); err != nil {
			return Dataset{}, err
		}
		ds.Employees = append(ds.Employees, emp)
	}

	for _, a := range raw.Advancements {
		adv := Advancement{
			ID:           a.ID,
			EmployeeID:   a.EmployeeID,
			EmployeeName: a.EmployeeName,
			YearsClaimed: a.YearsClaimed,
			Date:         a.Date,
			Remarks:      a.Remarks,
		}
		if a.Amount != nil {
			amt, err := decimal.NewFromString(*a.Amount)
			if err != nil {
				return Dataset{}, fmt.Errorf("%w: advancement %s amount %q", ErrInvalidRecord, a.ID, *a.Amount)
			}
			adv.Amount = &amt
		}
		ds.Advancements = append(ds.Advancements, adv)
	}
	return ds, nil
}

// Seed writes ds into store. Advancements are imported as history: the
// employees' claimed years already account for them.
func Seed(ctx context.Context, store Store, ds Dataset) error {
	for _, e := range ds.Employees {
		if err := store.SaveEmployee(ctx, e); err != nil {
			return fmt.Errorf("seed employee %s: %w", e.ID, err)
		}
	}
	for _, a := range ds.Advancements {
		if err := store.ImportAdvancement(ctx, a); err != nil {
			return fmt.Errorf("seed advancement %s: %w", a.ID, err)
		}
	}
	return nil
}
