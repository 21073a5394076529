package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// Snapshot is the top-level JSON structure of a record import. Labor records
// reference projects by ref because database IDs are assigned on insert.
type Snapshot struct {
	Projects []ProjectImport `json:"projects"`
	Labor    []LaborImport   `json:"labor,omitempty"`
	Invoices []InvoiceImport `json:"invoices,omitempty"`
	Unions   []UnionImport   `json:"unions,omitempty"`
}

// Import structs tag only the fields that exist solely in the file format;
// record rules are checked on the converted domain records.

// ProjectImport defines a project and its timeline events.
type ProjectImport struct {
	Ref                     string        `json:"ref" validate:"required"`
	Name                    string        `json:"name"`
	Location                string        `json:"location,omitempty"`
	Manager                 string        `json:"manager,omitempty"`
	TotalBudget             float64       `json:"total_budget"`
	BudgetHours             float64       `json:"budget_hours"`
	StatusNotes             string        `json:"status_notes,omitempty"`
	StartDate               *string       `json:"start_date,omitempty"`
	OriginalCompletionDate  *string       `json:"original_completion_date,omitempty"`
	EstimatedCompletionDate *string       `json:"estimated_completion_date,omitempty"`
	Events                  []EventImport `json:"events,omitempty"`
}

type EventImport struct {
	Title    string   `json:"title"`
	Date     string   `json:"date" validate:"required"`
	Type     string   `json:"event_type"`
	Category *string  `json:"category,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
}

type LaborImport struct {
	ProjectRef  string  `json:"project_ref" validate:"required"`
	EmployeeID  string  `json:"employee_id"`
	Date        string  `json:"date" validate:"required"`
	Hours       float64 `json:"hours"`
	PayrollCode string  `json:"payroll_code,omitempty"`
	// IsBillable defaults to true when omitted.
	IsBillable *bool `json:"is_billable,omitempty"`
}

type InvoiceImport struct {
	Vendor   string  `json:"vendor,omitempty"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date" validate:"required"`
}

type UnionImport struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Rates       []RateImport `json:"rates,omitempty"`
}

type RateImport struct {
	PayrollCode string  `json:"payroll_code"`
	Rate        float64 `json:"rate"`
	BenefitType string  `json:"benefit_type"`
}

// LoadSnapshot reads and parses a snapshot JSON file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSnapshot(data)
}

func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snap, nil
}
