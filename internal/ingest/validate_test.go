package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sitewise/internal/domain"
)

func ptrStr(s string) *string     { return &s }
func ptrFloat(f float64) *float64 { return &f }
func ptrBool(b bool) *bool        { return &b }

func validMinimalSnapshot() *Snapshot {
	return &Snapshot{
		Projects: []ProjectImport{
			{Ref: "riverside", Name: "Riverside Plaza", BudgetHours: 450},
		},
		Labor: []LaborImport{
			{ProjectRef: "riverside", EmployeeID: "EMP-001", Date: "2026-01-05", Hours: 8, PayrollCode: "CARP-01"},
		},
	}
}

func errorsText(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

func TestValidateSnapshot_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateSnapshot(validMinimalSnapshot()))
}

func TestValidateSnapshot_ValidFull(t *testing.T) {
	snap := &Snapshot{
		Projects: []ProjectImport{
			{
				Ref:                     "riverside",
				Name:                    "Riverside Plaza",
				Location:                "Austin, TX",
				Manager:                 "Dana Ortiz",
				TotalBudget:             2_500_000,
				BudgetHours:             450,
				StartDate:               ptrStr("2025-06-01"),
				OriginalCompletionDate:  ptrStr("2026-06-01"),
				EstimatedCompletionDate: ptrStr("2026-07-15"),
				Events: []EventImport{
					{Title: "Draw 1", Date: "2026-01-10", Type: "payment", Amount: ptrFloat(50000)},
					{Title: "Rebar", Date: "2026-01-12T09:00:00Z", Type: "expense", Category: ptrStr("materials"), Amount: ptrFloat(8000)},
					{Title: "Footing inspection", Date: "2026-01-15", Type: "inspection"},
				},
			},
		},
		Labor: []LaborImport{
			{ProjectRef: "riverside", EmployeeID: "EMP-001", Date: "2026-01-05", Hours: 8, IsBillable: ptrBool(false)},
		},
		Invoices: []InvoiceImport{
			{Vendor: "Ready Mix", Category: "concrete", Amount: 1000, Date: "2026-01-03"},
		},
		Unions: []UnionImport{
			{Name: "Carpenters Local 22", Rates: []RateImport{
				{PayrollCode: "CARP-01", Rate: 10, BenefitType: "pension"},
				{PayrollCode: "CARP-01", Rate: 5, BenefitType: "health"},
			}},
		},
	}
	assert.Empty(t, ValidateSnapshot(snap))
}

func TestValidateSnapshot_ProjectErrors(t *testing.T) {
	snap := &Snapshot{
		Projects: []ProjectImport{
			{Ref: "a", Name: "A", BudgetHours: -1},
			{Ref: "a", Name: ""},
			{Name: "No ref", StartDate: ptrStr("June 1st")},
			{Ref: "late", Name: "Late", StartDate: ptrStr("2026-05-01"), OriginalCompletionDate: ptrStr("2026-01-01")},
		},
	}
	errs := ValidateSnapshot(snap)
	text := errorsText(errs)

	assert.Contains(t, text, "projects[0]")
	assert.Contains(t, text, "budget_hours=gte=0")
	assert.Contains(t, text, `projects[1].ref: duplicate ref "a"`)
	assert.Contains(t, text, "name=required")
	assert.Contains(t, text, "projects[2].start_date: invalid date")
	assert.Contains(t, text, "projects[2]: invalid record: ProjectImport (ref=required)")
	assert.Contains(t, text, "projects[3].original_completion_date must not precede start_date")
}

func TestValidateSnapshot_EventErrors(t *testing.T) {
	snap := validMinimalSnapshot()
	snap.Projects[0].Events = []EventImport{
		{Title: "Refund", Date: "2026-01-01", Type: "refund"},
		{Title: "", Date: "2026-01-01", Type: "payment", Amount: ptrFloat(-5)},
		{Title: "Undated", Type: "milestone"},
	}
	text := errorsText(ValidateSnapshot(snap))

	assert.Contains(t, text, "projects[0].events[0]")
	assert.Contains(t, text, "event_type=oneof")
	assert.Contains(t, text, "title=required")
	assert.Contains(t, text, "amount=gte=0")
	assert.Contains(t, text, "projects[0].events[2].date")
}

func TestValidateSnapshot_LaborErrors(t *testing.T) {
	snap := validMinimalSnapshot()
	snap.Labor = append(snap.Labor,
		LaborImport{ProjectRef: "harbor", EmployeeID: "EMP-002", Date: "2026-01-05", Hours: 8},
		LaborImport{ProjectRef: "riverside", EmployeeID: "", Date: "2026-01-05", Hours: -2},
		LaborImport{ProjectRef: "riverside", EmployeeID: "EMP-003", Date: "05/01/2026", Hours: 4},
	)
	text := errorsText(ValidateSnapshot(snap))

	assert.Contains(t, text, `labor[1].project_ref: ref "harbor" not found in projects`)
	assert.Contains(t, text, "employee_id=required")
	assert.Contains(t, text, "hours=gte=0")
	assert.Contains(t, text, "labor[3].date: invalid date")
}

func TestValidateSnapshot_InvoiceAndUnionErrors(t *testing.T) {
	snap := validMinimalSnapshot()
	snap.Invoices = []InvoiceImport{{Category: "", Amount: -1, Date: "2026-01-01"}}
	snap.Unions = []UnionImport{
		{Name: "Glaziers", Rates: []RateImport{
			{PayrollCode: "GLZ-01", Rate: 3, BenefitType: "pension"},
			{PayrollCode: "GLZ-01", Rate: 4, BenefitType: "pension"},
			{PayrollCode: "", Rate: -1, BenefitType: ""},
		}},
		{Name: "Glaziers"},
	}
	text := errorsText(ValidateSnapshot(snap))

	assert.Contains(t, text, "invoices[0]")
	assert.Contains(t, text, "category=required")
	assert.Contains(t, text, "unions[0].rates[1]: duplicate rate for GLZ-01/pension")
	assert.Contains(t, text, "rate=gte=0")
	assert.Contains(t, text, `unions[1].name: duplicate union "Glaziers"`)
}

func TestValidateSnapshot_ErrorsWrapInvalidRecord(t *testing.T) {
	snap := validMinimalSnapshot()
	snap.Labor[0].Hours = -1
	errs := ValidateSnapshot(snap)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrInvalidRecord)
}
