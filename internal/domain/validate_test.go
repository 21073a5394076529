package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat(f float64) *float64 { return &f }

func TestValidateRecord_ValidLabor(t *testing.T) {
	rec := &LaborRecord{ProjectID: 1, EmployeeID: "E100", Date: time.Now(), Hours: 8, PayrollCode: "CARP-01", IsBillable: true}
	assert.NoError(t, ValidateRecord(rec))
}

func TestValidateRecord_ZeroHoursAllowed(t *testing.T) {
	rec := &LaborRecord{ProjectID: 1, EmployeeID: "E100", Hours: 0}
	assert.NoError(t, ValidateRecord(rec))
}

func TestValidateRecord_NegativeHoursRejected(t *testing.T) {
	rec := &LaborRecord{ProjectID: 1, EmployeeID: "E100", Hours: -2}
	err := ValidateRecord(rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRecord)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "LaborRecord", verr.Record)
	assert.Equal(t, "gte=0", verr.Fields["hours"])
}

func TestValidateRecord_MissingProjectAndEmployee(t *testing.T) {
	err := ValidateRecord(&LaborRecord{Hours: 1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "gt=0", verr.Fields["project_id"])
	assert.Equal(t, "required", verr.Fields["employee_id"])
	assert.Contains(t, err.Error(), "employee_id=required")
}

func TestValidateRecord_EventTypeMustBeKnown(t *testing.T) {
	ev := &ProjectEvent{Title: "Walkthrough", Type: EventType("party")}
	err := ValidateRecord(ev)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["event_type"], "oneof")
}

func TestValidateRecord_EventNegativeAmountRejected(t *testing.T) {
	ev := &ProjectEvent{Title: "Concrete", Type: EventExpense, Amount: ptrFloat(-10)}
	err := ValidateRecord(ev)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "gte=0", verr.Fields["amount"])
}

func TestValidateRecord_EventWithoutAmountIsValid(t *testing.T) {
	ev := &ProjectEvent{Title: "Framing inspection", Type: EventInspection}
	assert.NoError(t, ValidateRecord(ev))
}

func TestValidateRecord_InvoiceAndRate(t *testing.T) {
	assert.NoError(t, ValidateRecord(&Invoice{Category: "Fuel", Amount: 1200}))
	assert.Error(t, ValidateRecord(&Invoice{Category: "", Amount: 1200}))
	assert.Error(t, ValidateRecord(&Invoice{Category: "Fuel", Amount: -1}))

	assert.NoError(t, ValidateRecord(&UnionRate{PayrollCode: "ELEC-01", Rate: 4.5, BenefitType: "pension"}))
	assert.Error(t, ValidateRecord(&UnionRate{PayrollCode: "ELEC-01", Rate: 4.5}))
}

func TestValidateRecord_Project(t *testing.T) {
	assert.NoError(t, ValidateRecord(&Project{Name: "Riverside Plaza", BudgetHours: 450}))
	assert.Error(t, ValidateRecord(&Project{Name: "", BudgetHours: 450}))
	assert.Error(t, ValidateRecord(&Project{Name: "Riverside Plaza", BudgetHours: -1}))
}

func TestValidateRecord_NonFiniteRejected(t *testing.T) {
	inf, nan := math.Inf(1), math.NaN()

	records := map[string]any{
		"hours":        &LaborRecord{ProjectID: 1, EmployeeID: "E100", Hours: inf},
		"amount":       &ProjectEvent{Title: "Concrete", Type: EventExpense, Amount: &inf},
		"total_budget": &Project{Name: "Riverside Plaza", TotalBudget: inf},
		"budget_hours": &Project{Name: "Riverside Plaza", BudgetHours: nan},
		"rate":         &UnionRate{PayrollCode: "ELEC-01", Rate: inf, BenefitType: "pension"},
	}
	for field, record := range records {
		var verr *ValidationError
		require.ErrorAs(t, ValidateRecord(record), &verr, field)
		assert.Equal(t, "finite", verr.Fields[field], field)
	}

	var verr *ValidationError
	require.ErrorAs(t, ValidateRecord(&Invoice{Category: "Fuel", Amount: nan}), &verr)
	assert.Equal(t, "finite", verr.Fields["amount"])
}
