package testutil

import (
	"time"

	"github.com/alexanderramin/sitewise/internal/domain"
)

// RefDate anchors fixture dates so tests do not depend on the wall clock.
var RefDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

// Project options
type ProjectOption func(*domain.Project)

func WithBudgetHours(h float64) ProjectOption {
	return func(p *domain.Project) {
		p.BudgetHours = h
	}
}

func WithActualHours(h float64) ProjectOption {
	return func(p *domain.Project) {
		p.ActualHours = h
	}
}

func WithTotalBudget(b float64) ProjectOption {
	return func(p *domain.Project) {
		p.TotalBudget = b
	}
}

func WithCompletionDates(original, estimated time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.OriginalCompletionDate = &original
		p.EstimatedCompletionDate = &estimated
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	start := RefDate.AddDate(0, -3, 0)
	p := &domain.Project{
		Name:        name,
		Location:    "Test Site",
		Manager:     "Test Manager",
		TotalBudget: 1_000_000,
		BudgetHours: 1000,
		StartDate:   &start,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Labor options
type LaborOption func(*domain.LaborRecord)

func WithEmployee(id string) LaborOption {
	return func(r *domain.LaborRecord) {
		r.EmployeeID = id
	}
}

func WithPayrollCode(code string) LaborOption {
	return func(r *domain.LaborRecord) {
		r.PayrollCode = code
	}
}

func WithOverhead() LaborOption {
	return func(r *domain.LaborRecord) {
		r.IsBillable = false
	}
}

func WithLaborDate(d time.Time) LaborOption {
	return func(r *domain.LaborRecord) {
		r.Date = d
	}
}

// NewTestLabor creates a billable record dated RefDate.
func NewTestLabor(projectID int64, hours float64, opts ...LaborOption) *domain.LaborRecord {
	r := &domain.LaborRecord{
		ProjectID:   projectID,
		EmployeeID:  "EMP-001",
		Date:        RefDate,
		Hours:       hours,
		PayrollCode: "CARP-01",
		IsBillable:  true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Event options
type EventOption func(*domain.ProjectEvent)

func WithCategory(c string) EventOption {
	return func(e *domain.ProjectEvent) {
		e.Category = &c
	}
}

func WithAmount(a float64) EventOption {
	return func(e *domain.ProjectEvent) {
		e.Amount = &a
	}
}

func WithEventDate(d time.Time) EventOption {
	return func(e *domain.ProjectEvent) {
		e.Date = d
	}
}

func NewTestEvent(projectID int64, typ domain.EventType, title string, opts ...EventOption) *domain.ProjectEvent {
	e := &domain.ProjectEvent{
		ProjectID: projectID,
		Title:     title,
		Date:      RefDate,
		Type:      typ,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invoice options
type InvoiceOption func(*domain.Invoice)

func WithVendor(v string) InvoiceOption {
	return func(i *domain.Invoice) {
		i.Vendor = v
	}
}

func WithInvoiceDate(d time.Time) InvoiceOption {
	return func(i *domain.Invoice) {
		i.Date = d
	}
}

func NewTestInvoice(category string, amount float64, opts ...InvoiceOption) *domain.Invoice {
	i := &domain.Invoice{
		Vendor:   "Test Supply Co",
		Category: category,
		Amount:   amount,
		Date:     RefDate,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func NewTestUnion(name string) *domain.Union {
	return &domain.Union{Name: name, Description: name + " benefit fund"}
}

func NewTestUnionRate(unionID int64, code, benefit string, rate float64) *domain.UnionRate {
	return &domain.UnionRate{
		UnionID:     unionID,
		PayrollCode: code,
		Rate:        rate,
		BenefitType: benefit,
	}
}
