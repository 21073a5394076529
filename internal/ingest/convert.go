package ingest

import (
	"fmt"

	"github.com/alexanderramin/sitewise/internal/domain"
)

// Bundle is a converted snapshot ready for persistence. Project IDs are not
// yet known, so events and labor stay attached to their project ref.
type Bundle struct {
	Projects []ProjectBundle
	Labor    []RefLabor
	Invoices []*domain.Invoice
	Unions   []UnionBundle
}

type ProjectBundle struct {
	Ref     string
	Project *domain.Project
	Events  []*domain.ProjectEvent
}

type RefLabor struct {
	ProjectRef string
	Record     *domain.LaborRecord
}

type UnionBundle struct {
	Union *domain.Union
	Rates []*domain.UnionRate
}

// Counts summarises a bundle for reporting.
type Counts struct {
	Projects int `json:"projects"`
	Events   int `json:"events"`
	Labor    int `json:"labor"`
	Invoices int `json:"invoices"`
	Unions   int `json:"unions"`
	Rates    int `json:"rates"`
}

func (b *Bundle) Counts() Counts {
	c := Counts{
		Projects: len(b.Projects),
		Labor:    len(b.Labor),
		Invoices: len(b.Invoices),
		Unions:   len(b.Unions),
	}
	for _, p := range b.Projects {
		c.Events += len(p.Events)
	}
	for _, u := range b.Unions {
		c.Rates += len(u.Rates)
	}
	return c
}

// Convert transforms a validated Snapshot into domain records.
// Call ValidateSnapshot first; Convert stops at the first malformed value.
func Convert(snap *Snapshot) (*Bundle, error) {
	b := &Bundle{}

	for i := range snap.Projects {
		p := &snap.Projects[i]
		project, err := toProject(p)
		if err != nil {
			return nil, fmt.Errorf("projects[%d]: %w", i, err)
		}
		pb := ProjectBundle{Ref: p.Ref, Project: project}
		for j := range p.Events {
			ev, err := toEvent(&p.Events[j])
			if err != nil {
				return nil, fmt.Errorf("projects[%d].events[%d]: %w", i, j, err)
			}
			pb.Events = append(pb.Events, ev)
		}
		b.Projects = append(b.Projects, pb)
	}

	for i := range snap.Labor {
		rec, err := toLabor(&snap.Labor[i])
		if err != nil {
			return nil, fmt.Errorf("labor[%d]: %w", i, err)
		}
		b.Labor = append(b.Labor, RefLabor{ProjectRef: snap.Labor[i].ProjectRef, Record: rec})
	}

	for i := range snap.Invoices {
		inv, err := toInvoice(&snap.Invoices[i])
		if err != nil {
			return nil, fmt.Errorf("invoices[%d]: %w", i, err)
		}
		b.Invoices = append(b.Invoices, inv)
	}

	for i := range snap.Unions {
		u := &snap.Unions[i]
		ub := UnionBundle{Union: &domain.Union{Name: u.Name, Description: u.Description}}
		for _, r := range u.Rates {
			ub.Rates = append(ub.Rates, toRate(r))
		}
		b.Unions = append(b.Unions, ub)
	}

	return b, nil
}

func toProject(p *ProjectImport) (*domain.Project, error) {
	start, err := parseOptionalDate(p.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	orig, err := parseOptionalDate(p.OriginalCompletionDate)
	if err != nil {
		return nil, fmt.Errorf("original_completion_date: %w", err)
	}
	est, err := parseOptionalDate(p.EstimatedCompletionDate)
	if err != nil {
		return nil, fmt.Errorf("estimated_completion_date: %w", err)
	}
	return &domain.Project{
		Name:                    p.Name,
		Location:                p.Location,
		Manager:                 p.Manager,
		TotalBudget:             p.TotalBudget,
		BudgetHours:             p.BudgetHours,
		StatusNotes:             p.StatusNotes,
		StartDate:               start,
		OriginalCompletionDate:  orig,
		EstimatedCompletionDate: est,
	}, nil
}

func toEvent(e *EventImport) (*domain.ProjectEvent, error) {
	date, err := parseDate(e.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	ev := &domain.ProjectEvent{
		Title: e.Title,
		Date:  date,
		Type:  domain.EventType(e.Type),
	}
	if e.Category != nil && *e.Category != "" {
		c := *e.Category
		ev.Category = &c
	}
	if e.Amount != nil {
		a := *e.Amount
		ev.Amount = &a
	}
	return ev, nil
}

func toLabor(l *LaborImport) (*domain.LaborRecord, error) {
	date, err := parseDate(l.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	billable := true
	if l.IsBillable != nil {
		billable = *l.IsBillable
	}
	return &domain.LaborRecord{
		EmployeeID:  l.EmployeeID,
		Date:        date,
		Hours:       l.Hours,
		PayrollCode: l.PayrollCode,
		IsBillable:  billable,
	}, nil
}

func toInvoice(i *InvoiceImport) (*domain.Invoice, error) {
	date, err := parseDate(i.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	return &domain.Invoice{
		Vendor:   i.Vendor,
		Category: i.Category,
		Amount:   i.Amount,
		Date:     date,
	}, nil
}

func toRate(r RateImport) *domain.UnionRate {
	return &domain.UnionRate{
		PayrollCode: r.PayrollCode,
		Rate:        r.Rate,
		BenefitType: r.BenefitType,
	}
}
