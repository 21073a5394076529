package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/repository"
)

// HRProfile is the per-employee data held by an external HR system.
type HRProfile struct {
	Name         string `json:"name,omitempty"`
	TenureYears  int    `json:"tenure_years"`
	AbsenceDays  int    `json:"absence_days"`
	VacationDays int    `json:"vacation_days"`
}

// HRDirectory looks up employees in an external HR system. A nil profile
// with a nil error means the employee is unknown there.
type HRDirectory interface {
	Lookup(ctx context.Context, employeeID string) (*HRProfile, error)
}

// EmployeeDetail is an employee's hour roll-up with derived pay.
type EmployeeDetail struct {
	analytics.EmployeeHours
	EmployeeName string     `json:"employee_name"`
	Salary       float64    `json:"salary"`
	HR           *HRProfile `json:"hr,omitempty"`
}

type laborService struct {
	projects repository.ProjectRepo
	labor    repository.LaborRepo
	unions   repository.UnionRepo
	hr       HRDirectory
	cfg      analytics.Config
	observer UseCaseObserver
}

// NewLaborService wires the labor use cases. hr may be nil, in which case
// employee details carry no HR fields.
func NewLaborService(
	projects repository.ProjectRepo,
	labor repository.LaborRepo,
	unions repository.UnionRepo,
	hr HRDirectory,
	cfg analytics.Config,
	observers ...UseCaseObserver,
) LaborService {
	return &laborService{
		projects: projects,
		labor:    labor,
		unions:   unions,
		hr:       hr,
		cfg:      cfg,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *laborService) Productivity(ctx context.Context) (stats []analytics.ProjectProductivity, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "labor-productivity", startedAt, fields, &err)

	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	records, err := s.labor.List(ctx, repository.LaborFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing labor: %w", err)
	}
	fields["project_count"] = len(projects)
	fields["record_count"] = len(records)
	return analytics.ProductivityStats(records, projects), nil
}

func (s *laborService) Totals(ctx context.Context) (analytics.LaborTotals, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return analytics.LaborTotals{}, fmt.Errorf("listing projects: %w", err)
	}
	records, err := s.labor.List(ctx, repository.LaborFilter{})
	if err != nil {
		return analytics.LaborTotals{}, fmt.Errorf("listing labor: %w", err)
	}
	return analytics.TotalAggregates(records, projects), nil
}

func (s *laborService) Employees(ctx context.Context, projectID *int64) (out []EmployeeDetail, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	if projectID != nil {
		fields["project_id"] = *projectID
	}
	defer observe(ctx, s.observer, "labor-employees", startedAt, fields, &err)

	records, err := s.labor.List(ctx, repository.LaborFilter{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("listing labor: %w", err)
	}

	rollup := analytics.EmployeeRollup(records, projectID)
	out = make([]EmployeeDetail, 0, len(rollup))
	for _, emp := range rollup {
		detail := EmployeeDetail{
			EmployeeHours: emp,
			EmployeeName:  "Employee " + emp.EmployeeID,
			Salary:        emp.TotalHours * s.cfg.HourlyRate,
		}
		if s.hr != nil {
			profile, err := s.hr.Lookup(ctx, emp.EmployeeID)
			if err != nil {
				return nil, fmt.Errorf("looking up employee %s: %w", emp.EmployeeID, err)
			}
			if profile != nil {
				detail.HR = profile
				if profile.Name != "" {
					detail.EmployeeName = profile.Name
				}
			}
		}
		out = append(out, detail)
	}
	fields["employee_count"] = len(out)
	return out, nil
}

func (s *laborService) Payroll(ctx context.Context, now time.Time) (est analytics.PayrollEstimate, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"window_days": s.cfg.WindowDays}
	defer observe(ctx, s.observer, "labor-payroll", startedAt, fields, &err)

	from := now.UTC().AddDate(0, 0, -s.cfg.WindowDays)
	records, err := s.labor.List(ctx, repository.LaborFilter{From: &from})
	if err != nil {
		return analytics.PayrollEstimate{}, fmt.Errorf("listing labor: %w", err)
	}
	est = analytics.PayrollProjection(records, now, s.cfg)
	fields["active_employees"] = est.ActiveEmployees
	return est, nil
}

func (s *laborService) Unions(ctx context.Context) (out []analytics.UnionLiability, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "union-reconciliation", startedAt, fields, &err)

	unions, err := s.unions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing unions: %w", err)
	}
	rates, err := s.unions.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing union rates: %w", err)
	}
	records, err := s.labor.List(ctx, repository.LaborFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing labor: %w", err)
	}
	fields["union_count"] = len(unions)
	return analytics.UnionLiabilities(unions, rates, records), nil
}
