package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/domain"
	"github.com/alexanderramin/sitewise/internal/repository"
)

// PortfolioView is the all-projects finance roll-up.
type PortfolioView struct {
	Summary          analytics.PortfolioSummary  `json:"summary"`
	Projects         []analytics.FinancialReport `json:"projects"`
	VarianceProjects int                         `json:"variance_projects"`
	TotalProjects    int                         `json:"total_projects"`
}

type financeService struct {
	projects repository.ProjectRepo
	labor    repository.LaborRepo
	events   repository.EventRepo
	cfg      analytics.Config
	observer UseCaseObserver
}

func NewFinanceService(
	projects repository.ProjectRepo,
	labor repository.LaborRepo,
	events repository.EventRepo,
	cfg analytics.Config,
	observers ...UseCaseObserver,
) FinanceService {
	return &financeService{
		projects: projects,
		labor:    labor,
		events:   events,
		cfg:      cfg,
		observer: useCaseObserverOrNoop(observers),
	}
}

// syncedProjects returns every project with ActualHours re-derived from
// its labor records, along with those records.
func (s *financeService) syncedProjects(ctx context.Context) ([]domain.Project, []domain.LaborRecord, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing projects: %w", err)
	}
	records, err := s.labor.List(ctx, repository.LaborFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("listing labor: %w", err)
	}
	return analytics.SyncActualHours(projects, records), records, nil
}

func (s *financeService) Variance(ctx context.Context) (out []analytics.BudgetVariance, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "finance-variance", startedAt, fields, &err)

	projects, _, err := s.syncedProjects(ctx)
	if err != nil {
		return nil, err
	}
	fields["over_budget"] = analytics.OverBudgetCount(projects)
	return analytics.BudgetVariances(projects), nil
}

// ProjectAnalytics reports the financials of one project, or of every
// project when projectID is nil. An unknown project id yields ErrNotFound.
func (s *financeService) ProjectAnalytics(ctx context.Context, projectID *int64) (out []analytics.FinancialReport, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	if projectID != nil {
		fields["project_id"] = *projectID
	}
	defer observe(ctx, s.observer, "finance-project-analytics", startedAt, fields, &err)

	var projects []domain.Project
	if projectID != nil {
		p, err := s.projects.GetByID(ctx, *projectID)
		if err != nil {
			return nil, fmt.Errorf("getting project %d: %w", *projectID, err)
		}
		projects = []domain.Project{*p}
	} else {
		projects, err = s.projects.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing projects: %w", err)
		}
	}

	records, err := s.labor.List(ctx, repository.LaborFilter{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("listing labor: %w", err)
	}
	events, err := s.events.List(ctx, repository.EventFilter{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	fields["event_count"] = len(events)
	return analytics.PortfolioFinancials(projects, events, records, s.cfg.HourlyRate), nil
}

func (s *financeService) Portfolio(ctx context.Context) (view *PortfolioView, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "finance-portfolio", startedAt, fields, &err)

	projects, records, err := s.syncedProjects(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.events.List(ctx, repository.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	reports := analytics.PortfolioFinancials(projects, events, records, s.cfg.HourlyRate)
	view = &PortfolioView{
		Summary:          analytics.Portfolio(reports),
		Projects:         reports,
		VarianceProjects: analytics.OverBudgetCount(projects),
		TotalProjects:    len(projects),
	}
	fields["project_count"] = len(projects)
	return view, nil
}
