package service

import (
	"context"
	"time"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/domain"
	"github.com/alexanderramin/sitewise/internal/ingest"
	"github.com/alexanderramin/sitewise/internal/narration"
)

type LaborService interface {
	Productivity(ctx context.Context) ([]analytics.ProjectProductivity, error)
	Totals(ctx context.Context) (analytics.LaborTotals, error)
	Employees(ctx context.Context, projectID *int64) ([]EmployeeDetail, error)
	Payroll(ctx context.Context, now time.Time) (analytics.PayrollEstimate, error)
	Unions(ctx context.Context) ([]analytics.UnionLiability, error)
}

type FinanceService interface {
	Variance(ctx context.Context) ([]analytics.BudgetVariance, error)
	ProjectAnalytics(ctx context.Context, projectID *int64) ([]analytics.FinancialReport, error)
	Portfolio(ctx context.Context) (*PortfolioView, error)
}

type AnomalyService interface {
	Detect(ctx context.Context) ([]analytics.AnomalyReport, error)
	Scan(ctx context.Context) ([]AnomalyFinding, error)
	Flag(ctx context.Context) (*FlagResult, error)
}

type InsightService interface {
	Insight(ctx context.Context, req InsightRequest) (*narration.Insight, error)
}

type ReportingService interface {
	CreateProject(ctx context.Context, p *domain.Project) error
	ListProjects(ctx context.Context) ([]ProjectDetail, error)
	GetProject(ctx context.Context, id int64) (*ProjectDetail, error)
	AddEvent(ctx context.Context, projectID int64, ev *domain.ProjectEvent) error
	UpdateEvent(ctx context.Context, id int64, upd domain.EventUpdate) (*domain.ProjectEvent, error)
	AddMedia(ctx context.Context, projectID int64, filename string) (*domain.ProjectMedia, error)
}

type DashboardService interface {
	Build(ctx context.Context, req DashboardRequest) (*Dashboard, error)
}

// ImportResult holds the outcome of a snapshot import.
type ImportResult struct {
	Counts   ingest.Counts
	Projects []*domain.Project
}

type ImportService interface {
	ImportSnapshot(ctx context.Context, filePath string) (*ImportResult, error)
	ImportSnapshotFromData(ctx context.Context, snap *ingest.Snapshot) (*ImportResult, error)
}
