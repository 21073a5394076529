package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/db"
	"github.com/alexanderramin/sitewise/internal/domain"
	"github.com/alexanderramin/sitewise/internal/repository"
)

type DashboardRequest struct {
	// Now anchors the payroll window. Nil means the current time.
	Now *time.Time
}

func NewDashboardRequest() DashboardRequest {
	return DashboardRequest{}
}

// Dashboard holds every engine view computed over one record snapshot.
type Dashboard struct {
	GeneratedAt  time.Time                       `json:"generated_at"`
	Productivity []analytics.ProjectProductivity `json:"productivity"`
	Totals       analytics.LaborTotals           `json:"totals"`
	Payroll      analytics.PayrollEstimate       `json:"payroll"`
	Unions       []analytics.UnionLiability      `json:"unions"`
	Financials   []analytics.FinancialReport     `json:"financials"`
	Portfolio    analytics.PortfolioSummary      `json:"portfolio"`
	Variance     []analytics.BudgetVariance      `json:"variance"`
	Anomalies    []analytics.AnomalyReport       `json:"anomalies"`
}

type recordSnapshot struct {
	projects []domain.Project
	labor    []domain.LaborRecord
	events   []domain.ProjectEvent
	invoices []domain.Invoice
	unions   []domain.Union
	rates    []domain.UnionRate
}

type dashboardService struct {
	uow      db.UnitOfWork
	cfg      analytics.Config
	observer UseCaseObserver
}

// NewDashboardService reads its records through uow.Snapshot, so all views
// are computed from the same committed state.
func NewDashboardService(uow db.UnitOfWork, cfg analytics.Config, observers ...UseCaseObserver) DashboardService {
	return &dashboardService{
		uow:      uow,
		cfg:      cfg,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Build reads one snapshot and then computes the views in parallel. The
// engine never writes, so the views share the snapshot without locking.
func (s *dashboardService) Build(ctx context.Context, req DashboardRequest) (d *Dashboard, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "dashboard", startedAt, fields, &err)

	now := startedAt
	if req.Now != nil {
		now = req.Now.UTC()
	}

	var snap *recordSnapshot
	err = s.uow.Snapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		var loadErr error
		snap, loadErr = loadSnapshot(ctx, tx)
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	fields["project_count"] = len(snap.projects)
	fields["record_count"] = len(snap.labor)

	d = &Dashboard{GeneratedAt: now}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.Productivity = analytics.ProductivityStats(snap.labor, snap.projects)
		d.Totals = analytics.TotalAggregates(snap.labor, snap.projects)
		return nil
	})
	g.Go(func() error {
		d.Payroll = analytics.PayrollProjection(snap.labor, now, s.cfg)
		return nil
	})
	g.Go(func() error {
		d.Unions = analytics.UnionLiabilities(snap.unions, snap.rates, snap.labor)
		return nil
	})
	g.Go(func() error {
		synced := analytics.SyncActualHours(snap.projects, snap.labor)
		d.Financials = analytics.PortfolioFinancials(synced, snap.events, snap.labor, s.cfg.HourlyRate)
		d.Portfolio = analytics.Portfolio(d.Financials)
		d.Variance = analytics.BudgetVariances(synced)
		return nil
	})
	g.Go(func() error {
		d.Anomalies = analytics.DetectExpenseAnomalies(invoiceExpenses(snap.invoices), s.cfg.AnnualInflation)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	fields["anomaly_count"] = len(d.Anomalies)
	return d, nil
}

func loadSnapshot(ctx context.Context, tx db.DBTX) (*recordSnapshot, error) {
	var snap recordSnapshot
	var err error
	if snap.projects, err = repository.NewSQLiteProjectRepo(tx).List(ctx); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if snap.labor, err = repository.NewSQLiteLaborRepo(tx).List(ctx, repository.LaborFilter{}); err != nil {
		return nil, fmt.Errorf("listing labor: %w", err)
	}
	if snap.events, err = repository.NewSQLiteEventRepo(tx).List(ctx, repository.EventFilter{}); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	if snap.invoices, err = repository.NewSQLiteInvoiceRepo(tx).List(ctx, repository.InvoiceFilter{}); err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	unions := repository.NewSQLiteUnionRepo(tx)
	if snap.unions, err = unions.List(ctx); err != nil {
		return nil, fmt.Errorf("listing unions: %w", err)
	}
	if snap.rates, err = unions.ListRates(ctx); err != nil {
		return nil, fmt.Errorf("listing union rates: %w", err)
	}
	return &snap, nil
}
