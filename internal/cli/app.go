package cli

import (
	"database/sql"
	"log/slog"

	"github.com/alexanderramin/sitewise/internal/config"
	"github.com/alexanderramin/sitewise/internal/db"
	"github.com/alexanderramin/sitewise/internal/llm"
	"github.com/alexanderramin/sitewise/internal/narration"
	"github.com/alexanderramin/sitewise/internal/repository"
	"github.com/alexanderramin/sitewise/internal/service"
)

// Agent reports the narration provider in use.
type Agent interface {
	Config() narration.ProviderInfo
}

// NewApp wires repositories and services over an open database. client may
// be nil, in which case narration uses its deterministic fallback.
func NewApp(database *sql.DB, cfg *config.Config, logger *slog.Logger, client llm.LLMClient) *App {
	projects := repository.NewSQLiteProjectRepo(database)
	labor := repository.NewSQLiteLaborRepo(database)
	events := repository.NewSQLiteEventRepo(database)
	invoices := repository.NewSQLiteInvoiceRepo(database)
	unions := repository.NewSQLiteUnionRepo(database)
	media := repository.NewSQLiteMediaRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	observer := service.NewSlogUseCaseObserver(logger)
	narr := narration.New(client, cfg.LLM, cfg.Analytics.AnnualInflation)

	laborSvc := service.NewLaborService(projects, labor, unions, nil, cfg.Analytics, observer)
	financeSvc := service.NewFinanceService(projects, labor, events, cfg.Analytics, observer)
	anomalySvc := service.NewAnomalyService(invoices, uow, narr, cfg.Analytics, observer)

	return &App{
		Labor:     laborSvc,
		Finance:   financeSvc,
		Anomalies: anomalySvc,
		Insights:  service.NewInsightService(laborSvc, financeSvc, anomalySvc, narr, observer),
		Reporting: service.NewReportingService(projects, events, media, cfg.Server.MediaBase, observer),
		Dashboard: service.NewDashboardService(uow, cfg.Analytics, observer),
		Import:    service.NewImportService(uow, observer),
		Agent:     narr,
		Config:    cfg,
		Logger:    logger,
	}
}
