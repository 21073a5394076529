package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/db"
	"github.com/alexanderramin/sitewise/internal/domain"
	"github.com/alexanderramin/sitewise/internal/ingest"
	"github.com/alexanderramin/sitewise/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService wires snapshot ingestion. Every record of a snapshot is
// written in one transaction through tx-scoped repositories.
func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportSnapshot(ctx context.Context, filePath string) (*ImportResult, error) {
	snap, err := ingest.LoadSnapshot(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSnapshot(ctx, snap)
}

func (s *importService) ImportSnapshotFromData(ctx context.Context, snap *ingest.Snapshot) (*ImportResult, error) {
	return s.importSnapshot(ctx, snap)
}

func (s *importService) importSnapshot(ctx context.Context, snap *ingest.Snapshot) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "import-snapshot", startedAt, fields, &err)

	if errs := ingest.ValidateSnapshot(snap); len(errs) > 0 {
		fields["validation_errors"] = len(errs)
		return nil, formatValidationErrors(errs)
	}

	bundle, err := ingest.Convert(snap)
	if err != nil {
		return nil, fmt.Errorf("converting snapshot: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return persistBundle(ctx, tx, bundle)
	})
	if err != nil {
		return nil, err
	}

	result = &ImportResult{Counts: bundle.Counts()}
	for _, pb := range bundle.Projects {
		result.Projects = append(result.Projects, pb.Project)
	}
	fields["projects"] = result.Counts.Projects
	fields["labor"] = result.Counts.Labor
	fields["invoices"] = result.Counts.Invoices
	return result, nil
}

func persistBundle(ctx context.Context, tx db.DBTX, bundle *ingest.Bundle) error {
	projects := repository.NewSQLiteProjectRepo(tx)
	events := repository.NewSQLiteEventRepo(tx)
	labor := repository.NewSQLiteLaborRepo(tx)
	invoices := repository.NewSQLiteInvoiceRepo(tx)
	unions := repository.NewSQLiteUnionRepo(tx)

	refs := make(map[string]int64, len(bundle.Projects))
	for _, pb := range bundle.Projects {
		if err := projects.Create(ctx, pb.Project); err != nil {
			return fmt.Errorf("creating project %q: %w", pb.Ref, err)
		}
		refs[pb.Ref] = pb.Project.ID
	}

	for _, pb := range bundle.Projects {
		for _, ev := range pb.Events {
			ev.ProjectID = pb.Project.ID
			if err := events.Create(ctx, ev); err != nil {
				return fmt.Errorf("creating event %q: %w", ev.Title, err)
			}
		}
	}

	records := make([]domain.LaborRecord, 0, len(bundle.Labor))
	for _, rl := range bundle.Labor {
		rl.Record.ProjectID = refs[rl.ProjectRef]
		if err := labor.Create(ctx, rl.Record); err != nil {
			return fmt.Errorf("creating labor record for %q: %w", rl.ProjectRef, err)
		}
		records = append(records, *rl.Record)
	}

	for _, inv := range bundle.Invoices {
		if err := invoices.Create(ctx, inv); err != nil {
			return fmt.Errorf("creating invoice %s/%v: %w", inv.Category, inv.Amount, err)
		}
	}

	for _, ub := range bundle.Unions {
		if err := unions.Create(ctx, ub.Union); err != nil {
			return fmt.Errorf("creating union %q: %w", ub.Union.Name, err)
		}
		for _, rate := range ub.Rates {
			rate.UnionID = ub.Union.ID
			if err := unions.CreateRate(ctx, rate); err != nil {
				return fmt.Errorf("creating rate %s/%s for %q: %w", rate.PayrollCode, rate.BenefitType, ub.Union.Name, err)
			}
		}
	}

	created := make([]domain.Project, 0, len(bundle.Projects))
	for _, pb := range bundle.Projects {
		created = append(created, *pb.Project)
	}
	for i, p := range analytics.SyncActualHours(created, records) {
		if err := projects.SetActualHours(ctx, p.ID, p.ActualHours); err != nil {
			return fmt.Errorf("syncing actual hours of %q: %w", bundle.Projects[i].Ref, err)
		}
		bundle.Projects[i].Project.ActualHours = p.ActualHours
	}
	return nil
}
