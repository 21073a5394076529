package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/repository"
	"github.com/alexanderramin/sitewise/internal/testutil"
	"github.com/alexanderramin/sitewise/internal/testutil/seed"
)

type repos struct {
	projects repository.ProjectRepo
	labor    repository.LaborRepo
	events   repository.EventRepo
	invoices repository.InvoiceRepo
	unions   repository.UnionRepo
	media    repository.MediaRepo
}

func newRepos(database *sql.DB) repos {
	return repos{
		projects: repository.NewSQLiteProjectRepo(database),
		labor:    repository.NewSQLiteLaborRepo(database),
		events:   repository.NewSQLiteEventRepo(database),
		invoices: repository.NewSQLiteInvoiceRepo(database),
		unions:   repository.NewSQLiteUnionRepo(database),
		media:    repository.NewSQLiteMediaRepo(database),
	}
}

// seededDB returns a database holding seed.Portfolio.
func seededDB(t *testing.T) (*sql.DB, repos, seed.Seeded) {
	t.Helper()
	database := testutil.NewTestDB(t)
	seeded := seed.Portfolio(t, database)
	return database, newRepos(database), seeded
}

type captureObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (c *captureObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureObserver) last(t *testing.T) UseCaseEvent {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		t.Fatal("no use case observed")
	}
	return c.events[len(c.events)-1]
}

func testConfig() analytics.Config {
	return analytics.DefaultConfig()
}
