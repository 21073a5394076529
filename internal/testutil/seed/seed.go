// Package seed writes a fixed record set through the repositories for
// service and transport tests.
package seed

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/sitewise/internal/domain"
	"github.com/alexanderramin/sitewise/internal/repository"
	"github.com/alexanderramin/sitewise/internal/testutil"
)

// Seeded holds the records written by Portfolio, with IDs assigned.
type Seeded struct {
	Riverside *domain.Project
	Harbor    *domain.Project
	Unions    []*domain.Union
}

// Portfolio writes a small two-project portfolio:
//
//	Riverside: 40h billable + 10h overhead (CARP-01), payments 100k, expenses 30k
//	Harbor:    20h billable (ELEC-01), no events, budget 10h
//	Invoices:  concrete [1000 1000 1000 5000], steel [800]
//	Unions:    Carpenters (CARP-01 pension 10, health 5), Electricians (ELEC-01 pension 8)
func Portfolio(t *testing.T, database *sql.DB) Seeded {
	t.Helper()
	ctx := context.Background()
	projects := repository.NewSQLiteProjectRepo(database)
	labor := repository.NewSQLiteLaborRepo(database)
	events := repository.NewSQLiteEventRepo(database)
	invoices := repository.NewSQLiteInvoiceRepo(database)
	unions := repository.NewSQLiteUnionRepo(database)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seeding portfolio: %v", err)
		}
	}

	riverside := testutil.NewTestProject("Riverside Plaza", testutil.WithBudgetHours(45))
	harbor := testutil.NewTestProject("Harbor Tower", testutil.WithBudgetHours(10))
	must(projects.Create(ctx, riverside))
	must(projects.Create(ctx, harbor))

	must(labor.Create(ctx, testutil.NewTestLabor(riverside.ID, 40, testutil.WithEmployee("EMP-001"))))
	must(labor.Create(ctx, testutil.NewTestLabor(riverside.ID, 10, testutil.WithEmployee("EMP-002"), testutil.WithOverhead())))
	must(labor.Create(ctx, testutil.NewTestLabor(harbor.ID, 20, testutil.WithEmployee("EMP-003"), testutil.WithPayrollCode("ELEC-01"))))

	must(events.Create(ctx, testutil.NewTestEvent(riverside.ID, domain.EventPayment, "Draw 1", testutil.WithAmount(100_000))))
	must(events.Create(ctx, testutil.NewTestEvent(riverside.ID, domain.EventExpense, "Concrete pour",
		testutil.WithAmount(30_000), testutil.WithCategory("materials"))))
	must(events.Create(ctx, testutil.NewTestEvent(riverside.ID, domain.EventInspection, "Framing inspection")))

	for _, amount := range []float64{1000, 1000, 1000, 5000} {
		must(invoices.Create(ctx, testutil.NewTestInvoice("concrete", amount)))
	}
	must(invoices.Create(ctx, testutil.NewTestInvoice("steel", 800)))

	carp := testutil.NewTestUnion("Carpenters Local 22")
	elec := testutil.NewTestUnion("Electricians IBEW 6")
	must(unions.Create(ctx, carp))
	must(unions.Create(ctx, elec))
	must(unions.CreateRate(ctx, testutil.NewTestUnionRate(carp.ID, "CARP-01", "pension", 10)))
	must(unions.CreateRate(ctx, testutil.NewTestUnionRate(carp.ID, "CARP-01", "health", 5)))
	must(unions.CreateRate(ctx, testutil.NewTestUnionRate(elec.ID, "ELEC-01", "pension", 8)))

	return Seeded{Riverside: riverside, Harbor: harbor, Unions: []*domain.Union{carp, elec}}
}
