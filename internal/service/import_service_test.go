package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sitewise/internal/ingest"
	"github.com/alexanderramin/sitewise/internal/repository"
	"github.com/alexanderramin/sitewise/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func sampleSnapshot() *ingest.Snapshot {
	return &ingest.Snapshot{
		Projects: []ingest.ProjectImport{
			{
				Ref:         "riverside",
				Name:        "Riverside Plaza",
				TotalBudget: 2_000_000,
				BudgetHours: 45,
				StartDate:   ptr("2026-01-05"),
				Events: []ingest.EventImport{
					{Title: "Draw 1", Date: "2026-02-01", Type: "payment", Amount: ptr(100_000.0)},
					{Title: "Rebar", Date: "2026-02-03", Type: "expense", Category: ptr("materials"), Amount: ptr(30_000.0)},
				},
			},
			{Ref: "harbor", Name: "Harbor Tower", BudgetHours: 10},
		},
		Labor: []ingest.LaborImport{
			{ProjectRef: "riverside", EmployeeID: "EMP-001", Date: "2026-03-02", Hours: 40, PayrollCode: "CARP-01"},
			{ProjectRef: "riverside", EmployeeID: "EMP-002", Date: "2026-03-02", Hours: 10, PayrollCode: "CARP-01", IsBillable: ptr(false)},
			{ProjectRef: "harbor", EmployeeID: "EMP-003", Date: "2026-03-02", Hours: 20, PayrollCode: "ELEC-01"},
		},
		Invoices: []ingest.InvoiceImport{
			{Vendor: "Ready Mix", Category: "concrete", Amount: 1000, Date: "2026-01-10"},
			{Vendor: "Ready Mix", Category: "concrete", Amount: 5000, Date: "2026-02-10"},
		},
		Unions: []ingest.UnionImport{
			{Name: "Carpenters Local 22", Rates: []ingest.RateImport{
				{PayrollCode: "CARP-01", Rate: 10, BenefitType: "pension"},
				{PayrollCode: "CARP-01", Rate: 5, BenefitType: "health"},
			}},
		},
	}
}

func TestImportService_ImportSnapshotFromData(t *testing.T) {
	database := testutil.NewTestDB(t)
	r := newRepos(database)
	obs := &captureObserver{}
	svc := NewImportService(testutil.NewTestUoW(database), obs)
	ctx := context.Background()

	result, err := svc.ImportSnapshotFromData(ctx, sampleSnapshot())

	require.NoError(t, err)
	assert.Equal(t, ingest.Counts{Projects: 2, Events: 2, Labor: 3, Invoices: 2, Unions: 1, Rates: 2}, result.Counts)
	require.Len(t, result.Projects, 2)
	assert.NotZero(t, result.Projects[0].ID)
	assert.Equal(t, 50.0, result.Projects[0].ActualHours)
	assert.Equal(t, 20.0, result.Projects[1].ActualHours)

	harbor, err := r.projects.GetByID(ctx, result.Projects[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, harbor.ActualHours)

	labor, err := r.labor.List(ctx, repository.LaborFilter{ProjectID: &result.Projects[1].ID})
	require.NoError(t, err)
	require.Len(t, labor, 1)
	assert.Equal(t, "EMP-003", labor[0].EmployeeID)

	events, err := r.events.List(ctx, repository.EventFilter{ProjectID: &result.Projects[0].ID})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	rates, err := r.unions.ListRates(ctx)
	require.NoError(t, err)
	assert.Len(t, rates, 2)

	event := obs.last(t)
	assert.Equal(t, "import-snapshot", event.Name)
	assert.True(t, event.Success)
	assert.Equal(t, 3, event.Fields["labor"])
}

func TestImportService_ImportSnapshotFromFile(t *testing.T) {
	database := testutil.NewTestDB(t)
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"projects": [{"ref": "p1", "name": "Depot", "budget_hours": 5}],
		"labor": [{"project_ref": "p1", "employee_id": "E1", "date": "2026-03-01", "hours": 8}]
	}`), 0o644))

	result, err := NewImportService(testutil.NewTestUoW(database)).ImportSnapshot(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Counts.Projects)
	assert.Equal(t, 8.0, result.Projects[0].ActualHours)

	labor, err := repository.NewSQLiteLaborRepo(database).List(context.Background(), repository.LaborFilter{})
	require.NoError(t, err)
	require.Len(t, labor, 1)
	assert.True(t, labor[0].IsBillable)
}

func TestImportService_MissingFile(t *testing.T) {
	database := testutil.NewTestDB(t)
	_, err := NewImportService(testutil.NewTestUoW(database)).ImportSnapshot(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading import file")
}

func TestImportService_ValidationErrorsWriteNothing(t *testing.T) {
	database := testutil.NewTestDB(t)
	obs := &captureObserver{}
	snap := sampleSnapshot()
	snap.Labor = append(snap.Labor, ingest.LaborImport{ProjectRef: "ghost", EmployeeID: "EMP-9", Date: "2026-03-02", Hours: 1})
	snap.Invoices[0].Amount = -10

	_, err := NewImportService(testutil.NewTestUoW(database), obs).ImportSnapshotFromData(context.Background(), snap)

	require.ErrorIs(t, err, ErrImportInvalid)
	assert.Contains(t, err.Error(), `ref "ghost" not found`)
	assert.Contains(t, err.Error(), "invoices[0]")
	assert.Equal(t, 2, obs.last(t).Fields["validation_errors"])

	projects, err := repository.NewSQLiteProjectRepo(database).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestImportService_RollsBackOnWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	injected := errors.New("constraint violated")
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Match: "INSERT INTO invoices", Err: injected}

	_, err := NewImportService(uow).ImportSnapshotFromData(context.Background(), sampleSnapshot())

	require.ErrorIs(t, err, injected)
	assert.Equal(t, int32(2), uow.Calls.Load())

	r := newRepos(database)
	projects, err := r.projects.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
	labor, err := r.labor.List(context.Background(), repository.LaborFilter{})
	require.NoError(t, err)
	assert.Empty(t, labor)
	invoices, err := r.invoices.List(context.Background(), repository.InvoiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, invoices)
}
