package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sitewise/internal/testutil"
)

func laborTestSetup(t *testing.T) (*SQLiteLaborRepo, int64, int64) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	p1 := testutil.NewTestProject("P1")
	p2 := testutil.NewTestProject("P2")
	require.NoError(t, projRepo.Create(ctx, p1))
	require.NoError(t, projRepo.Create(ctx, p2))

	return NewSQLiteLaborRepo(db), p1.ID, p2.ID
}

func TestLaborRepo_CreateAndList(t *testing.T) {
	repo, p1, _ := laborTestSetup(t)
	ctx := context.Background()

	at := time.Date(2026, 2, 10, 14, 30, 0, 0, time.FixedZone("EST", -5*3600))
	rec := testutil.NewTestLabor(p1, 7.5, testutil.WithLaborDate(at), testutil.WithOverhead())
	require.NoError(t, repo.Create(ctx, rec))
	require.NotZero(t, rec.ID)

	list, err := repo.List(ctx, LaborFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, p1, got.ProjectID)
	assert.Equal(t, "EMP-001", got.EmployeeID)
	assert.Equal(t, 7.5, got.Hours)
	assert.False(t, got.IsBillable)
	assert.True(t, at.Equal(got.Date), "date should round-trip as the same instant")
	assert.Equal(t, time.UTC, got.Date.Location())
}

func TestLaborRepo_ListFilters(t *testing.T) {
	repo, p1, p2 := laborTestSetup(t)
	ctx := context.Background()
	day := testutil.RefDate

	require.NoError(t, repo.Create(ctx, testutil.NewTestLabor(p1, 8, testutil.WithLaborDate(day.AddDate(0, 0, -40)))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestLabor(p1, 6, testutil.WithLaborDate(day.AddDate(0, 0, -5)), testutil.WithOverhead())))
	require.NoError(t, repo.Create(ctx, testutil.NewTestLabor(p2, 4, testutil.WithLaborDate(day), testutil.WithPayrollCode("ELEC-01"))))

	byProject, err := repo.List(ctx, LaborFilter{ProjectID: &p1})
	require.NoError(t, err)
	assert.Len(t, byProject, 2)

	from := day.AddDate(0, 0, -30)
	recent, err := repo.List(ctx, LaborFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 6.0, recent[0].Hours, "ordered by date")
	assert.Equal(t, 4.0, recent[1].Hours)

	to := day.AddDate(0, 0, -5)
	bounded, err := repo.List(ctx, LaborFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, bounded, 1, "upper bound is inclusive")

	billable := true
	onlyBillable, err := repo.List(ctx, LaborFilter{Billable: &billable})
	require.NoError(t, err)
	assert.Len(t, onlyBillable, 2)

	elec, err := repo.List(ctx, LaborFilter{PayrollCode: "ELEC-01"})
	require.NoError(t, err)
	require.Len(t, elec, 1)
	assert.Equal(t, p2, elec[0].ProjectID)
}

func TestLaborRepo_RejectsUnknownProject(t *testing.T) {
	repo, _, _ := laborTestSetup(t)
	err := repo.Create(context.Background(), testutil.NewTestLabor(12345, 8))
	assert.Error(t, err)
}
