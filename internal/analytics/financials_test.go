package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sitewise/internal/domain"
)

func event(projectID int64, typ domain.EventType, amount float64, category string) domain.ProjectEvent {
	ev := domain.ProjectEvent{ProjectID: projectID, Title: string(typ), Type: typ, Amount: &amount}
	if category != "" {
		ev.Category = &category
	}
	return ev
}

func TestProjectFinancials(t *testing.T) {
	project := domain.Project{ID: 1, Name: "Riverside Plaza"}
	events := []domain.ProjectEvent{
		event(1, domain.EventPayment, 50000, ""),
		event(1, domain.EventPayment, 25000, ""),
		event(1, domain.EventExpense, 8000, "materials"),
		event(1, domain.EventExpense, 2000, "materials"),
		event(1, domain.EventExpense, 1500, "equipment"),
		event(1, domain.EventExpense, 500, ""),
		event(1, domain.EventInspection, 0, ""),
		event(2, domain.EventPayment, 99999, ""),
	}
	recs := []domain.LaborRecord{
		{ProjectID: 1, EmployeeID: "E1", Hours: 100, IsBillable: true},
		{ProjectID: 1, EmployeeID: "E2", Hours: 20},
		{ProjectID: 2, EmployeeID: "E3", Hours: 1000, IsBillable: true},
	}

	r := ProjectFinancials(project, events, recs, 85)

	assert.Equal(t, int64(1), r.ProjectID)
	assert.Equal(t, "Riverside Plaza", r.ProjectName)
	assert.Equal(t, 75000.0, r.Revenue)
	assert.Equal(t, 12000.0, r.Expenses)
	assert.Equal(t, map[string]float64{"materials": 10000, "equipment": 1500}, r.ExpenseBreakdown)
	assert.Equal(t, 100.0, r.BillableHours)
	assert.Equal(t, 20.0, r.OverheadHours)
	assert.Equal(t, 8500.0, r.BillableCost)
	assert.Equal(t, 1700.0, r.OverheadCost)
	assert.Equal(t, 10200.0, r.LaborCost)
	assert.Equal(t, 22200.0, r.TotalCosts)
	assert.Equal(t, 52800.0, r.NetProfit)
	assert.InDelta(t, 70.4, r.ProfitMargin, 1e-9)
}

func TestProjectFinancials_EmptyCategoryLeftOutOfBreakdown(t *testing.T) {
	project := domain.Project{ID: 1, Name: "A"}
	blank := ""
	amount := 100.0
	events := []domain.ProjectEvent{
		{ProjectID: 1, Title: "Misc", Type: domain.EventExpense, Category: &blank, Amount: &amount},
		event(1, domain.EventExpense, 250, "fuel"),
	}

	r := ProjectFinancials(project, events, nil, 85)

	assert.Equal(t, 350.0, r.Expenses)
	assert.Equal(t, map[string]float64{"fuel": 250}, r.ExpenseBreakdown)
}

func TestProjectFinancials_ZeroRevenueMarginIsZero(t *testing.T) {
	project := domain.Project{ID: 4, Name: "Pre-sale"}
	events := []domain.ProjectEvent{event(4, domain.EventExpense, 3000, "permits")}

	r := ProjectFinancials(project, events, nil, 85)

	assert.Equal(t, 0.0, r.Revenue)
	assert.Equal(t, -3000.0, r.NetProfit)
	assert.Equal(t, 0.0, r.ProfitMargin)
}

func TestProjectFinancials_NilAmountCountsAsZero(t *testing.T) {
	project := domain.Project{ID: 1, Name: "A"}
	events := []domain.ProjectEvent{{ProjectID: 1, Title: "Draw", Type: domain.EventPayment}}

	r := ProjectFinancials(project, events, nil, 85)

	assert.Equal(t, 0.0, r.Revenue)
	assert.Equal(t, 0.0, r.ProfitMargin)
	assert.NotNil(t, r.ExpenseBreakdown)
}

func TestProjectFinancials_NegativeProfitMargin(t *testing.T) {
	project := domain.Project{ID: 1, Name: "A"}
	events := []domain.ProjectEvent{
		event(1, domain.EventPayment, 1000, ""),
		event(1, domain.EventExpense, 1500, "materials"),
	}
	r := ProjectFinancials(project, events, nil, 85)
	assert.InDelta(t, -50.0, r.ProfitMargin, 1e-9)
}

func TestPortfolioFinancialsAndSummary(t *testing.T) {
	projects := []domain.Project{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	events := []domain.ProjectEvent{
		event(1, domain.EventPayment, 1000, ""),
		event(2, domain.EventPayment, 3000, ""),
		event(2, domain.EventExpense, 1000, "materials"),
	}
	recs := []domain.LaborRecord{{ProjectID: 1, EmployeeID: "E1", Hours: 10, IsBillable: true}}

	reports := PortfolioFinancials(projects, events, recs, 50)
	require.Len(t, reports, 2)
	assert.Equal(t, "A", reports[0].ProjectName)
	assert.Equal(t, 500.0, reports[0].NetProfit)
	assert.Equal(t, 2000.0, reports[1].NetProfit)

	sum := Portfolio(reports)
	assert.Equal(t, 2, sum.Projects)
	assert.Equal(t, 4000.0, sum.TotalRevenue)
	assert.Equal(t, 1500.0, sum.TotalCosts)
	assert.Equal(t, 2500.0, sum.TotalProfit)
	assert.InDelta(t, 62.5, sum.AvgMargin, 1e-9)
}

func TestPortfolio_Empty(t *testing.T) {
	sum := Portfolio(nil)
	assert.Equal(t, PortfolioSummary{}, sum)
}

func TestBudgetVariance(t *testing.T) {
	over := ProjectBudgetVariance(domain.Project{ID: 1, Name: "Riverside Plaza", ActualHours: 500, BudgetHours: 450})
	assert.Equal(t, 50.0, over.Variance)
	assert.True(t, over.OverBudget())

	under := ProjectBudgetVariance(domain.Project{ID: 2, Name: "B", ActualHours: 100, BudgetHours: 400})
	assert.Equal(t, -300.0, under.Variance)
	assert.False(t, under.OverBudget())

	assert.Len(t, BudgetVariances([]domain.Project{{ID: 1}, {ID: 2}}), 2)
}

func TestSyncActualHours(t *testing.T) {
	projects := []domain.Project{
		{ID: 1, Name: "A", BudgetHours: 10, ActualHours: 999},
		{ID: 2, Name: "B", BudgetHours: 10, ActualHours: 3},
	}
	recs := []domain.LaborRecord{
		{ProjectID: 1, EmployeeID: "E1", Hours: 8, IsBillable: true},
		{ProjectID: 1, EmployeeID: "E2", Hours: 4},
	}

	synced := SyncActualHours(projects, recs)

	assert.Equal(t, 12.0, synced[0].ActualHours)
	assert.Equal(t, 0.0, synced[1].ActualHours)
	assert.Equal(t, 999.0, projects[0].ActualHours, "input must not be modified")
	assert.Equal(t, 1, OverBudgetCount(synced))
}
