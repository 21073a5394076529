package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/alexanderramin/sitewise/internal/domain"
)

// FinancialReport is a project's revenue, cost and profit picture.
type FinancialReport struct {
	ProjectID        int64              `json:"project_id"`
	ProjectName      string             `json:"project_name"`
	Revenue          float64            `json:"revenue"`
	Expenses         float64            `json:"expenses"`
	ExpenseBreakdown map[string]float64 `json:"expense_breakdown"`
	LaborCost        float64            `json:"labor_cost"`
	BillableCost     float64            `json:"billable_cost"`
	OverheadCost     float64            `json:"overhead_cost"`
	BillableHours    float64            `json:"billable_hours"`
	OverheadHours    float64            `json:"overhead_hours"`
	TotalCosts       float64            `json:"total_costs"`
	NetProfit        float64            `json:"net_profit"`
	ProfitMargin     float64            `json:"profit_margin"`
}

// ProjectFinancials computes revenue from payment events, expenses from
// expense events, and labor cost from the project's labor records. Events and
// labor belonging to other projects are ignored. Money is summed in decimal so
// the totals do not depend on input order.
//
// An expense without a category (nil or empty) counts toward Expenses but is
// left out of ExpenseBreakdown. ProfitMargin is 0 when revenue is not positive.
func ProjectFinancials(project domain.Project, events []domain.ProjectEvent, labor []domain.LaborRecord, hourlyRate float64) FinancialReport {
	revenue := decimal.Zero
	expenses := decimal.Zero
	breakdown := make(map[string]decimal.Decimal)
	for _, ev := range events {
		if ev.ProjectID != project.ID {
			continue
		}
		amount := decimal.NewFromFloat(ev.MonetaryAmount())
		switch ev.Type {
		case domain.EventPayment:
			revenue = revenue.Add(amount)
		case domain.EventExpense:
			expenses = expenses.Add(amount)
			if ev.Category != nil && *ev.Category != "" {
				breakdown[*ev.Category] = breakdown[*ev.Category].Add(amount)
			}
		}
	}

	billableHours := decimal.Zero
	overheadHours := decimal.Zero
	for _, rec := range labor {
		if rec.ProjectID != project.ID {
			continue
		}
		if rec.IsBillable {
			billableHours = billableHours.Add(decimal.NewFromFloat(rec.Hours))
		} else {
			overheadHours = overheadHours.Add(decimal.NewFromFloat(rec.Hours))
		}
	}

	rate := decimal.NewFromFloat(hourlyRate)
	billableCost := billableHours.Mul(rate)
	overheadCost := overheadHours.Mul(rate)
	laborCost := billableCost.Add(overheadCost)
	totalCosts := expenses.Add(laborCost)
	netProfit := revenue.Sub(totalCosts)

	return FinancialReport{
		ProjectID:        project.ID,
		ProjectName:      project.Name,
		Revenue:          revenue.InexactFloat64(),
		Expenses:         expenses.InexactFloat64(),
		ExpenseBreakdown: floatMap(breakdown),
		LaborCost:        laborCost.InexactFloat64(),
		BillableCost:     billableCost.InexactFloat64(),
		OverheadCost:     overheadCost.InexactFloat64(),
		BillableHours:    billableHours.InexactFloat64(),
		OverheadHours:    overheadHours.InexactFloat64(),
		TotalCosts:       totalCosts.InexactFloat64(),
		NetProfit:        netProfit.InexactFloat64(),
		ProfitMargin:     marginPct(netProfit, revenue),
	}
}

// PortfolioFinancials runs ProjectFinancials for every project, in order.
func PortfolioFinancials(projects []domain.Project, events []domain.ProjectEvent, labor []domain.LaborRecord, hourlyRate float64) []FinancialReport {
	eventsByProject := make(map[int64][]domain.ProjectEvent)
	for _, ev := range events {
		eventsByProject[ev.ProjectID] = append(eventsByProject[ev.ProjectID], ev)
	}
	laborByProject := make(map[int64][]domain.LaborRecord)
	for _, rec := range labor {
		laborByProject[rec.ProjectID] = append(laborByProject[rec.ProjectID], rec)
	}

	reports := make([]FinancialReport, 0, len(projects))
	for _, p := range projects {
		reports = append(reports, ProjectFinancials(p, eventsByProject[p.ID], laborByProject[p.ID], hourlyRate))
	}
	return reports
}

// PortfolioSummary aggregates financial reports across projects.
type PortfolioSummary struct {
	Projects     int     `json:"projects"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalCosts   float64 `json:"total_costs"`
	TotalProfit  float64 `json:"total_profit"`
	AvgMargin    float64 `json:"avg_margin"`
}

// Portfolio sums revenue, costs and profit. AvgMargin is total profit over
// total revenue, not the mean of per-project margins.
func Portfolio(reports []FinancialReport) PortfolioSummary {
	revenue := decimal.Zero
	costs := decimal.Zero
	profit := decimal.Zero
	for _, r := range reports {
		revenue = revenue.Add(decimal.NewFromFloat(r.Revenue))
		costs = costs.Add(decimal.NewFromFloat(r.TotalCosts))
		profit = profit.Add(decimal.NewFromFloat(r.NetProfit))
	}
	return PortfolioSummary{
		Projects:     len(reports),
		TotalRevenue: revenue.InexactFloat64(),
		TotalCosts:   costs.InexactFloat64(),
		TotalProfit:  profit.InexactFloat64(),
		AvgMargin:    marginPct(profit, revenue),
	}
}

// BudgetVariance compares actual hours to budgeted hours. A positive
// Variance means the project is over budget.
type BudgetVariance struct {
	ProjectID   int64   `json:"project_id"`
	ProjectName string  `json:"project_name"`
	ActualHours float64 `json:"actual_hours"`
	BudgetHours float64 `json:"budget_hours"`
	Variance    float64 `json:"variance"`
}

func (v BudgetVariance) OverBudget() bool {
	return v.Variance > 0
}

// ProjectBudgetVariance reads the project's ActualHours as given. Callers
// holding labor records should pass the project through SyncActualHours first.
func ProjectBudgetVariance(project domain.Project) BudgetVariance {
	return BudgetVariance{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		ActualHours: project.ActualHours,
		BudgetHours: project.BudgetHours,
		Variance:    project.ActualHours - project.BudgetHours,
	}
}

func BudgetVariances(projects []domain.Project) []BudgetVariance {
	out := make([]BudgetVariance, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectBudgetVariance(p))
	}
	return out
}

// SyncActualHours returns copies of the projects with ActualHours re-derived
// from labor. The inputs are not modified.
func SyncActualHours(projects []domain.Project, labor []domain.LaborRecord) []domain.Project {
	splits := splitByProject(labor)
	out := make([]domain.Project, len(projects))
	for i, p := range projects {
		p.ActualHours = 0
		if s, ok := splits[p.ID]; ok {
			p.ActualHours = s.total()
		}
		out[i] = p
	}
	return out
}

// OverBudgetCount counts projects whose actual hours exceed budget.
func OverBudgetCount(projects []domain.Project) int {
	n := 0
	for _, p := range projects {
		if ProjectBudgetVariance(p).OverBudget() {
			n++
		}
	}
	return n
}

func marginPct(profit, revenue decimal.Decimal) float64 {
	if !revenue.IsPositive() {
		return 0
	}
	return profit.Div(revenue).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func floatMap(m map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v.InexactFloat64()
	}
	return out
}
