package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/service"
)

// FormatVariance renders actual against budgeted hours per project.
func FormatVariance(variances []analytics.BudgetVariance) string {
	var b strings.Builder
	b.WriteString(Header("Budget Variance") + "\n\n")

	if len(variances) == 0 {
		b.WriteString(Dim("  No projects recorded.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(variances))
	over := 0
	for _, v := range variances {
		if v.Variance > 0 {
			over++
		}
		rows = append(rows, []string{
			strconv.FormatInt(v.ProjectID, 10),
			Truncate(v.ProjectName, 28),
			Hours(v.ActualHours),
			Hours(v.BudgetHours),
			VarianceStyle(v.Variance).Render(SignedHours(v.Variance)),
			RenderBudgetUsage(v.ActualHours, v.BudgetHours, 10),
		})
	}
	b.WriteString(RenderTable(
		[]string{"ID", "PROJECT", "ACTUAL", "BUDGET", "VARIANCE", "USAGE"},
		rows, AlignRight(0, 2, 3, 4)))
	b.WriteString(fmt.Sprintf("\n%s\n", Dim(fmt.Sprintf("%d of %d project(s) over budget", over, len(variances)))))
	return b.String()
}

// FormatFinancials renders one card per project report.
func FormatFinancials(reports []analytics.FinancialReport) string {
	if len(reports) == 0 {
		return Header("Project Financials") + "\n\n" + Dim("  No projects recorded.") + "\n"
	}
	cards := make([]string, 0, len(reports))
	for _, r := range reports {
		cards = append(cards, RenderBox(r.ProjectName, financialCard(r)))
	}
	return strings.Join(cards, "\n") + "\n"
}

func financialCard(r analytics.FinancialReport) string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim(fmt.Sprintf("%-14s", label)), value))
	}
	line("Revenue", StyleGreen.Render(Money(r.Revenue)))
	line("Expenses", Money(r.Expenses))
	for _, cat := range sortedKeys(r.ExpenseBreakdown) {
		line("  "+cat, Dim(Money(r.ExpenseBreakdown[cat])))
	}
	line("Labor cost", fmt.Sprintf("%s %s", Money(r.LaborCost),
		Dim(fmt.Sprintf("(%s billable, %s overhead)", Hours(r.BillableHours), Hours(r.OverheadHours)))))
	line("Total costs", Money(r.TotalCosts))
	profit := StyleGreen
	if r.NetProfit < 0 {
		profit = StyleRed
	}
	line("Net profit", profit.Render(Money(r.NetProfit)))
	b.WriteString(fmt.Sprintf("%s %s", Dim(fmt.Sprintf("%-14s", "Margin")), MarginStyle(r.ProfitMargin).Render(Pct(r.ProfitMargin))))
	return b.String()
}

// FormatPortfolio renders the all-projects roll-up and a compact per-project
// table.
func FormatPortfolio(view *service.PortfolioView) string {
	var b strings.Builder
	s := view.Summary
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Projects     "), Bold(strconv.Itoa(s.Projects))))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Revenue      "), StyleGreen.Render(Money(s.TotalRevenue))))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Costs        "), Money(s.TotalCosts)))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Profit       "), Bold(Money(s.TotalProfit))))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Avg margin   "), MarginStyle(s.AvgMargin).Render(Pct(s.AvgMargin))))
	b.WriteString(fmt.Sprintf("%s %s", Dim("Over budget  "),
		VarianceStyle(float64(view.VarianceProjects)).Render(fmt.Sprintf("%d of %d", view.VarianceProjects, view.TotalProjects))))

	out := RenderBox("Portfolio", b.String()) + "\n"
	if len(view.Projects) == 0 {
		return out
	}

	rows := make([][]string, 0, len(view.Projects))
	for _, r := range view.Projects {
		rows = append(rows, []string{
			Truncate(r.ProjectName, 28),
			Money(r.Revenue),
			Money(r.TotalCosts),
			Money(r.NetProfit),
			MarginStyle(r.ProfitMargin).Render(Pct(r.ProfitMargin)),
		})
	}
	return out + "\n" + RenderTable(
		[]string{"PROJECT", "REVENUE", "COSTS", "PROFIT", "MARGIN"},
		rows, AlignRight(1, 2, 3, 4))
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
