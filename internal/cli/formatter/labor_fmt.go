package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/service"
)

// FormatProductivity renders per-project billable and overhead hours with
// the portfolio totals underneath.
func FormatProductivity(stats []analytics.ProjectProductivity, totals analytics.LaborTotals) string {
	var b strings.Builder
	b.WriteString(Header("Labor Productivity") + "\n\n")

	if len(stats) == 0 {
		b.WriteString(Dim("  No projects recorded.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		total := s.BillableHours + s.OverheadHours
		eff := 0.0
		if total > 0 {
			eff = s.BillableHours / total * 100
		}
		rows = append(rows, []string{
			strconv.FormatInt(s.ProjectID, 10),
			Truncate(s.ProjectName, 28),
			Hours(s.BillableHours),
			Hours(s.OverheadHours),
			Hours(s.Delta),
			RenderEfficiency(eff, 10),
		})
	}
	b.WriteString(RenderTable(
		[]string{"ID", "PROJECT", "BILLABLE", "OVERHEAD", "DELTA", "EFFICIENCY"},
		rows, AlignRight(0, 2, 3, 4)))

	b.WriteString(fmt.Sprintf("\n%s %s billable  %s overhead  %s\n",
		Dim("Total    "),
		Bold(Hours(totals.BillableHours)),
		Hours(totals.OverheadHours),
		RenderEfficiency(totals.EfficiencyPct(), 10),
	))
	return b.String()
}

// FormatEmployees renders the per-employee hour roll-up.
func FormatEmployees(details []service.EmployeeDetail) string {
	var b strings.Builder
	b.WriteString(Header("Employees") + "\n\n")

	if len(details) == 0 {
		b.WriteString(Dim("  No labor recorded.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(details))
	for _, d := range details {
		rows = append(rows, []string{
			StyleGreen.Render(d.EmployeeID),
			d.EmployeeName,
			Hours(d.TotalHours),
			strconv.Itoa(d.DaysWorked),
			Money(d.Salary),
		})
	}
	b.WriteString(RenderTable(
		[]string{"ID", "NAME", "HOURS", "DAYS", "PAY"},
		rows, AlignRight(2, 3, 4)))
	b.WriteString(fmt.Sprintf("\n%s\n", Dim(fmt.Sprintf("%d employee(s)", len(details)))))
	return b.String()
}

// FormatPayroll renders the weekly payroll projection.
func FormatPayroll(est analytics.PayrollEstimate, windowDays int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Active employees "), Bold(strconv.Itoa(est.ActiveEmployees))))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Projected hours  "), Hours(est.ProjectedHours)+Dim(" / week")))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Hourly rate      "), Money(est.AvgHourlyRate)))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Weekly payroll   "), StyleGreen.Render(Money(est.EstimatedWeeklyPayroll))))
	b.WriteString("\n" + Dim(fmt.Sprintf("Based on the last %d days of labor.", windowDays)))
	return RenderBox("Payroll Estimate", b.String()) + "\n"
}

// FormatUnions renders each union's liability with its benefit breakdown.
func FormatUnions(liabilities []analytics.UnionLiability) string {
	var b strings.Builder
	b.WriteString(Header("Union Reconciliation") + "\n\n")

	if len(liabilities) == 0 {
		b.WriteString(Dim("  No unions configured.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(liabilities))
	total := 0.0
	for _, u := range liabilities {
		total += u.TotalLiability
		rows = append(rows, []string{
			u.UnionName,
			Bold(Money(u.TotalLiability)),
			benefitSummary(u.BenefitBreakdown),
		})
	}
	b.WriteString(RenderTable([]string{"UNION", "LIABILITY", "BENEFITS"}, rows, AlignRight(1)))
	b.WriteString(fmt.Sprintf("\n%s %s\n", Dim("Total owed"), Bold(Money(total))))
	return b.String()
}

func benefitSummary(m map[string]float64) string {
	if len(m) == 0 {
		return Dim("--")
	}
	keys := sortedKeys(m)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s %s", Dim(k), Money(m[k]))
	}
	return strings.Join(parts, "  ")
}
