package narration

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sitewise/internal/analytics"
)

const insightSystemPrompt = `You are a construction intelligence analyst. Give direct, objective insights from the data provided.
Never use greetings, letter or email formatting, or signatures. Start with the analysis.
Use Markdown (bold, short lists) to highlight the key points.`

const anomalySystemPrompt = `You are a forensic construction accountant. Be direct and analytical.
Respond with a single JSON object: {"explanation": "...", "action": "..."}.
No greetings, headers or signatures.`

func buildInsightPrompt(req InsightRequest) string {
	var b strings.Builder
	switch req.View {
	case ViewLabor:
		b.WriteString("Analyze construction labor data:\n")
		b.WriteString(laborContext(req))
		b.WriteString("\nGive a concise root-cause insight for a project manager.")
	case ViewAutomation:
		b.WriteString("Analyze the expense anomaly scan:\n")
		b.WriteString(automationContext(req))
		b.WriteString("\nGive a high-urgency forensic insight about cost leakage or data integrity.")
	case ViewFinance:
		if req.Project != nil {
			fmt.Fprintf(&b, "Analyze the financial performance of project **%s**:\n", req.Project.ProjectName)
			b.WriteString(financeContext(req))
			b.WriteString("\nAssess revenue against cost, margin health and labor efficiency, then give specific recommendations.")
		} else {
			b.WriteString("Analyze portfolio financial performance:\n")
			b.WriteString(financeContext(req))
			b.WriteString("\nGive a strategic insight for a CFO about budget adherence and financial risk.")
		}
	}
	return b.String()
}

// contextSummary is the compact form of a view's data used as question
// context.
func contextSummary(req InsightRequest) string {
	switch req.View {
	case ViewLabor:
		return laborContext(req)
	case ViewAutomation:
		return automationContext(req)
	case ViewFinance:
		return financeContext(req)
	}
	return ""
}

func laborContext(req InsightRequest) string {
	var t analytics.LaborTotals
	if req.Labor != nil {
		t = *req.Labor
	}
	return fmt.Sprintf("- Total billable hours: %s\n- Total overhead hours: %s\n- Efficiency: %s\n- Active projects: %s\n",
		hours(t.BillableHours), hours(t.OverheadHours), pct(t.EfficiencyPct()), projectList(t.Projects))
}

func automationContext(req InsightRequest) string {
	cats := analytics.AnomalyCategories(req.Anomalies)
	var b strings.Builder
	fmt.Fprintf(&b, "- Anomalies found: %d\n- Impacted categories: %s\n", len(req.Anomalies), projectList(cats))
	for _, a := range req.Anomalies {
		fmt.Fprintf(&b, "- %s: %s against an average of %s (+%s)\n",
			a.Category, money(a.Amount), money(a.HistoryAvg), pct(a.SpikePercentage))
	}
	return b.String()
}

func financeContext(req InsightRequest) string {
	var b strings.Builder
	if p := req.Project; p != nil {
		fmt.Fprintf(&b, "- Revenue: %s\n- Expenses: %s\n- Labor cost: %s\n- Net profit: %s\n- Profit margin: %s\n",
			money(p.Revenue), money(p.Expenses), money(p.LaborCost), money(p.NetProfit), pct(p.ProfitMargin))
		fmt.Fprintf(&b, "- Billable hours: %s\n- Overhead hours: %s\n", hours(p.BillableHours), hours(p.OverheadHours))
		for _, cat := range sortedCategories(p.ExpenseBreakdown) {
			fmt.Fprintf(&b, "- Expense %s: %s\n", cat, money(p.ExpenseBreakdown[cat]))
		}
		return b.String()
	}
	if s := req.Portfolio; s != nil {
		fmt.Fprintf(&b, "- Total revenue: %s\n- Total costs: %s\n- Net profit: %s\n- Average margin: %s\n",
			money(s.TotalRevenue), money(s.TotalCosts), money(s.TotalProfit), pct(s.AvgMargin))
	}
	fmt.Fprintf(&b, "- Projects over budget: %d\n- Total active projects: %d\n", req.VarianceProjects, req.TotalProjects)
	return b.String()
}

func buildAnomalyPrompt(r analytics.AnomalyReport, inflation float64) string {
	deviation := 0.0
	if r.InflationAdjustedAvg > 0 {
		deviation = (r.Amount - r.InflationAdjustedAvg) / r.InflationAdjustedAvg * 100
	}
	return fmt.Sprintf(`An anomaly was detected in construction expenses:
- Category: %s
- Amount: %s
- Historical average: %s
- Inflation baseline: %s
- Deviation beyond inflation: %s

The %s inflation trend is already accounted for. Explain why this is a risk beyond normal price movement
and give one immediate next step.`,
		r.Category, money(r.Amount), money(r.HistoryAvg), pct(inflation*100), pct(deviation), pct(inflation*100))
}

func projectList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
