package narration

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/sitewise/internal/analytics"
)

const (
	fallbackAnomalyAction = "Audit the vendor for duplicate billing."
	unparsedAnomalyAction = "Review with the accounting department."
)

// DeterministicInsight writes a short summary of the view from the numbers
// alone.
func DeterministicInsight(req InsightRequest) string {
	switch req.View {
	case ViewLabor:
		var t analytics.LaborTotals
		if req.Labor != nil {
			t = *req.Labor
		}
		return fmt.Sprintf("**Labor efficiency %s** across %d project(s): %s billable vs %s overhead hours.",
			pct(t.EfficiencyPct()), len(t.Projects), hours(t.BillableHours), hours(t.OverheadHours))

	case ViewAutomation:
		if len(req.Anomalies) == 0 {
			return "**No expense anomalies** detected against the inflation-adjusted baselines."
		}
		top := req.Anomalies[0]
		for _, a := range req.Anomalies[1:] {
			if a.SpikePercentage > top.SpikePercentage {
				top = a
			}
		}
		return fmt.Sprintf("**%d expense anomaly(ies)** in %s. Largest spike: %s at %s, %s above its average.",
			len(req.Anomalies), strings.Join(analytics.AnomalyCategories(req.Anomalies), ", "),
			top.Category, money(top.Amount), pct(top.SpikePercentage))

	case ViewFinance:
		if p := req.Project; p != nil {
			return fmt.Sprintf("**%s** earned %s against %s in costs: net %s at a %s margin.",
				p.ProjectName, money(p.Revenue), money(p.TotalCosts), money(p.NetProfit), pct(p.ProfitMargin))
		}
		var b strings.Builder
		if s := req.Portfolio; s != nil {
			fmt.Fprintf(&b, "**Portfolio margin %s**: %s profit on %s revenue. ",
				pct(s.AvgMargin), money(s.TotalProfit), money(s.TotalRevenue))
		}
		fmt.Fprintf(&b, "%d of %d project(s) are over their hour budget.", req.VarianceProjects, req.TotalProjects)
		return b.String()
	}
	return ""
}

// DeterministicAnomaly explains an anomaly without a model.
func DeterministicAnomaly(r analytics.AnomalyReport, inflation float64) AnomalyAnalysis {
	return AnomalyAnalysis{
		Explanation: fmt.Sprintf("Anomaly detected in %s. Amount %s exceeds the %s inflation-adjusted baseline of %s.",
			r.Category, money(r.Amount), pct(inflation*100), money(r.InflationAdjustedAvg)),
		Action: fallbackAnomalyAction,
		Source: SourceFallback,
	}
}

// splitAction separates "explanation ACTION: action" text. Without the
// marker the whole text is the explanation.
func splitAction(text string) (string, string) {
	explanation, action, found := strings.Cut(text, "ACTION:")
	if !found {
		return strings.TrimSpace(text), unparsedAnomalyAction
	}
	return strings.TrimSpace(explanation), strings.TrimSpace(action)
}

func sortedCategories(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
