package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/service"
)

// FormatAnomalies renders each finding with its baseline, triggers and the
// suggested action.
func FormatAnomalies(findings []service.AnomalyFinding) string {
	var b strings.Builder
	b.WriteString(Header("Expense Anomalies") + "\n\n")

	if len(findings) == 0 {
		b.WriteString(StyleGreen.Render("  ✔ No anomalies against the inflation-adjusted baselines.") + "\n")
		return b.String()
	}

	for i, f := range findings {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s %s %s  %s\n",
			StyleRed.Render("●"),
			Bold(f.Category),
			Money(f.Amount),
			Dim(triggerList(f.Triggers)),
		))
		b.WriteString(fmt.Sprintf("  %s avg %s, inflation-adjusted %s, %s above\n",
			Dim("baseline"),
			Money(f.HistoryAvg),
			Money(f.InflationAdjustedAvg),
			StyleYellow.Render(Pct(f.SpikePercentage)),
		))
		if f.Description != "" {
			b.WriteString("  " + f.Description + "\n")
		}
		if f.SuggestedAction != "" {
			b.WriteString("  " + StyleBlue.Render("→ "+f.SuggestedAction) + "\n")
		}
		if len(f.HistoricalData) > 0 {
			points := make([]string, len(f.HistoricalData))
			for j, p := range f.HistoricalData {
				points[j] = fmt.Sprintf("%s %s", p.Date, Money(p.Amount))
			}
			b.WriteString("  " + Dim("history: "+strings.Join(points, ", ")) + "\n")
		}
	}
	return b.String()
}

// FormatAnomalyReports renders bare detector output as a table.
func FormatAnomalyReports(reports []analytics.AnomalyReport) string {
	if len(reports) == 0 {
		return StyleGreen.Render("✔ No expense anomalies.") + "\n"
	}
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			r.Category,
			Money(r.Amount),
			Money(r.InflationAdjustedAvg),
			StyleYellow.Render(Pct(r.SpikePercentage)),
			triggerList(r.Triggers),
		})
	}
	return RenderTable([]string{"CATEGORY", "AMOUNT", "BASELINE", "SPIKE", "TRIGGERS"}, rows, AlignRight(1, 2, 3))
}

// FormatFlagResult summarizes an invoice flagging pass.
func FormatFlagResult(r *service.FlagResult) string {
	if r.Flagged == 0 && r.Cleared == 0 {
		return Dim("Invoice flags already up to date.") + "\n"
	}
	return fmt.Sprintf("%s Flagged %s invoice(s), cleared %s stale flag(s).\n",
		StyleGreen.Render("✔"), Bold(fmt.Sprint(r.Flagged)), Bold(fmt.Sprint(r.Cleared)))
}

func triggerList(triggers []analytics.AnomalyTrigger) string {
	parts := make([]string, len(triggers))
	for i, t := range triggers {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
