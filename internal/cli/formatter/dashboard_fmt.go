package formatter

import (
	"strings"

	"github.com/alexanderramin/sitewise/internal/service"
)

// DashboardSection names one tab of the dashboard.
type DashboardSection string

const (
	SectionLabor     DashboardSection = "Labor"
	SectionPayroll   DashboardSection = "Payroll"
	SectionUnions    DashboardSection = "Unions"
	SectionFinance   DashboardSection = "Finance"
	SectionAnomalies DashboardSection = "Anomalies"
)

// DashboardSections lists the sections in display order.
var DashboardSections = []DashboardSection{
	SectionLabor, SectionPayroll, SectionUnions, SectionFinance, SectionAnomalies,
}

// FormatDashboardSection renders one section of a computed dashboard.
func FormatDashboardSection(d *service.Dashboard, section DashboardSection, windowDays int) string {
	switch section {
	case SectionLabor:
		return FormatProductivity(d.Productivity, d.Totals)
	case SectionPayroll:
		return FormatPayroll(d.Payroll, windowDays)
	case SectionUnions:
		return FormatUnions(d.Unions)
	case SectionFinance:
		over := 0
		for _, v := range d.Variance {
			if v.Variance > 0 {
				over++
			}
		}
		return FormatPortfolio(&service.PortfolioView{
			Summary:          d.Portfolio,
			Projects:         d.Financials,
			VarianceProjects: over,
			TotalProjects:    len(d.Variance),
		}) + "\n" + FormatVariance(d.Variance)
	case SectionAnomalies:
		return Header("Expense Anomalies") + "\n\n" + FormatAnomalyReports(d.Anomalies)
	}
	return ""
}

// FormatDashboard renders every section one after another.
func FormatDashboard(d *service.Dashboard, windowDays int) string {
	parts := make([]string, 0, len(DashboardSections)+1)
	parts = append(parts, Dim("Generated "+d.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")))
	for _, s := range DashboardSections {
		parts = append(parts, FormatDashboardSection(d, s, windowDays))
	}
	return strings.Join(parts, "\n\n")
}
