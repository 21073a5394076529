// Package export writes analytics results to Excel workbooks.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexanderramin/sitewise/internal/service"
)

// ContentType is the MIME type of the workbooks this package writes.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, in workbook order.
const (
	SheetProductivity = "Productivity"
	SheetPayroll      = "Payroll"
	SheetUnions       = "Unions"
	SheetFinancials   = "Financials"
	SheetVariance     = "Variance"
	SheetAnomalies    = "Anomalies"
)

// numFmtMoney is the built-in "#,##0.00" format.
const numFmtMoney = 4

type table struct {
	name   string
	header []string
	rows   [][]any
	// moneyCols are 1-based columns rendered with two decimals.
	moneyCols []int
}

// Build lays the dashboard out as one sheet per view.
func Build(d *service.Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return nil, fmt.Errorf("creating money style: %w", err)
	}

	tables := []table{
		productivityTable(d),
		payrollTable(d),
		unionsTable(d),
		financialsTable(d),
		varianceTable(d),
		anomaliesTable(d),
	}
	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.name); err != nil {
				return nil, fmt.Errorf("renaming sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.name); err != nil {
			return nil, fmt.Errorf("creating sheet %s: %w", t.name, err)
		}
		if err := writeTable(f, t, bold, money); err != nil {
			return nil, fmt.Errorf("writing sheet %s: %w", t.name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write streams the dashboard workbook to w.
func Write(w io.Writer, d *service.Dashboard) error {
	f, err := Build(d)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// WriteFile saves the dashboard workbook at path.
func WriteFile(path string, d *service.Dashboard) error {
	f, err := Build(d)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeTable(f *excelize.File, t table, headerStyle, moneyStyle int) error {
	header := make([]any, len(t.header))
	for i, h := range t.header {
		header[i] = h
	}
	if err := f.SetSheetRow(t.name, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(t.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.name, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.name, cell, &row); err != nil {
			return err
		}
	}

	if len(t.rows) > 0 {
		for _, col := range t.moneyCols {
			top, err := excelize.CoordinatesToCellName(col, 2)
			if err != nil {
				return err
			}
			bottom, err := excelize.CoordinatesToCellName(col, len(t.rows)+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(t.name, top, bottom, moneyStyle); err != nil {
				return err
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(t.header))
	if err != nil {
		return err
	}
	return f.SetColWidth(t.name, "A", lastCol, 18)
}

func productivityTable(d *service.Dashboard) table {
	t := table{
		name:   SheetProductivity,
		header: []string{"Project ID", "Project", "Billable Hours", "Overhead Hours", "Delta"},
	}
	for _, p := range d.Productivity {
		t.rows = append(t.rows, []any{p.ProjectID, p.ProjectName, p.BillableHours, p.OverheadHours, p.Delta})
	}
	t.rows = append(t.rows, []any{nil, "Total", d.Totals.BillableHours, d.Totals.OverheadHours,
		d.Totals.BillableHours - d.Totals.OverheadHours})
	return t
}

func payrollTable(d *service.Dashboard) table {
	p := d.Payroll
	return table{
		name:   SheetPayroll,
		header: []string{"Metric", "Value"},
		rows: [][]any{
			{"Generated At", d.GeneratedAt.UTC().Format("2006-01-02 15:04:05")},
			{"Active Employees", p.ActiveEmployees},
			{"Projected Weekly Hours", p.ProjectedHours},
			{"Average Hourly Rate", p.AvgHourlyRate},
			{"Estimated Weekly Payroll", p.EstimatedWeeklyPayroll},
		},
	}
}

// unionsTable pivots each union's benefit breakdown into one column per
// benefit type.
func unionsTable(d *service.Dashboard) table {
	seen := make(map[string]bool)
	var benefits []string
	for _, u := range d.Unions {
		for b := range u.BenefitBreakdown {
			if !seen[b] {
				seen[b] = true
				benefits = append(benefits, b)
			}
		}
	}
	sort.Strings(benefits)

	t := table{
		name:   SheetUnions,
		header: append([]string{"Union ID", "Union", "Total Liability"}, benefits...),
	}
	for i := range benefits {
		t.moneyCols = append(t.moneyCols, 4+i)
	}
	t.moneyCols = append(t.moneyCols, 3)
	for _, u := range d.Unions {
		row := []any{u.UnionID, u.UnionName, u.TotalLiability}
		for _, b := range benefits {
			row = append(row, u.BenefitBreakdown[b])
		}
		t.rows = append(t.rows, row)
	}
	return t
}

func financialsTable(d *service.Dashboard) table {
	t := table{
		name: SheetFinancials,
		header: []string{"Project ID", "Project", "Revenue", "Expenses", "Labor Cost", "Billable Cost",
			"Overhead Cost", "Total Costs", "Net Profit", "Margin %", "Expense Breakdown"},
		moneyCols: []int{3, 4, 5, 6, 7, 8, 9},
	}
	for _, r := range d.Financials {
		t.rows = append(t.rows, []any{r.ProjectID, r.ProjectName, r.Revenue, r.Expenses, r.LaborCost,
			r.BillableCost, r.OverheadCost, r.TotalCosts, r.NetProfit, r.ProfitMargin, breakdown(r.ExpenseBreakdown)})
	}
	s := d.Portfolio
	t.rows = append(t.rows, []any{nil, "Portfolio", s.TotalRevenue, nil, nil, nil, nil, s.TotalCosts,
		s.TotalProfit, s.AvgMargin, nil})
	return t
}

func varianceTable(d *service.Dashboard) table {
	t := table{
		name:   SheetVariance,
		header: []string{"Project ID", "Project", "Actual Hours", "Budget Hours", "Variance", "Over Budget"},
	}
	for _, v := range d.Variance {
		t.rows = append(t.rows, []any{v.ProjectID, v.ProjectName, v.ActualHours, v.BudgetHours, v.Variance, overBudget(v.Variance)})
	}
	return t
}

func anomaliesTable(d *service.Dashboard) table {
	t := table{
		name: SheetAnomalies,
		header: []string{"Category", "Amount", "History Avg", "Inflation-Adjusted Avg", "Spike %",
			"Z-Score", "Triggers", "Description"},
		moneyCols: []int{2, 3, 4},
	}
	for _, a := range d.Anomalies {
		triggers := make([]string, len(a.Triggers))
		for i, tr := range a.Triggers {
			triggers[i] = string(tr)
		}
		t.rows = append(t.rows, []any{a.Category, a.Amount, a.HistoryAvg, a.InflationAdjustedAvg,
			a.SpikePercentage, a.ZScore, strings.Join(triggers, ", "), a.Description})
	}
	return t
}

func overBudget(variance float64) string {
	if variance > 0 {
		return "yes"
	}
	return "no"
}

// breakdown renders "category: amount" pairs sorted by category.
func breakdown(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %.2f", k, m[k])
	}
	return strings.Join(parts, "; ")
}
