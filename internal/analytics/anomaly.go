package analytics

import (
	"fmt"
	"sort"
)

const (
	// deviationThreshold is the z-score above which an amount is an outlier.
	deviationThreshold = 2.0
	// inflationMargin is the allowance on top of inflation before an amount
	// counts as a spike.
	inflationMargin = 0.15
	// minCategorySamples is the smallest sample with a defined variance.
	minCategorySamples = 2
)

// Expense is the minimal shape the detector needs from an invoice.
type Expense struct {
	Category string
	Amount   float64
}

type AnomalyTrigger string

const (
	TriggerDeviation       AnomalyTrigger = "std_deviation"
	TriggerInflationMargin AnomalyTrigger = "inflation_margin"
)

// AnomalyReport describes one flagged expense amount.
type AnomalyReport struct {
	Category             string           `json:"category"`
	Amount               float64          `json:"amount"`
	HistoryAvg           float64          `json:"history_avg"`
	InflationAdjustedAvg float64          `json:"inflation_adjusted_avg"`
	SpikePercentage      float64          `json:"spike_percentage"`
	ZScore               float64          `json:"z_score"`
	Triggers             []AnomalyTrigger `json:"triggers"`
	Description          string           `json:"description"`
}

// CategoryBaseline is the per-category statistic an anomaly is judged against.
type CategoryBaseline struct {
	Category             string
	Samples              int
	Avg                  float64
	StdDev               float64
	InflationAdjustedAvg float64
	SpikeThreshold       float64
}

// CategoryBaselines computes the baseline of every category with at least
// two samples, ordered by category name.
func CategoryBaselines(expenses []Expense, annualInflation float64) []CategoryBaseline {
	grouped := groupAmounts(expenses)
	categories := sortedKeys(grouped)

	baselines := make([]CategoryBaseline, 0, len(categories))
	for _, cat := range categories {
		amounts := grouped[cat]
		if len(amounts) < minCategorySamples {
			continue
		}
		sorted := sortedCopy(amounts)
		avg := mean(sorted)
		baselines = append(baselines, CategoryBaseline{
			Category:             cat,
			Samples:              len(sorted),
			Avg:                  avg,
			StdDev:               sampleStdDev(sorted, avg),
			InflationAdjustedAvg: avg * (1 + annualInflation),
			SpikeThreshold:       avg * (1 + annualInflation + inflationMargin),
		})
	}
	return baselines
}

// DetectExpenseAnomalies flags amounts that sit more than two standard
// deviations above their category mean, or above the inflation-adjusted
// mean plus a 15% margin. Categories with a single sample are skipped.
//
// Output is ordered by category name, then by amount descending, so any
// permutation of the same input yields the same result. Every qualifying
// amount is reported, duplicates included.
func DetectExpenseAnomalies(expenses []Expense, annualInflation float64) []AnomalyReport {
	grouped := groupAmounts(expenses)

	var reports []AnomalyReport
	for _, base := range CategoryBaselines(expenses, annualInflation) {
		amounts := sortedCopy(grouped[base.Category])
		for i := len(amounts) - 1; i >= 0; i-- {
			amount := amounts[i]
			triggers, z := classify(amount, base)
			if len(triggers) == 0 {
				continue
			}
			reports = append(reports, AnomalyReport{
				Category:             base.Category,
				Amount:               amount,
				HistoryAvg:           base.Avg,
				InflationAdjustedAvg: base.InflationAdjustedAvg,
				SpikePercentage:      round1(safeRatio(amount-base.Avg, base.Avg) * 100),
				ZScore:               z,
				Triggers:             triggers,
				Description:          spikeDescription(base.Category, annualInflation),
			})
		}
	}
	return reports
}

func classify(amount float64, base CategoryBaseline) ([]AnomalyTrigger, float64) {
	var triggers []AnomalyTrigger
	var z float64
	if base.StdDev > 0 {
		z = (amount - base.Avg) / base.StdDev
		if z > deviationThreshold {
			triggers = append(triggers, TriggerDeviation)
		}
	}
	if amount > base.SpikeThreshold {
		triggers = append(triggers, TriggerInflationMargin)
	}
	return triggers, z
}

func spikeDescription(category string, annualInflation float64) string {
	return fmt.Sprintf("Significant spike in %s expenses, exceeding the %.1f%% annual inflation baseline.",
		category, annualInflation*100)
}

func groupAmounts(expenses []Expense) map[string][]float64 {
	grouped := make(map[string][]float64)
	for _, e := range expenses {
		grouped[e.Category] = append(grouped[e.Category], e.Amount)
	}
	return grouped
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AnomalyCategories returns the distinct categories of the reports in order.
func AnomalyCategories(reports []AnomalyReport) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, r := range reports {
		if !seen[r.Category] {
			seen[r.Category] = true
			cats = append(cats, r.Category)
		}
	}
	return cats
}
