package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/db"
	"github.com/alexanderramin/sitewise/internal/domain"
	"github.com/alexanderramin/sitewise/internal/narration"
	"github.com/alexanderramin/sitewise/internal/repository"
)

// HistoryPoint is one invoice of an anomaly's category.
type HistoryPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// AnomalyFinding is a detected anomaly with its category history and a
// narrated explanation.
type AnomalyFinding struct {
	analytics.AnomalyReport
	HistoricalData  []HistoryPoint `json:"historical_data"`
	SuggestedAction string         `json:"suggested_action"`
}

// FlagResult counts the invoices whose anomaly flag changed.
type FlagResult struct {
	Flagged int `json:"flagged"`
	Cleared int `json:"cleared"`
}

// AnomalyAnalyzer explains a detected anomaly.
type AnomalyAnalyzer interface {
	AnalyzeAnomaly(ctx context.Context, report analytics.AnomalyReport) narration.AnomalyAnalysis
}

type anomalyService struct {
	invoices repository.InvoiceRepo
	uow      db.UnitOfWork
	analyzer AnomalyAnalyzer
	cfg      analytics.Config
	observer UseCaseObserver
}

// NewAnomalyService wires the expense anomaly use cases. analyzer may be
// nil, in which case findings carry the detector's description and a
// standard review action.
func NewAnomalyService(
	invoices repository.InvoiceRepo,
	uow db.UnitOfWork,
	analyzer AnomalyAnalyzer,
	cfg analytics.Config,
	observers ...UseCaseObserver,
) AnomalyService {
	return &anomalyService{
		invoices: invoices,
		uow:      uow,
		analyzer: analyzer,
		cfg:      cfg,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Detect runs the detector over every invoice without narration.
func (s *anomalyService) Detect(ctx context.Context) ([]analytics.AnomalyReport, error) {
	invoices, err := s.invoices.List(ctx, repository.InvoiceFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return analytics.DetectExpenseAnomalies(invoiceExpenses(invoices), s.cfg.AnnualInflation), nil
}

func (s *anomalyService) Scan(ctx context.Context) (out []AnomalyFinding, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "anomaly-scan", startedAt, fields, &err)

	invoices, err := s.invoices.List(ctx, repository.InvoiceFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	reports := analytics.DetectExpenseAnomalies(invoiceExpenses(invoices), s.cfg.AnnualInflation)
	history := historyByCategory(invoices)

	out = make([]AnomalyFinding, 0, len(reports))
	for _, r := range reports {
		finding := AnomalyFinding{
			AnomalyReport:   r,
			HistoricalData:  history[r.Category],
			SuggestedAction: defaultAnomalyAction(r.Category),
		}
		if s.analyzer != nil {
			analysis := s.analyzer.AnalyzeAnomaly(ctx, r)
			finding.Description = domain.CoalesceStr(analysis.Explanation, r.Description)
			finding.SuggestedAction = domain.CoalesceStr(analysis.Action, finding.SuggestedAction)
		}
		out = append(out, finding)
	}
	fields["invoice_count"] = len(invoices)
	fields["anomaly_count"] = len(out)
	return out, nil
}

// Flag writes the current detection result onto the invoices table in one
// transaction: matching invoices are flagged with the detector's
// description, and stale flags are cleared.
func (s *anomalyService) Flag(ctx context.Context) (result *FlagResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "anomaly-flag", startedAt, fields, &err)

	result = &FlagResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		invoices := repository.NewSQLiteInvoiceRepo(tx)
		all, err := invoices.List(ctx, repository.InvoiceFilter{})
		if err != nil {
			return fmt.Errorf("listing invoices: %w", err)
		}

		descriptions := make(map[expenseKey]string)
		for _, r := range analytics.DetectExpenseAnomalies(invoiceExpenses(all), s.cfg.AnnualInflation) {
			descriptions[expenseKey{r.Category, r.Amount}] = r.Description
		}

		for _, inv := range all {
			desc, flagged := descriptions[expenseKey{inv.Category, inv.Amount}]
			if inv.AnomalyFlag == flagged && inv.AnomalyDescription == desc {
				continue
			}
			if err := invoices.SetAnomaly(ctx, inv.ID, flagged, desc); err != nil {
				return fmt.Errorf("flagging invoice %d: %w", inv.ID, err)
			}
			if flagged {
				result.Flagged++
			} else {
				result.Cleared++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["flagged"] = result.Flagged
	fields["cleared"] = result.Cleared
	return result, nil
}

type expenseKey struct {
	category string
	amount   float64
}

func invoiceExpenses(invoices []domain.Invoice) []analytics.Expense {
	out := make([]analytics.Expense, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, analytics.Expense{Category: inv.Category, Amount: inv.Amount})
	}
	return out
}

// historyByCategory keeps the repository's date order.
func historyByCategory(invoices []domain.Invoice) map[string][]HistoryPoint {
	out := make(map[string][]HistoryPoint)
	for _, inv := range invoices {
		out[inv.Category] = append(out[inv.Category], HistoryPoint{
			Date:   inv.Date.Format("2006-01-02"),
			Amount: inv.Amount,
		})
	}
	return out
}

func defaultAnomalyAction(category string) string {
	return fmt.Sprintf("Review recent %s invoices against supplier quotes and confirm the quantities billed.", category)
}
