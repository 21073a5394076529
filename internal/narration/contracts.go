// Package narration turns analytics summaries into prose, through a
// language model when one is configured and deterministic text otherwise.
package narration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/llm"
)

// View names the dashboard area an insight is written for.
type View string

const (
	ViewLabor      View = "labor"
	ViewAutomation View = "automation"
	ViewFinance    View = "finance"
)

var ErrUnknownView = errors.New("unknown insight view")

// ParseView accepts a view name case-insensitively.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case ViewLabor, ViewAutomation, ViewFinance:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// Source records whether text came from the model or the fallback.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

type Message = llm.Message

// InsightRequest carries the engine summary for one view. Only the fields of
// the requested view are read. The finance view narrates Project when set
// and the portfolio otherwise.
type InsightRequest struct {
	View View

	Labor *analytics.LaborTotals

	Anomalies []analytics.AnomalyReport

	Project          *analytics.FinancialReport
	Portfolio        *analytics.PortfolioSummary
	VarianceProjects int
	TotalProjects    int
}

type Insight struct {
	View   View   `json:"view"`
	Text   string `json:"insight"`
	Source Source `json:"source"`
}

type AnomalyAnalysis struct {
	Explanation string `json:"explanation"`
	Action      string `json:"suggested_action"`
	Source      Source `json:"source"`
}

// ProviderInfo describes the configured model for display.
type ProviderInfo struct {
	Provider   llm.Provider `json:"provider"`
	Model      string       `json:"model"`
	Enabled    bool         `json:"enabled"`
	Configured bool         `json:"configured"`
}

type Service interface {
	GenerateInsight(ctx context.Context, req InsightRequest) (*Insight, error)

	// AskQuestion answers a free-form question with the view's summary as
	// context. History holds earlier turns, oldest first.
	AskQuestion(ctx context.Context, req InsightRequest, question string, history []Message) (*Insight, error)

	AnalyzeAnomaly(ctx context.Context, report analytics.AnomalyReport) AnomalyAnalysis

	Config() ProviderInfo
}
