package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sitewise/internal/narration"
)

// InsightRequest selects the view to narrate. ProjectID narrows the finance
// view to a single project. A non-empty Query asks a question about the
// view instead of requesting a general insight.
type InsightRequest struct {
	View      narration.View
	ProjectID *int64
	Query     string
	History   []narration.Message
}

// InsightGenerator turns an engine summary into prose.
type InsightGenerator interface {
	GenerateInsight(ctx context.Context, req narration.InsightRequest) (*narration.Insight, error)
	AskQuestion(ctx context.Context, req narration.InsightRequest, question string, history []narration.Message) (*narration.Insight, error)
}

type insightService struct {
	labor     LaborService
	finance   FinanceService
	anomalies AnomalyService
	generator InsightGenerator
	observer  UseCaseObserver
}

func NewInsightService(
	labor LaborService,
	finance FinanceService,
	anomalies AnomalyService,
	generator InsightGenerator,
	observers ...UseCaseObserver,
) InsightService {
	return &insightService{
		labor:     labor,
		finance:   finance,
		anomalies: anomalies,
		generator: generator,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *insightService) Insight(ctx context.Context, req InsightRequest) (insight *narration.Insight, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"view": string(req.View)}
	defer observe(ctx, s.observer, "agent-insight", startedAt, fields, &err)

	nreq := narration.InsightRequest{View: req.View}
	switch req.View {
	case narration.ViewLabor:
		totals, err := s.labor.Totals(ctx)
		if err != nil {
			return nil, err
		}
		nreq.Labor = &totals

	case narration.ViewAutomation:
		reports, err := s.anomalies.Detect(ctx)
		if err != nil {
			return nil, err
		}
		nreq.Anomalies = reports

	case narration.ViewFinance:
		if req.ProjectID != nil {
			fields["project_id"] = *req.ProjectID
			reports, err := s.finance.ProjectAnalytics(ctx, req.ProjectID)
			if err != nil {
				return nil, err
			}
			nreq.Project = &reports[0]
			break
		}
		view, err := s.finance.Portfolio(ctx)
		if err != nil {
			return nil, err
		}
		nreq.Portfolio = &view.Summary
		nreq.VarianceProjects = view.VarianceProjects
		nreq.TotalProjects = view.TotalProjects

	default:
		return nil, fmt.Errorf("%w: %q", narration.ErrUnknownView, req.View)
	}

	if req.Query != "" {
		fields["question"] = true
		insight, err = s.generator.AskQuestion(ctx, nreq, req.Query, req.History)
	} else {
		insight, err = s.generator.GenerateInsight(ctx, nreq)
	}
	if err != nil {
		return nil, fmt.Errorf("generating %s insight: %w", req.View, err)
	}
	fields["source"] = string(insight.Source)
	return insight, nil
}
