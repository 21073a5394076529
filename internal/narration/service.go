package narration

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/llm"
)

type service struct {
	client    llm.LLMClient
	cfg       llm.LLMConfig
	inflation float64
}

// New returns a narration Service. A nil client, or a configuration that
// cannot make calls, yields deterministic text for every request.
func New(client llm.LLMClient, cfg llm.LLMConfig, annualInflation float64) Service {
	cfg = cfg.Normalize()
	if !cfg.Configured() {
		client = nil
	}
	return &service{client: client, cfg: cfg, inflation: annualInflation}
}

func (s *service) Config() ProviderInfo {
	return ProviderInfo{
		Provider:   s.cfg.Provider,
		Model:      s.cfg.Model,
		Enabled:    s.cfg.Enabled,
		Configured: s.client != nil,
	}
}

func (s *service) GenerateInsight(ctx context.Context, req InsightRequest) (*Insight, error) {
	if _, err := ParseView(string(req.View)); err != nil {
		return nil, err
	}
	out := &Insight{View: req.View, Text: DeterministicInsight(req), Source: SourceFallback}
	if s.client == nil {
		return out, nil
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskInsight,
		SystemPrompt: insightSystemPrompt,
		UserPrompt:   buildInsightPrompt(req),
	})
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		return out, nil
	}
	out.Text = strings.TrimSpace(resp.Text)
	out.Source = SourceLLM
	return out, nil
}

func (s *service) AskQuestion(ctx context.Context, req InsightRequest, question string, history []Message) (*Insight, error) {
	if _, err := ParseView(string(req.View)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question is empty")
	}
	if s.client == nil {
		return &Insight{View: req.View, Text: DeterministicInsight(req), Source: SourceFallback}, nil
	}

	turns := make([]Message, 0, len(history))
	for _, m := range history {
		role := "assistant"
		if m.Role == "user" {
			role = "user"
		}
		turns = append(turns, Message{Role: role, Content: m.Content})
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task: llm.TaskQuestion,
		SystemPrompt: "You are a construction intelligence analyst. Answer directly from the context below. " +
			"No greetings or sign-offs.\n\nContext:\n" + contextSummary(req),
		UserPrompt: question,
		History:    turns,
	})
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		return &Insight{View: req.View, Text: DeterministicInsight(req), Source: SourceFallback}, nil
	}
	return &Insight{View: req.View, Text: strings.TrimSpace(resp.Text), Source: SourceLLM}, nil
}

type anomalyResponse struct {
	Explanation string `json:"explanation"`
	Action      string `json:"action"`
}

func validateAnomalyResponse(r anomalyResponse) error {
	if strings.TrimSpace(r.Explanation) == "" {
		return fmt.Errorf("explanation field is required")
	}
	return nil
}

func (s *service) AnalyzeAnomaly(ctx context.Context, report analytics.AnomalyReport) AnomalyAnalysis {
	if s.client == nil {
		return DeterministicAnomaly(report, s.inflation)
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskAnomaly,
		SystemPrompt: anomalySystemPrompt,
		UserPrompt:   buildAnomalyPrompt(report, s.inflation),
	})
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		return DeterministicAnomaly(report, s.inflation)
	}

	if parsed, err := llm.ExtractJSON(resp.Text, validateAnomalyResponse); err == nil {
		action := strings.TrimSpace(parsed.Action)
		if action == "" {
			action = unparsedAnomalyAction
		}
		return AnomalyAnalysis{Explanation: strings.TrimSpace(parsed.Explanation), Action: action, Source: SourceLLM}
	}
	explanation, action := splitAction(resp.Text)
	return AnomalyAnalysis{Explanation: explanation, Action: action, Source: SourceLLM}
}
