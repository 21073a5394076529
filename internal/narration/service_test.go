package narration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/llm"
)

type stubLLMClient struct {
	text     string
	err      error
	requests []llm.GenerateRequest
}

func (m *stubLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.text, Model: "test-model"}, nil
}

func (m *stubLLMClient) Available(context.Context) bool { return m.err == nil }

func enabledConfig() llm.LLMConfig {
	cfg := llm.DefaultConfig()
	cfg.Enabled = true
	return cfg
}

func concreteSpike() analytics.AnomalyReport {
	return analytics.AnomalyReport{
		Category:             "concrete",
		Amount:               5000,
		HistoryAvg:           2000,
		InflationAdjustedAvg: 2100,
		SpikePercentage:      150,
	}
}

func laborRequest() InsightRequest {
	return InsightRequest{
		View:  ViewLabor,
		Labor: &analytics.LaborTotals{BillableHours: 60, OverheadHours: 10, Projects: []string{"Riverside Plaza", "Harbor Tower"}},
	}
}

func TestParseView(t *testing.T) {
	v, err := ParseView(" Finance ")
	require.NoError(t, err)
	assert.Equal(t, ViewFinance, v)

	_, err = ParseView("weather")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestGenerateInsight_UsesModelText(t *testing.T) {
	client := &stubLLMClient{text: "  **Overhead is low.**  "}
	svc := New(client, enabledConfig(), 0.05)

	insight, err := svc.GenerateInsight(context.Background(), laborRequest())

	require.NoError(t, err)
	assert.Equal(t, SourceLLM, insight.Source)
	assert.Equal(t, "**Overhead is low.**", insight.Text)
	require.Len(t, client.requests, 1)
	assert.Equal(t, llm.TaskInsight, client.requests[0].Task)
	assert.Contains(t, client.requests[0].UserPrompt, "Total billable hours: 60.0")
	assert.Contains(t, client.requests[0].UserPrompt, "Riverside Plaza, Harbor Tower")
}

func TestGenerateInsight_FallbackWhenModelFails(t *testing.T) {
	svc := New(&stubLLMClient{err: llm.ErrUnavailable}, enabledConfig(), 0.05)

	insight, err := svc.GenerateInsight(context.Background(), laborRequest())

	require.NoError(t, err)
	assert.Equal(t, SourceFallback, insight.Source)
	assert.Equal(t, "**Labor efficiency 85.7%** across 2 project(s): 60.0 billable vs 10.0 overhead hours.", insight.Text)
}

func TestGenerateInsight_DisabledNeverCallsModel(t *testing.T) {
	client := &stubLLMClient{text: "should not be used"}
	svc := New(client, llm.DefaultConfig(), 0.05)

	insight, err := svc.GenerateInsight(context.Background(), InsightRequest{View: ViewAutomation})

	require.NoError(t, err)
	assert.Equal(t, SourceFallback, insight.Source)
	assert.Contains(t, insight.Text, "No expense anomalies")
	assert.Empty(t, client.requests)
}

func TestGenerateInsight_OpenAIWithoutKeyFallsBack(t *testing.T) {
	cfg := enabledConfig()
	cfg.Provider = llm.ProviderOpenAI
	client := &stubLLMClient{text: "unused"}
	svc := New(client, cfg, 0.05)

	insight, err := svc.GenerateInsight(context.Background(), InsightRequest{View: ViewFinance, VarianceProjects: 1, TotalProjects: 3})

	require.NoError(t, err)
	assert.Equal(t, SourceFallback, insight.Source)
	assert.Equal(t, "1 of 3 project(s) are over their hour budget.", insight.Text)
	assert.Empty(t, client.requests)
	assert.False(t, svc.Config().Configured)
	assert.Equal(t, llm.DefaultOpenAIModel, svc.Config().Model)
}

func TestGenerateInsight_UnknownView(t *testing.T) {
	svc := New(nil, llm.DefaultConfig(), 0.05)
	_, err := svc.GenerateInsight(context.Background(), InsightRequest{View: "weather"})
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestGenerateInsight_FinanceProjectPrompt(t *testing.T) {
	client := &stubLLMClient{text: "ok"}
	svc := New(client, enabledConfig(), 0.05)
	report := analytics.FinancialReport{
		ProjectName:      "Riverside Plaza",
		Revenue:          100000,
		Expenses:         30000,
		ExpenseBreakdown: map[string]float64{"materials": 30000},
		LaborCost:        4250,
		TotalCosts:       34250,
		NetProfit:        65750,
		ProfitMargin:     65.75,
	}

	_, err := svc.GenerateInsight(context.Background(), InsightRequest{View: ViewFinance, Project: &report})

	require.NoError(t, err)
	prompt := client.requests[0].UserPrompt
	assert.Contains(t, prompt, "**Riverside Plaza**")
	assert.Contains(t, prompt, "Revenue: $100,000.00")
	assert.Contains(t, prompt, "Profit margin: 65.8%")
	assert.Contains(t, prompt, "Expense materials: $30,000.00")
}

func TestAskQuestion_PassesHistoryAndContext(t *testing.T) {
	client := &stubLLMClient{text: "Harbor is over budget."}
	svc := New(client, enabledConfig(), 0.05)

	answer, err := svc.AskQuestion(context.Background(), laborRequest(), "Which project slips?", []Message{
		{Role: "user", Content: "hi"},
		{Role: "bot", Content: "hello"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Harbor is over budget.", answer.Text)
	req := client.requests[0]
	assert.Equal(t, llm.TaskQuestion, req.Task)
	assert.Contains(t, req.SystemPrompt, "Total overhead hours: 10.0")
	assert.Equal(t, []llm.Message{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}}, req.History)
	assert.Equal(t, "Which project slips?", req.UserPrompt)
}

func TestAskQuestion_EmptyQuestion(t *testing.T) {
	svc := New(nil, llm.DefaultConfig(), 0.05)
	_, err := svc.AskQuestion(context.Background(), laborRequest(), "  ", nil)
	assert.Error(t, err)
}

func TestAnalyzeAnomaly_JSON(t *testing.T) {
	client := &stubLLMClient{text: "```json\n{\"explanation\":\"Pour volume doubled.\",\"action\":\"Check delivery tickets.\"}\n```"}
	svc := New(client, enabledConfig(), 0.05)

	got := svc.AnalyzeAnomaly(context.Background(), concreteSpike())

	assert.Equal(t, AnomalyAnalysis{Explanation: "Pour volume doubled.", Action: "Check delivery tickets.", Source: SourceLLM}, got)
	assert.Contains(t, client.requests[0].UserPrompt, "Deviation beyond inflation: 138.1%")
}

func TestAnalyzeAnomaly_ActionMarker(t *testing.T) {
	svc := New(&stubLLMClient{text: "Spend is far above trend. ACTION: Freeze the PO."}, enabledConfig(), 0.05)

	got := svc.AnalyzeAnomaly(context.Background(), concreteSpike())

	assert.Equal(t, "Spend is far above trend.", got.Explanation)
	assert.Equal(t, "Freeze the PO.", got.Action)
}

func TestAnalyzeAnomaly_PlainText(t *testing.T) {
	svc := New(&stubLLMClient{text: "Looks unusual."}, enabledConfig(), 0.05)

	got := svc.AnalyzeAnomaly(context.Background(), concreteSpike())

	assert.Equal(t, "Looks unusual.", got.Explanation)
	assert.Equal(t, unparsedAnomalyAction, got.Action)
}

func TestAnalyzeAnomaly_Fallback(t *testing.T) {
	svc := New(&stubLLMClient{err: llm.ErrTimeout}, enabledConfig(), 0.05)

	got := svc.AnalyzeAnomaly(context.Background(), concreteSpike())

	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, "Anomaly detected in concrete. Amount $5,000.00 exceeds the 5.0% inflation-adjusted baseline of $2,100.00.", got.Explanation)
	assert.Equal(t, fallbackAnomalyAction, got.Action)
}

func TestDeterministicInsight_AutomationPicksLargestSpike(t *testing.T) {
	text := DeterministicInsight(InsightRequest{View: ViewAutomation, Anomalies: []analytics.AnomalyReport{
		{Category: "concrete", Amount: 5000, SpikePercentage: 150},
		{Category: "fuel", Amount: 900, SpikePercentage: 210},
	}})
	assert.Equal(t, "**2 expense anomaly(ies)** in concrete, fuel. Largest spike: fuel at $900.00, 210.0% above its average.", text)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", money(0))
	assert.Equal(t, "$999.50", money(999.5))
	assert.Equal(t, "$1,234,567.89", money(1234567.891))
	assert.Equal(t, "-$52,800.00", money(-52800))
}

func TestGenerateInsight_WithOllamaHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"model": "test-model", "response": "Two anomalies need review."})
	}))
	defer srv.Close()

	cfg := enabledConfig()
	cfg.Endpoint = srv.URL
	cfg.MaxRetries = 0
	svc := New(llm.NewOllamaClient(cfg, llm.NoopObserver{}), cfg, 0.05)

	insight, err := svc.GenerateInsight(context.Background(), InsightRequest{View: ViewAutomation})

	require.NoError(t, err)
	assert.Equal(t, SourceLLM, insight.Source)
	assert.Equal(t, "Two anomalies need review.", insight.Text)
	assert.Equal(t, ProviderInfo{Provider: llm.ProviderOllama, Model: "llama3.2", Enabled: true, Configured: true}, svc.Config())
}
