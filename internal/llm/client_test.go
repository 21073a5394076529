package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = endpoint
	return cfg
}

func TestOllamaClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "system prompt", req.System)
		assert.Equal(t, "user prompt", req.Prompt)
		assert.Equal(t, 0.7, req.Options.Temperature)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: "Labor is on track."})
	}))
	defer srv.Close()

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskInsight,
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
	})

	require.NoError(t, err)
	assert.Equal(t, "Labor is on track.", resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)
	assert.NotEmpty(t, resp.CallID)
	assert.GreaterOrEqual(t, resp.LatencyMs, int64(0))
}

func TestOllamaClient_Generate_FoldsHistoryIntoPrompt(t *testing.T) {
	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt = req.Prompt
		json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: "ok"})
	}))
	defer srv.Close()

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskQuestion,
		UserPrompt: "and Harbor?",
		History: []Message{
			{Role: "user", Content: "How is Riverside?"},
			{Role: "assistant", Content: "Under budget."},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "user: How is Riverside?\nassistant: Under budget.\nuser: and Harbor?", prompt)
}

func TestOllamaClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskInsight: {Temperature: 0.1, MaxTokens: 512, TimeoutMs: 50},
	}

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskInsight,
		UserPrompt: "test",
	})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1") // nothing listening
	cfg.MaxRetries = 0
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskInsight: {Temperature: 0.1, MaxTokens: 512, TimeoutMs: 1000},
	}

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskInsight,
		UserPrompt: "test",
	})

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestOllamaClient_Generate_RetryOnTransientError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("internal error"))
			return
		}
		json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: "ok"})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1

	var captured LLMCallEvent
	client := NewOllamaClient(cfg, &captureObserver{fn: func(e LLMCallEvent) { captured = e }})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskInsight,
		UserPrompt: "test",
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 2, captured.Attempts)
}

func TestOllamaClient_Generate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad request"))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0

	client := NewOllamaClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{
		Task:       TaskInsight,
		UserPrompt: "test",
	})

	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Contains(t, err.Error(), "status 400")
}

func TestOllamaClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, NewOllamaClient(testConfig(srv.URL), NoopObserver{}).Available(context.Background()))
	assert.False(t, NewOllamaClient(testConfig("http://127.0.0.1:1"), NoopObserver{}).Available(context.Background()))
}

func TestOpenAIClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 4)
		assert.Equal(t, Message{Role: "system", Content: "be brief"}, req.Messages[0])
		assert.Equal(t, "assistant", req.Messages[2].Role)
		assert.Equal(t, Message{Role: "user", Content: "why?"}, req.Messages[3])

		w.Write([]byte(`{"model":"gpt-4o-mini","choices":[{"message":{"role":"assistant","content":"Because."}}]}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Provider = ProviderOpenAI
	cfg.Model = DefaultOpenAIModel
	cfg.APIKey = "sk-test"

	client, err := NewClient(cfg, NoopObserver{})
	require.NoError(t, err)
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskQuestion,
		SystemPrompt: "be brief",
		UserPrompt:   "why?",
		History: []Message{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Because.", resp.Text)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
}

func TestOpenAIClient_Generate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"gpt-4o-mini","choices":[]}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Provider = ProviderOpenAI
	cfg.APIKey = "sk-test"
	cfg.MaxRetries = 0

	_, err := NewOpenAIClient(cfg, NoopObserver{}).Generate(context.Background(), GenerateRequest{Task: TaskAnomaly, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Contains(t, err.Error(), "no choices")
}

func TestNewClient_OpenAIWithoutKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Provider = ProviderOpenAI

	_, err := NewClient(cfg, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewClient_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "bard"

	_, err := NewClient(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}

func TestClient_ObserverTimeoutErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskAnomaly: {Temperature: 0.1, MaxTokens: 512, TimeoutMs: 50},
	}

	var captured LLMCallEvent
	client := NewOllamaClient(cfg, &captureObserver{fn: func(e LLMCallEvent) { captured = e }})

	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskAnomaly, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.False(t, captured.Success)
	assert.Equal(t, "TIMEOUT", captured.ErrorCode)
	assert.Equal(t, TaskAnomaly, captured.Task)
	assert.Equal(t, ProviderOllama, captured.Provider)
	assert.NotEmpty(t, captured.CallID)
}

type captureObserver struct {
	fn func(LLMCallEvent)
}

func (o *captureObserver) OnCallComplete(e LLMCallEvent) { o.fn(e) }
