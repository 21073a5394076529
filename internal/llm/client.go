package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Message is one prior turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	History      []Message // earlier turns, oldest first
	Temperature  *float64  // nil uses task default
	MaxTokens    *int      // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
	CallID    string
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the model server is reachable.
	Available(ctx context.Context) bool
}

// wire is the provider-specific half of a client: one HTTP exchange.
type wire interface {
	send(ctx context.Context, hc *http.Client, req GenerateRequest, opts callOptions) (text, model string, err error)
	ping(ctx context.Context, hc *http.Client) bool
}

type callOptions struct {
	model       string
	temperature float64
	maxTokens   int
}

// httpClient runs the retry, timeout and observer logic shared by every
// provider.
type httpClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
	wire     wire
}

// NewClient returns the client for cfg.Provider. OpenAI without an API key
// yields ErrNotConfigured.
func NewClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: openai requires an api key", ErrNotConfigured)
		}
		return NewOpenAIClient(cfg, observer), nil
	default:
		return NewOllamaClient(cfg, observer), nil
	}
}

// NewOllamaClient creates an LLMClient that talks to an Ollama instance.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	return newHTTPClient(cfg, observer, ollamaWire{endpoint: cfg.Endpoint})
}

// NewOpenAIClient creates an LLMClient for an OpenAI-compatible chat
// completions API.
func NewOpenAIClient(cfg LLMConfig, observer Observer) LLMClient {
	return newHTTPClient(cfg, observer, openAIWire{endpoint: cfg.Endpoint, apiKey: cfg.APIKey})
}

func newHTTPClient(cfg LLMConfig, observer Observer, w wire) *httpClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Tasks == nil {
		cfg.Tasks = DefaultTasks()
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
		wire:     w,
	}
}

func (c *httpClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	callID := uuid.NewString()

	taskCfg := c.cfg.Tasks[req.Task]
	opts := callOptions{
		model:       c.cfg.Model,
		temperature: taskCfg.Temperature,
		maxTokens:   taskCfg.MaxTokens,
	}
	if req.Temperature != nil {
		opts.temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		opts.maxTokens = *req.MaxTokens
	}

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	if timeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
		defer cancel()
	}

	event := LLMCallEvent{
		CallID:   callID,
		Task:     req.Task,
		Provider: c.cfg.Provider,
		Model:    c.cfg.Model,
	}

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		event.Attempts = i + 1
		text, model, err := c.wire.send(ctx, c.http, req, opts)
		if err == nil {
			latency := time.Since(start).Milliseconds()
			event.LatencyMs = latency
			event.Success = true
			c.observer.OnCallComplete(event)
			return &GenerateResponse{
				Text:      text,
				Model:     model,
				LatencyMs: latency,
				CallID:    callID,
			}, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout
		if ctx.Err() != nil {
			break
		}
	}

	var err error
	switch {
	case ctx.Err() != nil:
		err = ErrTimeout
	case isConnectionError(lastErr):
		err = ErrUnavailable
	default:
		err = fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
	}

	event.LatencyMs = time.Since(start).Milliseconds()
	event.ErrorCode = errorCode(err)
	c.observer.OnCallComplete(event)
	return nil, err
}

func (c *httpClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.wire.ping(ctx, c.http)
}

// postJSON sends body to url and decodes a 200 response into out.
func postJSON(ctx context.Context, hc *http.Client, url string, headers map[string]string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := hc.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func pingGET(ctx context.Context, hc *http.Client, url string, headers map[string]string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrNotConfigured):
		return "NOT_CONFIGURED"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
