package llm

import (
	"context"
	"fmt"
	"net/http"
)

type openAIWire struct {
	endpoint string
	apiKey   string
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (w openAIWire) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + w.apiKey}
}

func (w openAIWire) send(ctx context.Context, hc *http.Client, req GenerateRequest, opts callOptions) (string, string, error) {
	messages := make([]Message, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, req.History...)
	messages = append(messages, Message{Role: "user", Content: req.UserPrompt})

	body := chatRequest{
		Model:       opts.model,
		Messages:    messages,
		Temperature: opts.temperature,
		MaxTokens:   opts.maxTokens,
	}
	var resp chatResponse
	if err := postJSON(ctx, hc, w.endpoint+"/chat/completions", w.headers(), body, &resp); err != nil {
		return "", "", err
	}
	if len(resp.Choices) == 0 {
		return "", "", fmt.Errorf("%w: response has no choices", ErrInvalidOutput)
	}
	return resp.Choices[0].Message.Content, resp.Model, nil
}

func (w openAIWire) ping(ctx context.Context, hc *http.Client) bool {
	return pingGET(ctx, hc, w.endpoint+"/models", w.headers())
}
