package llm

import (
	"context"
	"net/http"
	"strings"
)

type ollamaWire struct {
	endpoint string
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

func (w ollamaWire) send(ctx context.Context, hc *http.Client, req GenerateRequest, opts callOptions) (string, string, error) {
	body := ollamaRequest{
		Model:  opts.model,
		System: req.SystemPrompt,
		Prompt: transcript(req.History, req.UserPrompt),
		Stream: false,
		Options: ollamaOptions{
			Temperature: opts.temperature,
			NumPredict:  opts.maxTokens,
		},
	}
	var resp ollamaResponse
	if err := postJSON(ctx, hc, w.endpoint+"/api/generate", nil, body, &resp); err != nil {
		return "", "", err
	}
	return resp.Response, resp.Model, nil
}

func (w ollamaWire) ping(ctx context.Context, hc *http.Client) bool {
	return pingGET(ctx, hc, w.endpoint+"/api/tags", nil)
}

// transcript folds earlier turns into a single prompt for the
// single-prompt generate endpoint.
func transcript(history []Message, prompt string) string {
	if len(history) == 0 {
		return prompt
	}
	var b strings.Builder
	for _, m := range history {
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	b.WriteString("user: ")
	b.WriteString(prompt)
	return b.String()
}
