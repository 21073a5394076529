package llm

import "fmt"

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskInsight  TaskType = "insight"
	TaskQuestion TaskType = "question"
	TaskAnomaly  TaskType = "anomaly"
)

// Provider selects the wire protocol of the model server.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool     `koanf:"enabled"`
	LogCalls   bool     `koanf:"log_calls"`
	Provider   Provider `koanf:"provider"`
	Endpoint   string   `koanf:"endpoint"`
	Model      string   `koanf:"model"`
	APIKey     string   `koanf:"api_key"`
	TimeoutMs  int      `koanf:"timeout_ms"`
	MaxRetries int      `koanf:"max_retries"`

	Tasks map[TaskType]TaskConfig `koanf:"-"`
}

const (
	DefaultOllamaEndpoint = "http://localhost:11434"
	DefaultOpenAIEndpoint = "https://api.openai.com/v1"
	DefaultOllamaModel    = "llama3.2"
	DefaultOpenAIModel    = "gpt-4o-mini"
)

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Provider:   ProviderOllama,
		Endpoint:   DefaultOllamaEndpoint,
		Model:      DefaultOllamaModel,
		TimeoutMs:  10000,
		MaxRetries: 1,
		Tasks:      DefaultTasks(),
	}
}

func DefaultTasks() map[TaskType]TaskConfig {
	return map[TaskType]TaskConfig{
		TaskInsight:  {Temperature: 0.7, MaxTokens: 512, TimeoutMs: 15000},
		TaskQuestion: {Temperature: 0.5, MaxTokens: 1024, TimeoutMs: 20000},
		TaskAnomaly:  {Temperature: 0.2, MaxTokens: 512, TimeoutMs: 10000},
	}
}

// Normalize fills provider-specific defaults left empty by the caller.
// An Ollama endpoint or model configured for OpenAI is replaced too, since
// a provider switch usually leaves the Ollama defaults behind.
func (c LLMConfig) Normalize() LLMConfig {
	if c.Provider == "" {
		c.Provider = ProviderOllama
	}
	if c.Tasks == nil {
		c.Tasks = DefaultTasks()
	}
	switch c.Provider {
	case ProviderOpenAI:
		if c.Endpoint == "" || c.Endpoint == DefaultOllamaEndpoint {
			c.Endpoint = DefaultOpenAIEndpoint
		}
		if c.Model == "" || c.Model == DefaultOllamaModel {
			c.Model = DefaultOpenAIModel
		}
	default:
		if c.Endpoint == "" {
			c.Endpoint = DefaultOllamaEndpoint
		}
		if c.Model == "" {
			c.Model = DefaultOllamaModel
		}
	}
	return c
}

func (c LLMConfig) Validate() error {
	switch c.Provider {
	case ProviderOllama, ProviderOpenAI, "":
	default:
		return fmt.Errorf("unknown llm provider %q (want ollama or openai)", c.Provider)
	}
	if c.TimeoutMs < 0 {
		return fmt.Errorf("llm timeout_ms must be >= 0, got %d", c.TimeoutMs)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("llm max_retries must be >= 0, got %d", c.MaxRetries)
	}
	return nil
}

// Configured reports whether calls can be attempted at all. OpenAI needs
// an API key; Ollama needs nothing beyond being enabled.
func (c LLMConfig) Configured() bool {
	if !c.Enabled {
		return false
	}
	return c.Provider != ProviderOpenAI || c.APIKey != ""
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}
