package types

import "time"

// Provider identifies the LLM backend.
type Provider string

const (
	ProviderMistral Provider = "mistral"
	ProviderClaude  Provider = "claude"
	ProviderOllama  Provider = "ollama"
)

// AIConfig holds settings for the Generative AI backend.
type AIConfig struct {
	// Provider selects the backend: mistral, claude, or ollama.
	Provider Provider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "open-mistral-nemo").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API. Ollama ignores it.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint. Empty uses the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Temperature is the sampling temperature (default 0).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// Seed fixes sampling where the provider supports it. Zero leaves it unset.
	Seed int `json:"seed" yaml:"seed"`

	// MaxTokens caps the reply length (default 1024).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxRetries is the number of retry attempts on HTTP 429 (default 3).
	// Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RateLimit is the maximum request rate in requests per second
	// (default 0.25). Zero or negative disables throttling.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`

	// Timeout is the HTTP request timeout (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// AgentConfig holds settings for the assistant.
type AgentConfig struct {
	// NativeToolCalls offers the tool schema to the provider and prefers
	// structured tool calls over text extraction when the provider returns one.
	NativeToolCalls bool `json:"native_tool_calls" yaml:"native_tool_calls"`
}

// CatalogBackend identifies the catalog implementation.
type CatalogBackend string

const (
	CatalogMemory CatalogBackend = "memory"
	CatalogSQLite CatalogBackend = "sqlite"
)

// CatalogConfig holds settings for the paper catalog.
type CatalogConfig struct {
	// Backend selects memory (default) or sqlite.
	Backend CatalogBackend `json:"backend" yaml:"backend"`

	// File is an optional YAML fixture replacing the built-in papers.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// Config groups all settings.
type Config struct {
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Agent   AgentConfig   `json:"agent" yaml:"agent"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
}
