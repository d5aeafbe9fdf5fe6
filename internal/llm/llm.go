// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the Generative AI providers behind a stateless
// completion call: context in, completion out. The agent never holds a
// conversation object, so tests substitute a BackendFunc for a live model.
package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-agent/internal/httputil"
	"github.com/pdiddy/paper-agent/pkg/types"
)

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation message.
type Message struct {
	Role    Role
	Content string
}

// Tool describes a function the model may call natively.
type Tool struct {
	Name        string
	Description string
	// Parameters is a JSON-schema value that marshals to an object schema.
	Parameters any
}

// Request is the full input of one completion.
type Request struct {
	// System is the system prompt. Empty sends none.
	System string

	// Messages are sent in order.
	Messages []Message

	// Tools are offered to providers that support native tool calls.
	// Providers without support ignore them.
	Tools []Tool
}

// ToolCall is a native tool call returned by the provider.
type ToolCall struct {
	Name string
	// Arguments is the raw JSON argument object.
	Arguments string
}

// Completion is the provider reply.
type Completion struct {
	Text      string
	ToolCalls []ToolCall
}

// Backend produces one completion per call and keeps no state between calls.
type Backend interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, req Request) (Completion, error)

// Complete calls f.
func (f BackendFunc) Complete(ctx context.Context, req Request) (Completion, error) {
	return f(ctx, req)
}

// UserPrompt builds a Request with a system prompt and one user message.
func UserPrompt(system, content string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: content}},
	}
}

const defaultMaxTokens = 1024

// DefaultModel returns the model used when none is configured.
func DefaultModel(p types.Provider) string {
	switch p {
	case types.ProviderClaude:
		return "claude-sonnet-4-5-20250929"
	case types.ProviderOllama:
		return "llama3.2"
	default:
		return "open-mistral-nemo"
	}
}

// New builds the Backend named by cfg.Provider. All providers share an
// http.Client that throttles to cfg.RateLimit and retries HTTP 429.
func New(cfg types.AIConfig, logger *zap.Logger) (Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	client := httputil.NewClient(cfg, logger)

	switch cfg.Provider {
	case types.ProviderMistral, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("mistral: API key required (set MISTRAL_API_KEY or ai.api_key)")
		}
		return NewMistral(cfg, client), nil
	case types.ProviderClaude:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("claude: API key required (set ANTHROPIC_API_KEY or ai.api_key)")
		}
		return NewClaude(cfg, client), nil
	case types.ProviderOllama:
		return NewOllama(cfg, client)
	default:
		return nil, fmt.Errorf("unsupported provider %q: use mistral, claude, or ollama", cfg.Provider)
	}
}
