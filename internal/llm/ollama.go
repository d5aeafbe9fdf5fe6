// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	ollama "github.com/ollama/ollama/api"

	"github.com/pdiddy/paper-agent/pkg/types"
)

const defaultOllamaHost = "http://localhost:11434"

// Ollama calls a local Ollama server. It needs no credential and ignores
// native tools; the model answers in text.
type Ollama struct {
	client  *ollama.Client
	model   string
	options map[string]any
}

// NewOllama builds an Ollama backend. The host comes from cfg.BaseURL, then
// OLLAMA_HOST, then the local default.
func NewOllama(cfg types.AIConfig, httpClient *http.Client) (*Ollama, error) {
	host := cfg.BaseURL
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	if host == "" {
		host = defaultOllamaHost
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama host %q: %w", host, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	options := map[string]any{
		"temperature": cfg.Temperature,
		"num_predict": cfg.MaxTokens,
	}
	if cfg.Seed != 0 {
		options["seed"] = cfg.Seed
	}

	return &Ollama{
		client:  ollama.NewClient(u, httpClient),
		model:   cfg.Model,
		options: options,
	}, nil
}

// Complete sends one non-streaming chat request.
func (o *Ollama) Complete(ctx context.Context, req Request) (Completion, error) {
	var messages []ollama.Message
	if req.System != "" {
		messages = append(messages, ollama.Message{Role: "system", Content: req.System})
	}
	for _, msg := range req.Messages {
		messages = append(messages, ollama.Message{Role: string(msg.Role), Content: msg.Content})
	}

	stream := false
	cr := &ollama.ChatRequest{
		Model:    o.model,
		Messages: messages,
		Stream:   &stream,
		Options:  o.options,
	}

	var text strings.Builder
	err := o.client.Chat(ctx, cr, func(resp ollama.ChatResponse) error {
		text.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return Completion{}, fmt.Errorf("calling Ollama API: %w", err)
	}
	return Completion{Text: text.String()}, nil
}

var _ Backend = (*Ollama)(nil)
