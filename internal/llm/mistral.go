// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// mistralBaseURL is Mistral's OpenAI-compatible endpoint.
const mistralBaseURL = "https://api.mistral.ai/v1"

// Mistral calls the Mistral chat completions API through its
// OpenAI-compatible surface. It honors native tool calls. Mistral names its
// seed parameter random_seed, which the OpenAI request type cannot carry, so
// ai.seed is not sent.
type Mistral struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewMistral builds a Mistral backend that sends requests with httpClient.
func NewMistral(cfg types.AIConfig, httpClient *http.Client) *Mistral {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = mistralBaseURL
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}

	return &Mistral{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
	}
}

// Complete sends one chat completion request.
func (m *Mistral) Complete(ctx context.Context, req Request) (Completion, error) {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, msg := range req.Messages {
		role := openai.ChatMessageRoleUser
		if msg.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}

	// go-openai drops a zero temperature from the request body.
	temperature := m.temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	ccr := openai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   m.maxTokens,
	}
	for _, tool := range req.Tools {
		ccr.Tools = append(ccr.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	resp, err := m.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return Completion{}, fmt.Errorf("calling Mistral API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, fmt.Errorf("Mistral API returned no choices")
	}

	msg := resp.Choices[0].Message
	c := Completion{Text: msg.Content}
	for _, tc := range msg.ToolCalls {
		c.ToolCalls = append(c.ToolCalls, ToolCall{Name: tc.Function.Name, Arguments: tc.Function.Arguments})
	}
	return c, nil
}

var _ Backend = (*Mistral)(nil)
