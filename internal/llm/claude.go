// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// Claude calls the Anthropic Messages API. Native tool calls are offered as
// custom tools and read back from tool_use blocks.
type Claude struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewClaude builds a Claude backend that sends requests with httpClient.
// The SDK's own retries are disabled; the shared transport handles 429.
func NewClaude(cfg types.AIConfig, httpClient *http.Client) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Claude{
		client:      anthropic.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Complete sends one Messages API request.
func (c *Claude) Complete(ctx context.Context, req Request) (Completion, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(c.maxTokens),
		Temperature: anthropic.Float(c.temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	for _, msg := range req.Messages {
		block := anthropic.NewTextBlock(msg.Content)
		if msg.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
			continue
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
	}
	for _, tool := range req.Tools {
		tp, err := claudeTool(tool)
		if err != nil {
			return Completion{}, err
		}
		params.Tools = append(params.Tools, anthropic.ToolUnionParam{OfTool: tp})
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return Completion{}, fmt.Errorf("calling Claude API: %w", err)
	}

	var (
		text  strings.Builder
		comp  Completion
		found bool
	)
	for _, block := range msg.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(variant.Text)
			found = true
		case anthropic.ToolUseBlock:
			comp.ToolCalls = append(comp.ToolCalls, ToolCall{
				Name:      variant.Name,
				Arguments: variant.JSON.Input.Raw(),
			})
			found = true
		}
	}
	if !found {
		return Completion{}, fmt.Errorf("no text or tool content in Claude API response")
	}
	comp.Text = text.String()
	return comp, nil
}

// claudeTool converts a Tool into an Anthropic custom tool. The schema
// properties and required list are carried over.
func claudeTool(tool Tool) (*anthropic.ToolParam, error) {
	schema := anthropic.ToolInputSchemaParam{Properties: map[string]any{}}
	if tool.Parameters != nil {
		data, err := json.Marshal(tool.Parameters)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s schema: %w", tool.Name, err)
		}
		var parsed struct {
			Properties map[string]any `json:"properties"`
			Required   []string       `json:"required"`
		}
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("parsing %s schema: %w", tool.Name, err)
		}
		if parsed.Properties != nil {
			schema.Properties = parsed.Properties
		}
		schema.Required = parsed.Required
	}

	return &anthropic.ToolParam{
		Name:        tool.Name,
		Description: anthropic.String(tool.Description),
		InputSchema: schema,
		Type:        anthropic.ToolTypeCustom,
	}, nil
}

var _ Backend = (*Claude)(nil)
