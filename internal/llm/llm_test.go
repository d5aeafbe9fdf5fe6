// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-agent/pkg/types"
)

var searchTool = Tool{
	Name:        "paper_search_tool",
	Description: "Search papers.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{"type": "string"},
		},
		"required": []string{"topic"},
	},
}

// --- BackendFunc ---

func TestBackendFunc(t *testing.T) {
	var got Request
	b := BackendFunc(func(_ context.Context, req Request) (Completion, error) {
		got = req
		return Completion{Text: "ok"}, nil
	})

	c, err := b.Complete(context.Background(), UserPrompt("sys", "hello"))
	require.NoError(t, err)
	assert.Equal(t, "ok", c.Text)
	assert.Equal(t, "sys", got.System)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "hello"}}, got.Messages)
}

// --- New ---

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.AIConfig
		want    any
		wantErr string
	}{
		{name: "mistral default", cfg: types.AIConfig{APIKey: "k"}, want: &Mistral{}},
		{name: "mistral without key", cfg: types.AIConfig{Provider: types.ProviderMistral}, wantErr: "API key required"},
		{name: "claude", cfg: types.AIConfig{Provider: types.ProviderClaude, APIKey: "k"}, want: &Claude{}},
		{name: "claude without key", cfg: types.AIConfig{Provider: types.ProviderClaude}, wantErr: "API key required"},
		{name: "ollama without key", cfg: types.AIConfig{Provider: types.ProviderOllama}, want: &Ollama{}},
		{name: "ollama bad host", cfg: types.AIConfig{Provider: types.ProviderOllama, BaseURL: "://bad"}, wantErr: "invalid Ollama host"},
		{name: "unknown provider", cfg: types.AIConfig{Provider: "gpt"}, wantErr: "unsupported provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.cfg, nil)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, b)
		})
	}
}

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, "open-mistral-nemo", DefaultModel(types.ProviderMistral))
	assert.Equal(t, "open-mistral-nemo", DefaultModel(""))
	assert.Equal(t, "llama3.2", DefaultModel(types.ProviderOllama))
	assert.NotEmpty(t, DefaultModel(types.ProviderClaude))
}

// --- Mistral ---

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float64 `json:"temperature"`
	Tools       []struct {
		Type     string `json:"type"`
		Function struct {
			Name string `json:"name"`
		} `json:"function"`
	} `json:"tools"`
}

func TestMistralComplete(t *testing.T) {
	var got chatRequest
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "cmpl-1",
			"object": "chat.completion",
			"model": "open-mistral-nemo",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "paper_search_tool(topic='AI', comparator='in', year=2020, citations=0)"},
				"finish_reason": "stop"
			}]
		}`)
	}))
	defer ts.Close()

	m := NewMistral(types.AIConfig{APIKey: "mk", Model: "open-mistral-nemo", BaseURL: ts.URL + "/v1", MaxTokens: 64}, ts.Client())
	req := UserPrompt("system prompt", "AI papers from 2020")
	req.Messages = append(req.Messages, Message{Role: RoleAssistant, Content: "earlier"})
	c, err := m.Complete(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "paper_search_tool(topic='AI', comparator='in', year=2020, citations=0)", c.Text)
	assert.Empty(t, c.ToolCalls)
	assert.Equal(t, "Bearer mk", auth)
	assert.Equal(t, "open-mistral-nemo", got.Model)
	assert.Equal(t, 64, got.MaxTokens)
	require.NotNil(t, got.Temperature, "zero temperature must still be sent")
	assert.InDelta(t, 0, *got.Temperature, 1e-30)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "system prompt", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
	assert.Empty(t, got.Tools)
}

func TestMistralNativeToolCall(t *testing.T) {
	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "cmpl-2",
			"object": "chat.completion",
			"choices": [{
				"index": 0,
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "paper_search_tool", "arguments": "{\"topic\":\"AI\"}"}
					}]
				},
				"finish_reason": "tool_calls"
			}]
		}`)
	}))
	defer ts.Close()

	m := NewMistral(types.AIConfig{APIKey: "mk", Model: "m", BaseURL: ts.URL}, ts.Client())
	req := UserPrompt("", "AI papers")
	req.Tools = []Tool{searchTool}
	c, err := m.Complete(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, got.Tools, 1)
	assert.Equal(t, "function", got.Tools[0].Type)
	assert.Equal(t, "paper_search_tool", got.Tools[0].Function.Name)
	require.Len(t, got.Messages, 1)

	assert.Equal(t, []ToolCall{{Name: "paper_search_tool", Arguments: `{"topic":"AI"}`}}, c.ToolCalls)
}

func TestMistralErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "server error", status: http.StatusUnauthorized, body: `{"message":"Unauthorized"}`, wantErr: "calling Mistral API"},
		{name: "no choices", status: http.StatusOK, body: `{"id":"x","choices":[]}`, wantErr: "no choices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			m := NewMistral(types.AIConfig{APIKey: "mk", Model: "m", BaseURL: ts.URL}, ts.Client())
			_, err := m.Complete(context.Background(), UserPrompt("", "q"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// --- Claude ---

type messagesRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	System    []struct {
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role string `json:"role"`
	} `json:"messages"`
	Tools []struct {
		Name string `json:"name"`
	} `json:"tools"`
}

func claudeServer(t *testing.T, got *messagesRequest, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ck", r.Header.Get("x-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}))
}

func TestClaudeComplete(t *testing.T) {
	var got messagesRequest
	ts := claudeServer(t, &got, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-test",
		"content": [
			{"type": "text", "text": "paper_search_tool(topic='Security', "},
			{"type": "text", "text": "comparator='after', year=2019, citations=100)"}
		],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 10, "output_tokens": 20}
	}`)
	defer ts.Close()

	c := NewClaude(types.AIConfig{APIKey: "ck", Model: "claude-test", BaseURL: ts.URL, MaxTokens: 128}, ts.Client())
	comp, err := c.Complete(context.Background(), UserPrompt("be terse", "security after 2019"))
	require.NoError(t, err)

	assert.Equal(t, "paper_search_tool(topic='Security', comparator='after', year=2019, citations=100)", comp.Text)
	assert.Equal(t, "claude-test", got.Model)
	assert.Equal(t, 128, got.MaxTokens)
	require.Len(t, got.System, 1)
	assert.Equal(t, "be terse", got.System[0].Text)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestClaudeToolUse(t *testing.T) {
	var got messagesRequest
	ts := claudeServer(t, &got, `{
		"id": "msg_2",
		"type": "message",
		"role": "assistant",
		"model": "claude-test",
		"content": [
			{"type": "tool_use", "id": "toolu_1", "name": "paper_search_tool", "input": {"topic": "AI", "year": 2020}}
		],
		"stop_reason": "tool_use",
		"usage": {"input_tokens": 10, "output_tokens": 20}
	}`)
	defer ts.Close()

	c := NewClaude(types.AIConfig{APIKey: "ck", Model: "claude-test", BaseURL: ts.URL, MaxTokens: 128}, ts.Client())
	req := UserPrompt("", "AI 2020")
	req.Tools = []Tool{searchTool}
	comp, err := c.Complete(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, got.Tools, 1)
	assert.Equal(t, "paper_search_tool", got.Tools[0].Name)
	require.Len(t, comp.ToolCalls, 1)
	assert.Equal(t, "paper_search_tool", comp.ToolCalls[0].Name)
	assert.JSONEq(t, `{"topic": "AI", "year": 2020}`, comp.ToolCalls[0].Arguments)
}

func TestClaudeEmptyContent(t *testing.T) {
	var got messagesRequest
	ts := claudeServer(t, &got, `{
		"id": "msg_3",
		"type": "message",
		"role": "assistant",
		"model": "claude-test",
		"content": [],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 1, "output_tokens": 0}
	}`)
	defer ts.Close()

	c := NewClaude(types.AIConfig{APIKey: "ck", Model: "claude-test", BaseURL: ts.URL, MaxTokens: 16}, ts.Client())
	_, err := c.Complete(context.Background(), UserPrompt("", "q"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text or tool content")
}

func TestClaudeToolSchema(t *testing.T) {
	tp, err := claudeTool(searchTool)
	require.NoError(t, err)
	assert.Equal(t, "paper_search_tool", tp.Name)
	assert.Contains(t, tp.InputSchema.Properties, "topic")
	assert.Equal(t, []string{"topic"}, tp.InputSchema.Required)

	tp, err = claudeTool(Tool{Name: "bare"})
	require.NoError(t, err)
	assert.NotNil(t, tp.InputSchema.Properties)
	assert.Empty(t, tp.InputSchema.Required)
}

// --- Ollama ---

func TestOllamaComplete(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Stream   *bool  `json:"stream"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Options map[string]any `json:"options"`
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"model":"llama3.2","message":{"role":"assistant","content":"paper_search_tool(topic='AI', comparator='in', year=2017, citations=0)"},"done":true}`)
	}))
	defer ts.Close()

	o, err := NewOllama(types.AIConfig{Model: "llama3.2", BaseURL: ts.URL, Seed: 42, MaxTokens: 32}, ts.Client())
	require.NoError(t, err)

	c, err := o.Complete(context.Background(), UserPrompt("sys", "AI 2017"))
	require.NoError(t, err)

	assert.Equal(t, "paper_search_tool(topic='AI', comparator='in', year=2017, citations=0)", c.Text)
	assert.Equal(t, "llama3.2", got.Model)
	require.NotNil(t, got.Stream)
	assert.False(t, *got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.EqualValues(t, 42, got.Options["seed"])
}

func TestOllamaServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"model not found"}`)
	}))
	defer ts.Close()

	o, err := NewOllama(types.AIConfig{Model: "missing", BaseURL: ts.URL}, ts.Client())
	require.NoError(t, err)

	_, err = o.Complete(context.Background(), UserPrompt("", "q"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling Ollama API")
}

func TestBackendErrorsWrap(t *testing.T) {
	sentinel := errors.New("boom")
	b := BackendFunc(func(context.Context, Request) (Completion, error) {
		return Completion{}, sentinel
	})
	_, err := b.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, sentinel)
}
