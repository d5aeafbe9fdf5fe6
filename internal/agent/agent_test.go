// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/paper-agent/internal/catalog"
	"github.com/pdiddy/paper-agent/internal/llm"
	"github.com/pdiddy/paper-agent/internal/prompt"
	"github.com/pdiddy/paper-agent/internal/toolcall"
	"github.com/pdiddy/paper-agent/pkg/types"
)

// replyWith returns a backend that records the request and answers comp.
func replyWith(comp llm.Completion, got *llm.Request) llm.Backend {
	return llm.BackendFunc(func(_ context.Context, req llm.Request) (llm.Completion, error) {
		if got != nil {
			*got = req
		}
		return comp, nil
	})
}

func newAssistant(t *testing.T, backend llm.Backend, native bool) *Assistant {
	t.Helper()
	return New(backend, catalog.NewMemory(catalog.Default()), types.AgentConfig{NativeToolCalls: native}, zaptest.NewLogger(t))
}

func titles(papers []types.Paper) []string {
	out := make([]string, len(papers))
	for i, p := range papers {
		out[i] = p.Title
	}
	return out
}

func TestAskExtractsAndRunsTextCall(t *testing.T) {
	text := "paper_search_tool(topic='AI', comparator='before', year=2020, citations=100)"
	var req llm.Request
	a := newAssistant(t, replyWith(llm.Completion{Text: text}, &req), false)

	turn, err := a.Ask(context.Background(), "AI papers before 2020 with 100+ citations")
	require.NoError(t, err)

	assert.Equal(t, prompt.System(), req.System)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, llm.RoleUser, req.Messages[0].Role)
	assert.Equal(t, "AI papers before 2020 with 100+ citations", req.Messages[0].Content)
	assert.Empty(t, req.Tools)

	assert.Equal(t, "AI papers before 2020 with 100+ citations", turn.Query)
	assert.Equal(t, text, turn.AssistantText)
	require.True(t, turn.Executed())
	assert.Equal(t, types.SearchQuery{Topic: "AI", Comparator: types.ComparatorBefore, Year: 2020, Citations: 100}, *turn.Call)
	assert.Equal(t, []string{
		"Efficient Reinforcement Agents with Sparse Rewards",
		"Probabilistic Graph Models for Real-Time Reasoning",
	}, titles(turn.Results))
}

func TestAskWithoutCall(t *testing.T) {
	a := newAssistant(t, replyWith(llm.Completion{Text: "I can only search papers."}, nil), false)

	turn, err := a.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.False(t, turn.Executed())
	assert.Nil(t, turn.Results)
	assert.Equal(t, "I can only search papers.", turn.AssistantText)
}

func TestAskExecutedWithNoMatches(t *testing.T) {
	text := "paper_search_tool(topic='AI', comparator='in', year=2020, citations=10000)"
	a := newAssistant(t, replyWith(llm.Completion{Text: text}, nil), false)

	turn, err := a.Ask(context.Background(), "very popular AI papers")
	require.NoError(t, err)
	assert.True(t, turn.Executed())
	assert.Empty(t, turn.Results)
}

func TestAskUnknownComparatorMatchesNothing(t *testing.T) {
	text := "paper_search_tool(topic='AI', comparator='around', year=2020, citations=0)"
	a := newAssistant(t, replyWith(llm.Completion{Text: text}, nil), false)

	turn, err := a.Ask(context.Background(), "AI around 2020")
	require.NoError(t, err)
	assert.True(t, turn.Executed())
	assert.Empty(t, turn.Results)
}

func TestAskOffersToolWhenNative(t *testing.T) {
	var req llm.Request
	comp := llm.Completion{ToolCalls: []llm.ToolCall{{
		Name:      toolcall.Name,
		Arguments: `{"topic":"Security","comparator":"after","year":2018,"citations":0}`,
	}}}
	a := newAssistant(t, replyWith(comp, &req), true)

	turn, err := a.Ask(context.Background(), "security papers after 2018")
	require.NoError(t, err)

	require.Len(t, req.Tools, 1)
	assert.Equal(t, toolcall.Name, req.Tools[0].Name)
	assert.Equal(t, toolcall.Description, req.Tools[0].Description)

	require.True(t, turn.Executed())
	assert.Equal(t, "paper_search_tool(topic='Security', comparator='after', year=2018, citations=0)", turn.AssistantText)
	assert.Equal(t, []string{
		"Adaptive Intrusion Detection with Neural Signatures",
		"Post-Quantum Encryption Using Structured Lattices",
	}, titles(turn.Results))
}

func TestAskPrefersNativeCallOverText(t *testing.T) {
	comp := llm.Completion{
		Text: "paper_search_tool(topic='AI', comparator='in', year=2020, citations=0)",
		ToolCalls: []llm.ToolCall{
			{Name: "other_tool", Arguments: `{}`},
			{Name: toolcall.Name, Arguments: `{"topic":"Quantum","comparator":"in","year":2019,"citations":0}`},
		},
	}
	a := newAssistant(t, replyWith(comp, nil), true)

	turn, err := a.Ask(context.Background(), "quantum 2019")
	require.NoError(t, err)
	require.True(t, turn.Executed())
	assert.Equal(t, "Quantum", turn.Call.Topic)
	assert.Equal(t, comp.Text, turn.AssistantText)
	assert.Equal(t, []string{"Quantum Annealing for Large-Scale Optimization"}, titles(turn.Results))
}

func TestAskFallsBackToTextOnBadArguments(t *testing.T) {
	comp := llm.Completion{
		Text:      "paper_search_tool(topic='Machine Learning', comparator='in', year=2018, citations=0)",
		ToolCalls: []llm.ToolCall{{Name: toolcall.Name, Arguments: `{not json`}},
	}
	a := newAssistant(t, replyWith(comp, nil), true)

	turn, err := a.Ask(context.Background(), "ML 2018")
	require.NoError(t, err)
	require.True(t, turn.Executed())
	assert.Equal(t, []string{"Uncertainty Calibration in Deep Neural Networks"}, titles(turn.Results))
}

func TestAskBackendError(t *testing.T) {
	boom := errors.New("boom")
	a := newAssistant(t, llm.BackendFunc(func(context.Context, llm.Request) (llm.Completion, error) {
		return llm.Completion{}, boom
	}), false)

	_, err := a.Ask(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "asking model")
}

func TestEvaluate(t *testing.T) {
	var req llm.Request
	a := newAssistant(t, replyWith(llm.Completion{Text: "Correct call. Score: 9/10"}, &req), true)

	turn := types.Turn{
		Query:         "AI papers in 2020",
		AssistantText: "paper_search_tool(topic='AI', comparator='in', year=2020, citations=0)",
		Call:          &types.SearchQuery{Topic: "AI", Comparator: types.ComparatorIn, Year: 2020},
		Results:       []types.Paper{{Title: "Adaptive Meta-Learning Networks", Topic: "AI", Year: 2020, Citations: 340}},
	}

	got, err := a.Evaluate(context.Background(), turn)
	require.NoError(t, err)
	assert.Equal(t, "Correct call. Score: 9/10", got)

	assert.Equal(t, prompt.JudgeSystem(), req.System)
	assert.Empty(t, req.Tools)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, prompt.Evaluation(turn), req.Messages[0].Content)
}

func TestEvaluateBackendError(t *testing.T) {
	a := newAssistant(t, llm.BackendFunc(func(context.Context, llm.Request) (llm.Completion, error) {
		return llm.Completion{}, errors.New("rate limited")
	}), false)

	_, err := a.Evaluate(context.Background(), types.Turn{Query: "x"})
	assert.ErrorContains(t, err, "evaluating turn: rate limited")
}
