// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent turns natural-language requests into paper searches. It asks
// the model for a paper_search_tool call, runs the call against the catalog,
// and can ask the model to grade a previous turn.
package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-agent/internal/catalog"
	"github.com/pdiddy/paper-agent/internal/llm"
	"github.com/pdiddy/paper-agent/internal/prompt"
	"github.com/pdiddy/paper-agent/internal/toolcall"
	"github.com/pdiddy/paper-agent/pkg/types"
)

// Assistant answers queries through a Backend and a Catalog. It holds no
// conversation state; every call is independent.
type Assistant struct {
	backend llm.Backend
	catalog catalog.Catalog
	cfg     types.AgentConfig
	logger  *zap.Logger
}

// New builds an Assistant. A nil logger discards output.
func New(backend llm.Backend, cat catalog.Catalog, cfg types.AgentConfig, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		backend: backend,
		catalog: cat,
		cfg:     cfg,
		logger:  logger,
	}
}

// Ask sends query to the model and executes the tool call in its reply.
// A reply without a call yields a Turn with a nil Call.
func (a *Assistant) Ask(ctx context.Context, query string) (types.Turn, error) {
	req := llm.UserPrompt(prompt.System(), query)
	if a.cfg.NativeToolCalls {
		req.Tools = []llm.Tool{{
			Name:        toolcall.Name,
			Description: toolcall.Description,
			Parameters:  toolcall.Parameters(),
		}}
	}

	comp, err := a.backend.Complete(ctx, req)
	if err != nil {
		return types.Turn{}, fmt.Errorf("asking model: %w", err)
	}

	turn := types.Turn{Query: query, AssistantText: comp.Text}
	q, ok := a.resolveCall(comp)
	if !ok {
		a.logger.Debug("no tool call in reply", zap.String("text", comp.Text))
		return turn, nil
	}
	if turn.AssistantText == "" {
		turn.AssistantText = toolcall.Format(q)
	}
	if err := toolcall.Validate(q); err != nil {
		a.logger.Warn("tool call outside contract", zap.Error(err))
	}

	results, err := a.catalog.Search(ctx, q)
	if err != nil {
		return types.Turn{}, fmt.Errorf("running %s: %w", toolcall.Name, err)
	}
	turn.Call = &q
	turn.Results = results

	a.logger.Debug("tool executed",
		zap.String("topic", q.Topic),
		zap.String("comparator", string(q.Comparator)),
		zap.Int("year", q.Year),
		zap.Int("citations", q.Citations),
		zap.Int("matches", len(results)))
	return turn, nil
}

// resolveCall prefers a native call named paper_search_tool and falls back
// to scanning the reply text.
func (a *Assistant) resolveCall(comp llm.Completion) (types.SearchQuery, bool) {
	for _, tc := range comp.ToolCalls {
		if tc.Name != toolcall.Name {
			a.logger.Warn("ignoring unknown tool call", zap.String("name", tc.Name))
			continue
		}
		q, err := toolcall.FromArguments(tc.Arguments)
		if err != nil {
			a.logger.Warn("unreadable tool arguments", zap.String("arguments", tc.Arguments), zap.Error(err))
			continue
		}
		return q, true
	}
	return toolcall.Extract(comp.Text)
}

// Evaluate asks the model to grade turn and returns its reply.
func (a *Assistant) Evaluate(ctx context.Context, turn types.Turn) (string, error) {
	comp, err := a.backend.Complete(ctx, llm.UserPrompt(prompt.JudgeSystem(), prompt.Evaluation(turn)))
	if err != nil {
		return "", fmt.Errorf("evaluating turn: %w", err)
	}
	return comp.Text, nil
}
