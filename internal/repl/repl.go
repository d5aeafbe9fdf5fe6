// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package repl runs the interactive loop: read a line, classify it, dispatch
// it to the agent, print the outcome. The loop is single-threaded and keeps
// only the most recent query turn, which it passes to evaluation explicitly.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-agent/internal/catalog"
	"github.com/pdiddy/paper-agent/pkg/types"
)

const (
	Banner    = "Research Paper Agent (type 'exit' to quit)"
	Prompt    = "You: "
	Farewell  = "Goodbye!"
	NoTask    = "No previous task to evaluate."
	NoMatches = "Tool executed: No papers matched your query."
)

// Kind classifies an input line.
type Kind int

const (
	KindQuery Kind = iota
	KindExit
	KindEvaluate
	KindEmpty
)

// Classify decides what an input line asks for. exit and quit are matched
// case-insensitively after trimming; any line starting with "evaluate"
// requests an evaluation.
func Classify(line string) Kind {
	trimmed := strings.ToLower(strings.TrimSpace(line))
	switch {
	case trimmed == "":
		return KindEmpty
	case trimmed == "exit", trimmed == "quit":
		return KindExit
	case strings.HasPrefix(trimmed, "evaluate"):
		return KindEvaluate
	default:
		return KindQuery
	}
}

// Agent answers queries and grades earlier turns.
type Agent interface {
	Ask(ctx context.Context, query string) (types.Turn, error)
	Evaluate(ctx context.Context, turn types.Turn) (string, error)
}

// Session wires an Agent to line-oriented input and output.
type Session struct {
	agent  Agent
	in     io.Reader
	out    io.Writer
	logger *zap.Logger
}

// NewSession builds a Session. A nil logger discards output.
func NewSession(agent Agent, in io.Reader, out io.Writer, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{agent: agent, in: in, out: out, logger: logger}
}

// Run loops until exit, end of input, or context cancellation. Backend
// failures are reported and the loop continues; only read and write errors
// end it with an error.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, "%s\n\n", Banner)

	scanner := bufio.NewScanner(s.in)
	var last *types.Turn

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, Prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			fmt.Fprintf(s.out, "\n%s\n", Farewell)
			return nil
		}
		line := scanner.Text()

		switch Classify(line) {
		case KindEmpty:
			continue
		case KindExit:
			fmt.Fprintln(s.out, Farewell)
			return nil
		case KindEvaluate:
			s.evaluate(ctx, last)
		case KindQuery:
			if turn, ok := s.query(ctx, line); ok {
				last = &turn
			}
		}
	}
}

func (s *Session) query(ctx context.Context, line string) (types.Turn, bool) {
	turn, err := s.agent.Ask(ctx, line)
	if err != nil {
		s.logger.Error("query failed", zap.Error(err))
		fmt.Fprintf(s.out, "\nerror: %v\n\n", err)
		return types.Turn{}, false
	}

	fmt.Fprintf(s.out, "\nAssistant: %s\n", turn.AssistantText)
	if turn.Executed() {
		if len(turn.Results) == 0 {
			fmt.Fprintln(s.out, NoMatches)
		} else {
			fmt.Fprintln(s.out, "Tool executed:")
			if err := catalog.FormatTable(s.out, turn.Results); err != nil {
				s.logger.Warn("writing results", zap.Error(err))
			}
		}
	}
	fmt.Fprintln(s.out)
	return turn, true
}

func (s *Session) evaluate(ctx context.Context, last *types.Turn) {
	if last == nil {
		fmt.Fprintf(s.out, "\n%s\n\n", NoTask)
		return
	}

	reply, err := s.agent.Evaluate(ctx, *last)
	if err != nil {
		s.logger.Error("evaluation failed", zap.Error(err))
		fmt.Fprintf(s.out, "\nerror: %v\n\n", err)
		return
	}
	fmt.Fprintf(s.out, "\nEvaluation:\n%s\n\n", reply)
}
