// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt renders the fixed prompts sent to the model: the tool-call
// system prompt for queries and the judge prompts for evaluation.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/paper-agent/internal/toolcall"
	"github.com/pdiddy/paper-agent/pkg/types"
)

// systemPromptTmpl constrains the model to a single tool call line.
var systemPromptTmpl = template.Must(template.New("system").Parse(`You MUST respond ONLY by calling the function '{{.Tool}}'. Never explain. Never write natural language sentences. Always output exactly this format:

{{.Example}}

Replace values based on the user's request.`))

// judgeSystemPrompt frames the evaluation reply. The query system prompt
// forbids prose, so evaluation runs without it.
const judgeSystemPrompt = `You are reviewing the work of a research paper search assistant that answers by calling '` + toolcall.Name + `'. Be concise and concrete.`

// evaluationPromptTmpl asks the model to grade the previous turn.
var evaluationPromptTmpl = template.Must(template.New("evaluation").Parse(`Evaluate how well you performed on the previous task.

User Query: {{.Query}}
Assistant Tool Call: {{.AssistantText}}
Tool Result: {{.Result}}

Discuss correctness, tool usage, and give a score from 1 to 10.`))

// exampleCall is the call line shown to the model.
var exampleCall = types.SearchQuery{
	Topic:      "AI",
	Comparator: types.ComparatorBefore,
	Year:       2020,
	Citations:  100,
}

// System renders the query system prompt.
func System() string {
	return mustRender(systemPromptTmpl, struct {
		Tool    string
		Example string
	}{
		Tool:    toolcall.Name,
		Example: toolcall.Format(exampleCall),
	})
}

// JudgeSystem returns the evaluation system prompt.
func JudgeSystem() string {
	return judgeSystemPrompt
}

// Evaluation renders the evaluation prompt for turn.
func Evaluation(turn types.Turn) string {
	return mustRender(evaluationPromptTmpl, struct {
		Query         string
		AssistantText string
		Result        string
	}{
		Query:         turn.Query,
		AssistantText: turn.AssistantText,
		Result:        ToolResult(turn),
	})
}

// ToolResult renders the tool outcome of turn: None when no call was
// found, [] when the call matched nothing, otherwise one line per paper.
func ToolResult(turn types.Turn) string {
	if !turn.Executed() {
		return "None"
	}
	if len(turn.Results) == 0 {
		return "[]"
	}
	var b strings.Builder
	for _, p := range turn.Results {
		fmt.Fprintf(&b, "\n- %s", p)
	}
	return b.String()
}

func mustRender(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		// Templates are fixed and their data is plain strings.
		panic(fmt.Sprintf("rendering %s prompt: %v", tmpl.Name(), err))
	}
	return buf.String()
}
