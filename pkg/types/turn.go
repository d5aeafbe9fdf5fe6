// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Turn records one query cycle of the conversational loop: what the user
// asked, what the assistant replied, and what the tool produced. The loop
// keeps the most recent Turn and hands it to the evaluation path explicitly.
type Turn struct {
	// Query is the user's natural-language request.
	Query string `json:"query" yaml:"query"`

	// AssistantText is the raw reply from the model.
	AssistantText string `json:"assistant_text" yaml:"assistant_text"`

	// Call is the extracted tool call, or nil when the reply contained none.
	Call *SearchQuery `json:"call,omitempty" yaml:"call,omitempty"`

	// Results holds the papers the call matched. Empty when Call is nil.
	Results []Paper `json:"results" yaml:"results"`
}

// Executed reports whether a tool call was found and run. A Turn can be
// executed with zero results; callers must not conflate the two.
func (t Turn) Executed() bool {
	return t.Call != nil
}
