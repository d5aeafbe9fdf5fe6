// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper agent:
// the paper record, the search query derived from a tool call, the
// conversational turn, and configuration.
package types

import "fmt"

// Paper is one record of the fixed research paper catalog. Records are never
// created, mutated, or deleted at runtime.
type Paper struct {
	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Topic is the research area (e.g. "AI", "Quantum Computing").
	Topic string `json:"topic" yaml:"topic"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Citations is the citation count.
	Citations int `json:"citations" yaml:"citations"`
}

// String renders the paper on a single line.
func (p Paper) String() string {
	return fmt.Sprintf("%s (%s, %d, %d citations)", p.Title, p.Topic, p.Year, p.Citations)
}
