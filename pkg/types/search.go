// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Comparator governs the year relation of a search query.
type Comparator string

const (
	// ComparatorBefore matches papers published strictly before the year.
	ComparatorBefore Comparator = "before"

	// ComparatorAfter matches papers published strictly after the year.
	ComparatorAfter Comparator = "after"

	// ComparatorIn matches papers published in the year.
	ComparatorIn Comparator = "in"
)

// Comparators lists the recognized comparators in display order.
var Comparators = []Comparator{ComparatorBefore, ComparatorAfter, ComparatorIn}

// Known reports whether c is one of before, after, in. Comparators come from
// model output, so any string is representable; unknown ones match nothing.
func (c Comparator) Known() bool {
	switch c {
	case ComparatorBefore, ComparatorAfter, ComparatorIn:
		return true
	}
	return false
}

// MatchYear reports whether year stands in relation c to target.
func (c Comparator) MatchYear(year, target int) bool {
	switch c {
	case ComparatorBefore:
		return year < target
	case ComparatorAfter:
		return year > target
	case ComparatorIn:
		return year == target
	}
	return false
}

// SearchQuery is the query intent carried by one paper_search_tool call.
// It is derived per turn from model output and discarded after use.
type SearchQuery struct {
	// Topic is matched as a case-insensitive substring of Paper.Topic.
	// An empty topic matches every paper.
	Topic string `json:"topic" yaml:"topic"`

	// Comparator selects the year relation.
	Comparator Comparator `json:"comparator" yaml:"comparator"`

	// Year is the reference year for Comparator.
	Year int `json:"year" yaml:"year"`

	// Citations is the minimum citation count (inclusive).
	Citations int `json:"citations" yaml:"citations"`
}
