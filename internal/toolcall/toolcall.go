// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolcall turns model output into paper_search_tool queries. The
// model is told to answer with one call line such as
//
//	paper_search_tool(topic='AI', comparator='before', year=2020, citations=100)
//
// and Extract pulls the arguments out of free text. Providers that support
// structured tool calls send JSON arguments instead, decoded by FromArguments
// under the same defaulting rules.
package toolcall

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// Name is the tool name the model is instructed to call.
const Name = "paper_search_tool"

// Description is the tool description offered to providers with structured
// tool calling.
const Description = "Search the research paper database by topic, publication year, and minimum citation count."

// callPattern matches the first call-shaped substring. Arguments end at the
// first closing parenthesis on the same line.
var callPattern = regexp.MustCompile(Name + `\((.*?)\)`)

// argPattern matches one key=value pair. Values may be single-quoted and run
// up to the next comma or the end of the argument list.
var argPattern = regexp.MustCompile(`(\w+)\s*=\s*'?(.*?)'?(?:,|$)`)

// Extract finds the first paper_search_tool call in text and returns its
// query. Missing topic defaults to "", missing comparator to "in", and a
// missing or non-numeric year or citations to 0. The second result is false
// when text holds no call at all.
func Extract(text string) (types.SearchQuery, bool) {
	m := callPattern.FindStringSubmatch(text)
	if m == nil {
		return types.SearchQuery{}, false
	}

	args := make(map[string]string)
	for _, kv := range argPattern.FindAllStringSubmatch(m[1], -1) {
		args[kv[1]] = kv[2]
	}

	q := types.SearchQuery{
		Topic:      "",
		Comparator: types.ComparatorIn,
	}
	if v, ok := args["topic"]; ok {
		q.Topic = trimQuotes(v)
	}
	if v, ok := args["comparator"]; ok {
		q.Comparator = types.Comparator(trimQuotes(v))
	}
	q.Year = atoiOrZero(args["year"])
	q.Citations = atoiOrZero(args["citations"])

	return q, true
}

// FromArguments decodes the JSON arguments of a structured tool call.
// Numbers may arrive as JSON numbers or strings; anything else becomes 0.
func FromArguments(arguments string) (types.SearchQuery, error) {
	var raw map[string]any
	if strings.TrimSpace(arguments) != "" {
		if err := json.Unmarshal([]byte(arguments), &raw); err != nil {
			return types.SearchQuery{}, fmt.Errorf("decoding %s arguments: %w", Name, err)
		}
	}

	q := types.SearchQuery{Comparator: types.ComparatorIn}
	if v, ok := raw["topic"]; ok {
		q.Topic = trimQuotes(stringify(v))
	}
	if v, ok := raw["comparator"]; ok {
		q.Comparator = types.Comparator(trimQuotes(stringify(v)))
	}
	q.Year = intOrZero(raw["year"])
	q.Citations = intOrZero(raw["citations"])
	return q, nil
}

// Format renders q as the canonical call line.
func Format(q types.SearchQuery) string {
	return fmt.Sprintf("%s(topic='%s', comparator='%s', year=%d, citations=%d)",
		Name, q.Topic, q.Comparator, q.Year, q.Citations)
}

// Validate checks q against the tool contract. Violations do not stop
// execution; an unknown comparator simply matches nothing.
func Validate(q types.SearchQuery) error {
	var errs []error
	if !q.Comparator.Known() {
		errs = append(errs, fmt.Errorf("comparator %q is not one of before, after, in", q.Comparator))
	}
	if q.Year < 0 {
		errs = append(errs, fmt.Errorf("year %d is negative", q.Year))
	}
	if q.Citations < 0 {
		errs = append(errs, fmt.Errorf("citations %d is negative", q.Citations))
	}
	return errors.Join(errs...)
}

func trimQuotes(s string) string {
	return strings.Trim(s, `'"`)
}

// atoiOrZero parses a decimal integer the way a lenient call writer would
// write it: optional sign, digits from any script, single underscores
// between digits. Anything else, including overflow, yields 0.
func atoiOrZero(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return 0
	}

	n := 0
	afterSeparator := true
	for _, r := range s {
		if r == '_' {
			if afterSeparator {
				return 0
			}
			afterSeparator = true
			continue
		}
		d, ok := digitValue(r)
		if !ok || n > (math.MaxInt-d)/10 {
			return 0
		}
		n = n*10 + d
		afterSeparator = false
	}
	if afterSeparator {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

// digitValue returns the value of a decimal digit rune. Unicode lays out
// each script's digits as a contiguous run starting at zero.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if !unicode.IsDigit(r) {
		return 0, false
	}
	zero := r
	for unicode.IsDigit(zero - 1) {
		zero--
	}
	return int(r-zero) % 10, true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func intOrZero(v any) int {
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return 0
		}
		return int(t)
	case string:
		return atoiOrZero(t)
	}
	return 0
}
