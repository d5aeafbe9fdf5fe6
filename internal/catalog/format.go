// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// FormatTable writes papers as a fixed-width table followed by a count line.
func FormatTable(w io.Writer, papers []types.Paper) error {
	if _, err := fmt.Fprintf(w, "%-4s  %-56s  %-18s  %-4s  %s\n",
		"#", "Title", "Topic", "Year", "Citations"); err != nil {
		return err
	}
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, p := range papers {
		title := truncate(p.Title, 56)
		topic := truncate(p.Topic, 18)
		fmt.Fprintf(w, "%-4d  %-56s  %-18s  %-4d  %d\n", i+1, title, topic, p.Year, p.Citations)
	}

	_, err := fmt.Fprintf(w, "\n%d papers\n", len(papers))
	return err
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// FormatJSON writes papers as an indented JSON array. A nil slice is
// written as [].
func FormatJSON(w io.Writer, papers []types.Paper) error {
	if papers == nil {
		papers = []types.Paper{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}

// FormatYAML writes papers as a YAML list.
func FormatYAML(w io.Writer, papers []types.Paper) error {
	if papers == nil {
		papers = []types.Paper{}
	}
	data, err := yaml.Marshal(papers)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Write renders papers in the named format: table (default), json, or yaml.
func Write(w io.Writer, format string, papers []types.Paper) error {
	switch format {
	case "table", "":
		return FormatTable(w, papers)
	case "json":
		return FormatJSON(w, papers)
	case "yaml":
		return FormatYAML(w, papers)
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}
}
