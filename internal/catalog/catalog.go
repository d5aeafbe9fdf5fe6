// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the fixed research paper records and answers
// paper_search_tool queries over them. Two backends share one contract:
// a plain slice filter and an in-memory SQLite index.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-agent/pkg/types"
)

//go:embed papers.yaml
var papersYAML []byte

// Catalog answers search queries over a fixed set of papers.
type Catalog interface {
	// Papers returns every record in source order.
	Papers() []types.Paper

	// Search returns the records matching q in source order.
	Search(ctx context.Context, q types.SearchQuery) ([]types.Paper, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Filter returns the ordered subsequence of papers whose topic contains
// q.Topic (case-insensitive), whose year satisfies q.Comparator against
// q.Year, and whose citation count is at least q.Citations. An unknown
// comparator matches nothing.
func Filter(papers []types.Paper, q types.SearchQuery) []types.Paper {
	topic := strings.ToLower(q.Topic)
	var results []types.Paper
	for _, p := range papers {
		if !strings.Contains(strings.ToLower(p.Topic), topic) {
			continue
		}
		if !q.Comparator.MatchYear(p.Year, q.Year) {
			continue
		}
		if p.Citations >= q.Citations {
			results = append(results, p)
		}
	}
	return results
}

// Default returns a fresh copy of the built-in fifteen papers.
func Default() []types.Paper {
	papers, err := decode(papersYAML)
	if err != nil {
		// The embedded file is part of the binary; a decode failure is a build defect.
		panic(fmt.Sprintf("decoding embedded papers: %v", err))
	}
	return papers
}

// LoadFile reads a YAML list of papers from path. Records must have a title
// and non-negative year and citations.
func LoadFile(path string) ([]types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %s: %w", path, err)
	}
	papers, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}
	return papers, nil
}

func decode(data []byte) ([]types.Paper, error) {
	var papers []types.Paper
	if err := yaml.Unmarshal(data, &papers); err != nil {
		return nil, err
	}
	for i, p := range papers {
		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("paper %d: empty title", i)
		}
		if p.Year < 0 || p.Citations < 0 {
			return nil, fmt.Errorf("paper %d (%s): negative year or citations", i, p.Title)
		}
	}
	return papers, nil
}

// Open builds the catalog backend named by cfg over papers. When cfg.File is
// set it replaces papers.
func Open(cfg types.CatalogConfig, papers []types.Paper) (Catalog, error) {
	if cfg.File != "" {
		loaded, err := LoadFile(cfg.File)
		if err != nil {
			return nil, err
		}
		papers = loaded
	}

	switch cfg.Backend {
	case types.CatalogMemory, "":
		return NewMemory(papers), nil
	case types.CatalogSQLite:
		return NewSQLite(papers)
	default:
		return nil, fmt.Errorf("unsupported catalog backend %q: use memory or sqlite", cfg.Backend)
	}
}
