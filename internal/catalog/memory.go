// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// Memory is a Catalog backed by a slice. Search never fails.
type Memory struct {
	papers []types.Paper
}

// NewMemory returns a Memory catalog over a copy of papers.
func NewMemory(papers []types.Paper) *Memory {
	return &Memory{papers: append([]types.Paper(nil), papers...)}
}

// Papers returns a copy of the records in source order.
func (m *Memory) Papers() []types.Paper {
	return append([]types.Paper(nil), m.papers...)
}

// Search applies Filter.
func (m *Memory) Search(_ context.Context, q types.SearchQuery) ([]types.Paper, error) {
	return Filter(m.papers, q), nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

var _ Catalog = (*Memory)(nil)
