// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// SQLite is a Catalog that indexes the papers in an in-memory SQLite
// database and answers queries in SQL. Nothing is written to disk.
type SQLite struct {
	db     *sql.DB
	papers []types.Paper
}

// NewSQLite opens an in-memory database, creates the schema, and loads papers.
func NewSQLite(papers []types.Paper) (*SQLite, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	s := &SQLite{
		db:     db,
		papers: append([]types.Paper(nil), papers...),
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if err := s.load(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading papers: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			position INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			topic TEXT NOT NULL,
			topic_lower TEXT NOT NULL,
			year INTEGER NOT NULL,
			citations INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_year ON papers(year)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *SQLite) load(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (position, title, topic, topic_lower, year, citations)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range s.papers {
		// Lowercasing happens in Go; SQLite lower() only folds ASCII.
		if _, err := stmt.ExecContext(ctx, i, p.Title, p.Topic, strings.ToLower(p.Topic), p.Year, p.Citations); err != nil {
			return fmt.Errorf("inserting paper %q: %w", p.Title, err)
		}
	}

	return tx.Commit()
}

// Papers returns a copy of the records in source order.
func (s *SQLite) Papers() []types.Paper {
	return append([]types.Paper(nil), s.papers...)
}

// Search answers q in SQL with the same semantics as Filter.
func (s *SQLite) Search(ctx context.Context, q types.SearchQuery) ([]types.Paper, error) {
	var yearClause string
	switch q.Comparator {
	case types.ComparatorBefore:
		yearClause = `year < ?`
	case types.ComparatorAfter:
		yearClause = `year > ?`
	case types.ComparatorIn:
		yearClause = `year = ?`
	default:
		return nil, nil
	}

	var qb strings.Builder
	qb.WriteString(
		`SELECT title, topic, year, citations
		FROM papers
		WHERE instr(topic_lower, ?) > 0`)
	qb.WriteString(` AND ` + yearClause)
	qb.WriteString(` AND citations >= ?`)
	qb.WriteString(` ORDER BY position`)

	rows, err := s.db.QueryContext(ctx, qb.String(), strings.ToLower(q.Topic), q.Year, q.Citations)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []types.Paper
	for rows.Next() {
		var p types.Paper
		if err := rows.Scan(&p.Title, &p.Topic, &p.Year, &p.Citations); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return results, nil
}

var _ Catalog = (*SQLite)(nil)
