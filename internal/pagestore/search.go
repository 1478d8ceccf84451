// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pagestore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// snippetRadius is the number of runes kept on each side of a match.
const snippetRadius = 40

// QueryOptions holds parameters for page searches.
type QueryOptions struct {
	// Query is matched as a substring of page text, ignoring case.
	Query string

	// SourcePath restricts results to one document.
	SourcePath string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search term or filter.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.SourcePath == ""
}

// PageResult is one matching page.
type PageResult struct {
	SourcePath string `json:"source_path" yaml:"source_path"`
	Page       int    `json:"page" yaml:"page"`
	Text       string `json:"text" yaml:"text"`
	Snippet    string `json:"snippet" yaml:"snippet"`
}

// Search returns pages matching opts ordered by source path and page.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]PageResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(
		`SELECT d.source_path, p.number, p.text
		FROM pages p
		JOIN documents d ON d.id = p.document_id
		WHERE 1=1`)

	if opts.Query != "" {
		qb.WriteString(` AND instr(casefold(p.text), casefold(?)) > 0`)
		args = append(args, opts.Query)
	}
	if opts.SourcePath != "" {
		qb.WriteString(` AND d.source_path = ?`)
		args = append(args, opts.SourcePath)
	}

	qb.WriteString(` ORDER BY d.source_path, p.number LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var results []PageResult
	for rows.Next() {
		var r PageResult
		if err := rows.Scan(&r.SourcePath, &r.Page, &r.Text); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Snippet = snippet(r.Text, opts.Query)
		results = append(results, r)
	}
	return results, rows.Err()
}

// snippet returns the text around the first case-insensitive match of
// query, on a single line. Without a match it returns the start of text.
func snippet(text, query string) string {
	runes := []rune(text)
	start, end := 0, len(runes)

	if idx := indexFold(runes, []rune(query)); idx >= 0 {
		start = max(0, idx-snippetRadius)
		end = min(len(runes), idx+len([]rune(query))+snippetRadius)
	} else if end > 2*snippetRadius {
		end = 2 * snippetRadius
	}

	s := strings.Join(strings.Fields(string(runes[start:end])), " ")
	if start > 0 {
		s = "..." + s
	}
	if end < len(runes) {
		s += "..."
	}
	return s
}

// foldCase maps each rune to one canonical case, so strings that differ
// only in letter case fold to the same string. Rune count is preserved.
func foldCase(s string) string {
	return strings.Map(func(r rune) rune {
		return unicode.ToLower(unicode.ToUpper(r))
	}, s)
}

func indexFold(text, query []rune) int {
	if len(query) == 0 {
		return -1
	}
	ft := []rune(foldCase(string(text)))
	fq := []rune(foldCase(string(query)))
	for i := 0; i+len(fq) <= len(ft); i++ {
		if slices.Equal(ft[i:i+len(fq)], fq) {
			return i
		}
	}
	return -1
}
