// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/gitlab-link/pkg/types"
)

// QueryOptions filters index queries. Empty fields do not filter.
type QueryOptions struct {
	// Kind restricts results to one reference kind.
	Kind types.RefKind

	// Label matches a substring of the link label (e.g. "#42").
	Label string

	// URL matches a substring of the resolved URL, useful for finding
	// every chapter that points at one project.
	URL string

	// Chapter restricts results to one chapter path.
	Chapter string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Kind == "" && q.Label == "" && q.URL == "" && q.Chapter == ""
}

// Entry is one indexed reference.
type Entry struct {
	Chapter string        `json:"chapter" yaml:"chapter"`
	Kind    types.RefKind `json:"kind" yaml:"kind"`
	Label   string        `json:"label" yaml:"label"`
	URL     string        `json:"url" yaml:"url"`
	Text    string        `json:"text" yaml:"text"`
	Start   int           `json:"start" yaml:"start"`
	End     int           `json:"end" yaml:"end"`
}

// likePattern escapes s for use inside a LIKE pattern with ESCAPE '\'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// Retrieve returns indexed references matching opts, ordered by chapter
// and then by position in the chapter.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT chapter, kind, label, url, ref_text, start_offset, end_offset
		FROM refs
		WHERE 1=1`)

	if opts.Kind != "" {
		qb.WriteString(` AND kind = ?`)
		args = append(args, string(opts.Kind))
	}
	if opts.Label != "" {
		qb.WriteString(` AND label LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(opts.Label))
	}
	if opts.URL != "" {
		qb.WriteString(` AND url LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(opts.URL))
	}
	if opts.Chapter != "" {
		qb.WriteString(` AND chapter = ?`)
		args = append(args, opts.Chapter)
	}

	qb.WriteString(` ORDER BY chapter, start_offset LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e    Entry
			kind string
		)
		if err := rows.Scan(&e.Chapter, &kind, &e.Label, &e.URL, &e.Text, &e.Start, &e.End); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Kind = types.RefKind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
