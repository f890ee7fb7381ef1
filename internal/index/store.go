// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index records which chapters reference which issues, merge
// requests, and projects, in a SQLite database.
package index

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/zeebo/blake3"

	"github.com/pdiddy/gitlab-link/internal/rewrite"
	"github.com/pdiddy/gitlab-link/pkg/types"
)

const (
	dbFile            = "refs.db"
	exportFile        = "export.yaml"
	defaultMaxResults = 50
)

// Scanner finds the references in one chapter. *rewrite.Transformer
// implements it. Fingerprint identifies the configuration the resolved
// links depend on; a chapter is re-indexed when it changes.
type Scanner interface {
	Scan(content string) []types.AppliedReference
	Fingerprint() string
}

// Store manages the reference index database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the index at cfg.DBDir/refs.db and creates
// the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DBDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DBDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: cfg.DBDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS chapters (
			path TEXT PRIMARY KEY,
			content_hash TEXT NOT NULL,
			indexed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS refs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chapter TEXT NOT NULL REFERENCES chapters(path) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			label TEXT NOT NULL,
			url TEXT NOT NULL,
			ref_text TEXT NOT NULL,
			start_offset INTEGER NOT NULL,
			end_offset INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refs_chapter ON refs(chapter)`,
		`CREATE INDEX IF NOT EXISTS idx_refs_url ON refs(url)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestStatus is the outcome of indexing one chapter.
type IngestStatus string

const (
	IngestNew       IngestStatus = "indexed"
	IngestUpdated   IngestStatus = "updated"
	IngestUnchanged IngestStatus = "skipped"
)

// IngestSummary holds counts from an indexing run. Removed counts
// chapters dropped from the index because they are no longer present.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
	Removed int
}

// Total returns the number of chapters processed. Removed chapters are
// not included.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// IngestChapter records the references of one chapter. The stored hash
// covers the content and the scanner's fingerprint, so a chapter is
// skipped only when neither changed; otherwise its rows are replaced.
func (s *Store) IngestChapter(ctx context.Context, sc Scanner, chapter, content string) (IngestStatus, int, error) {
	hash := chapterHash(sc.Fingerprint(), content)

	var stored string
	err := s.db.QueryRowContext(ctx,
		`SELECT content_hash FROM chapters WHERE path = ?`, chapter,
	).Scan(&stored)
	switch {
	case err == nil && stored == hash:
		return IngestUnchanged, 0, nil
	case err != nil && err != sql.ErrNoRows:
		return "", 0, fmt.Errorf("looking up chapter: %w", err)
	}
	isUpdate := err == nil

	refs := sc.Scan(content)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM refs WHERE chapter = ?`, chapter); err != nil {
		return "", 0, fmt.Errorf("deleting old references: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO chapters (path, content_hash, indexed_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET content_hash=excluded.content_hash, indexed_at=excluded.indexed_at`,
		chapter, hash, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", 0, fmt.Errorf("upserting chapter: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO refs (chapter, kind, label, url, ref_text, start_offset, end_offset)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range refs {
		if _, err := stmt.ExecContext(ctx,
			chapter, string(r.Ref.Kind), r.Link.Label, r.Link.URL, r.Ref.Text, r.Start, r.End,
		); err != nil {
			return "", 0, fmt.Errorf("inserting reference %s: %w", r.Ref.Text, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", 0, fmt.Errorf("committing chapter: %w", err)
	}

	if isUpdate {
		return IngestUpdated, len(refs), nil
	}
	return IngestNew, len(refs), nil
}

func chapterHash(fingerprint, content string) string {
	h := blake3.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// Ingest indexes every markdown file under paths, printing per-chapter
// status to w. Chapters are keyed by their slash-separated path. Indexed
// chapters not found under paths are removed along with their references.
// When anything changed, export.yaml is rewritten.
func (s *Store) Ingest(ctx context.Context, sc Scanner, paths []string, w io.Writer) (IngestSummary, error) {
	sources, err := rewrite.CollectSources(paths)
	if err != nil {
		return IngestSummary{}, err
	}

	var summary IngestSummary
	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		chapter := filepath.ToSlash(src.Path())
		seen[chapter] = true
		data, err := os.ReadFile(src.Path())
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", chapter, err)
			summary.Failed++
			continue
		}

		status, n, err := s.IngestChapter(ctx, sc, chapter, string(data))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", chapter, err)
			summary.Failed++
			continue
		}

		switch status {
		case IngestUnchanged:
			fmt.Fprintf(w, "skipped %s\n", chapter)
			summary.Skipped++
		case IngestUpdated:
			fmt.Fprintf(w, "updated %s (%d refs)\n", chapter, n)
			summary.Updated++
		default:
			fmt.Fprintf(w, "indexing %s (%d refs)\n", chapter, n)
			summary.Indexed++
		}
	}

	removed, err := s.Prune(ctx, seen)
	if err != nil {
		return summary, err
	}
	for _, chapter := range removed {
		fmt.Fprintf(w, "removed %s\n", chapter)
	}
	summary.Removed = len(removed)

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d, removed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed, summary.Removed)

	if summary.Indexed > 0 || summary.Updated > 0 || summary.Removed > 0 {
		if err := s.ExportYAML(ctx); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}
	return summary, nil
}

// Prune deletes every indexed chapter not in keep. Its references go with
// it through the foreign key. The removed paths are returned sorted.
func (s *Store) Prune(ctx context.Context, keep map[string]bool) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM chapters ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("listing chapters: %w", err)
	}
	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning chapter: %w", err)
		}
		if !keep[path] {
			stale = append(stale, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing chapters: %w", err)
	}
	if len(stale) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, path := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chapters WHERE path = ?`, path); err != nil {
			return nil, fmt.Errorf("removing chapter %s: %w", path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing prune: %w", err)
	}
	return stale, nil
}
