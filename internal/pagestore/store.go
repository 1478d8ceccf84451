// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pagestore records extracted documents and their pages in a local
// SQLite database so that text from earlier runs can be searched and
// exported without re-reading the PDFs.
package pagestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf-extract/pkg/types"
)

const (
	dbFile            = "pages.db"
	defaultMaxResults = 20

	// driverName is go-sqlite3 with a casefold(text) SQL function, used by
	// Search. SQLite's own lower() only folds ASCII.
	driverName = "sqlite3_pagestore"
)

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", foldCase, true)
		},
	})
}

// Store manages the page index SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the page index at cfg.Dir/pages.db and creates
// the schema if it does not exist.
func NewStore(cfg types.PageStoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open(driverName, dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
	}

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
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			source_path TEXT NOT NULL UNIQUE,
			backend TEXT,
			page_count INTEGER NOT NULL,
			extracted_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pages (
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			number INTEGER NOT NULL,
			text TEXT NOT NULL,
			PRIMARY KEY (document_id, number)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_source ON documents(source_path)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save records doc and its pages. A document already stored under the same
// source path is replaced, pages included.
func (s *Store) Save(ctx context.Context, doc types.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM pages WHERE document_id IN
			(SELECT id FROM documents WHERE source_path = ? OR id = ?)`,
		`DELETE FROM documents WHERE source_path = ? OR id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, doc.SourcePath, doc.ID); err != nil {
			return fmt.Errorf("deleting previous extraction: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, source_path, backend, page_count, extracted_at)
		 VALUES (?, ?, ?, ?, ?)`,
		doc.ID, doc.SourcePath, doc.Backend, len(doc.Pages),
		doc.ExtractedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pages (document_id, number, text) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range doc.Pages {
		if _, err := stmt.ExecContext(ctx, doc.ID, p.Number, p.Text); err != nil {
			return fmt.Errorf("inserting page %d: %w", p.Number, err)
		}
	}

	return tx.Commit()
}

// DocumentInfo summarizes one indexed document.
type DocumentInfo struct {
	ID          string    `json:"id" yaml:"id"`
	SourcePath  string    `json:"source_path" yaml:"source_path"`
	Backend     string    `json:"backend" yaml:"backend"`
	Pages       int       `json:"pages" yaml:"pages"`
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}

// Documents lists indexed documents ordered by source path.
func (s *Store) Documents(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_path, backend, page_count, extracted_at
		 FROM documents ORDER BY source_path`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentInfo
	for rows.Next() {
		var (
			d       DocumentInfo
			backend sql.NullString
			ts      string
		)
		if err := rows.Scan(&d.ID, &d.SourcePath, &backend, &d.Pages, &ts); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		d.Backend = backend.String
		if d.ExtractedAt, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("document %s: %w", d.SourcePath, err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Document loads a stored document with all its pages.
func (s *Store) Document(ctx context.Context, sourcePath string) (types.Document, error) {
	var (
		doc     types.Document
		backend sql.NullString
		ts      string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source_path, backend, extracted_at FROM documents WHERE source_path = ?`,
		sourcePath,
	).Scan(&doc.ID, &doc.SourcePath, &backend, &ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return doc, fmt.Errorf("document %s not indexed", sourcePath)
		}
		return doc, fmt.Errorf("looking up document: %w", err)
	}
	doc.Backend = backend.String
	if doc.ExtractedAt, err = parseTime(ts); err != nil {
		return doc, fmt.Errorf("document %s: %w", sourcePath, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT number, text FROM pages WHERE document_id = ? ORDER BY number`, doc.ID)
	if err != nil {
		return doc, fmt.Errorf("loading pages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p types.Page
		if err := rows.Scan(&p.Number, &p.Text); err != nil {
			return doc, fmt.Errorf("scanning page: %w", err)
		}
		doc.Pages = append(doc.Pages, p)
	}
	return doc, rows.Err()
}

func parseTime(ts string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing extracted_at %q: %w", ts, err)
	}
	return t, nil
}
