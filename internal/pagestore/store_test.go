// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pagestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-extract/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "index")

	store, err := NewStore(types.PageStoreConfig{Dir: dir, MaxResults: 20})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func makeDoc(id, source string, texts ...string) types.Document {
	doc := types.Document{
		ID:          id,
		SourcePath:  source,
		Backend:     "ledongthuc",
		ExtractedAt: time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
	}
	for i, text := range texts {
		doc.Pages = append(doc.Pages, types.Page{Number: i + 1, Text: text})
	}
	return doc
}

func mustSave(t *testing.T, s *Store, doc types.Document) {
	t.Helper()
	if err := s.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save(%s): %v", doc.SourcePath, err)
	}
}

// --- tests ---

func TestNewStore_CreatesDatabase(t *testing.T) {
	_, dir := testSetup(t)
	if _, err := os.Stat(filepath.Join(dir, dbFile)); err != nil {
		t.Errorf("expected database file: %v", err)
	}
}

func TestNewStore_Reopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	s1, err := NewStore(types.PageStoreConfig{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	mustSave(t, s1, makeDoc("d1", "a.pdf", "alpha"))
	s1.Close()

	s2, err := NewStore(types.PageStoreConfig{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	docs, err := s2.Documents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("documents = %d, want 1", len(docs))
	}
	if s2.maxResults != defaultMaxResults {
		t.Errorf("maxResults = %d, want %d", s2.maxResults, defaultMaxResults)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	s, _ := testSetup(t)
	doc := makeDoc("d1", "papers/report.pdf", "first page", "", "third page")
	mustSave(t, s, doc)

	got, err := s.Document(context.Background(), "papers/report.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "d1" || got.Backend != "ledongthuc" {
		t.Errorf("got id=%q backend=%q", got.ID, got.Backend)
	}
	if !got.ExtractedAt.Equal(doc.ExtractedAt) {
		t.Errorf("extracted_at = %v, want %v", got.ExtractedAt, doc.ExtractedAt)
	}
	if got.Text() != doc.Text() {
		t.Errorf("text = %q, want %q", got.Text(), doc.Text())
	}
	if len(got.Pages) != 3 || got.Pages[1].Text != "" {
		t.Errorf("pages = %+v", got.Pages)
	}
}

func TestSave_ReplacesSameSource(t *testing.T) {
	s, _ := testSetup(t)
	mustSave(t, s, makeDoc("d1", "report.pdf", "old one", "old two", "old three"))
	mustSave(t, s, makeDoc("d2", "report.pdf", "new one"))

	docs, err := s.Documents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("documents = %d, want 1", len(docs))
	}
	if docs[0].ID != "d2" || docs[0].Pages != 1 {
		t.Errorf("document = %+v, want id d2 with 1 page", docs[0])
	}

	results, err := s.Search(context.Background(), QueryOptions{Query: "old"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("old pages still indexed: %+v", results)
	}
}

func TestDocument_NotIndexed(t *testing.T) {
	s, _ := testSetup(t)
	if _, err := s.Document(context.Background(), "missing.pdf"); err == nil {
		t.Error("expected error for unindexed document")
	}
}

func TestSearch(t *testing.T) {
	s, _ := testSetup(t)
	mustSave(t, s, makeDoc("d1", "a.pdf", "The Payment flow starts here", "nothing relevant"))
	mustSave(t, s, makeDoc("d2", "b.pdf", "refund and PAYMENT reversal"))

	tests := []struct {
		name      string
		opts      QueryOptions
		wantCount int
		wantFirst string
	}{
		{"case insensitive", QueryOptions{Query: "payment"}, 2, "a.pdf"},
		{"source filter", QueryOptions{Query: "payment", SourcePath: "b.pdf"}, 1, "b.pdf"},
		{"source only", QueryOptions{SourcePath: "a.pdf"}, 2, "a.pdf"},
		{"limit", QueryOptions{Query: "payment", MaxResults: 1}, 1, "a.pdf"},
		{"no match", QueryOptions{Query: "invoice"}, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := s.Search(context.Background(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != tt.wantCount {
				t.Fatalf("results = %d, want %d", len(results), tt.wantCount)
			}
			if tt.wantCount > 0 && results[0].SourcePath != tt.wantFirst {
				t.Errorf("first source = %q, want %q", results[0].SourcePath, tt.wantFirst)
			}
		})
	}
}

func TestSearch_NonASCIICase(t *testing.T) {
	s, _ := testSetup(t)
	mustSave(t, s, makeDoc("d1", "fr.pdf", "\u00c9COLE Stra\u00dfe"))

	tests := []struct {
		query     string
		wantCount int
	}{
		{"\u00e9cole", 1},
		{"\u00c9cole", 1},
		{"\u00c9COLE", 1},
		{"STRA\u1e9eE", 1},
		{"ecole", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results, err := s.Search(context.Background(), QueryOptions{Query: tt.query})
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != tt.wantCount {
				t.Fatalf("results = %d, want %d", len(results), tt.wantCount)
			}
			if tt.wantCount > 0 && results[0].Snippet != "\u00c9COLE Stra\u00dfe" {
				t.Errorf("snippet = %q", results[0].Snippet)
			}
		})
	}
}

func TestDocuments_BadTimestamp(t *testing.T) {
	s, _ := testSetup(t)
	_, err := s.db.Exec(`INSERT INTO documents (id, source_path, backend, page_count, extracted_at)
		VALUES ('d1', 'a.pdf', 'ledongthuc', 0, 'yesterday')`)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Documents(context.Background()); err == nil {
		t.Error("Documents: expected error for unparsable timestamp")
	}
	if _, err := s.Document(context.Background(), "a.pdf"); err == nil {
		t.Error("Document: expected error for unparsable timestamp")
	}
}

func TestQueryOptions_IsEmpty(t *testing.T) {
	if !(QueryOptions{MaxResults: 5}).IsEmpty() {
		t.Error("limit alone should count as empty")
	}
	if (QueryOptions{Query: "x"}).IsEmpty() {
		t.Error("query should not be empty")
	}
}

func TestSnippet(t *testing.T) {
	long := strings.Repeat("a", 100) + " Needle " + strings.Repeat("b", 100)

	tests := []struct {
		name  string
		text  string
		query string
		want  string
	}{
		{"short text with match", "find the needle here", "NEEDLE", "find the needle here"},
		{"collapses whitespace", "line one\n\nline   two", "two", "line one line two"},
		{"no query", "short", "", "short"},
		{"non-ASCII case", "voir l'\u00c9COLE demain", "\u00e9cole", "voir l'\u00c9COLE demain"},
		{
			"match in long text",
			long,
			"needle",
			"..." + strings.Repeat("a", 39) + " Needle " + strings.Repeat("b", 39) + "...",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snippet(tt.text, tt.query); got != tt.want {
				t.Errorf("snippet = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExport(t *testing.T) {
	s, dir := testSetup(t)
	mustSave(t, s, makeDoc("d1", "a.pdf", "alpha", "beta"))
	mustSave(t, s, makeDoc("d2", "b.pdf", "gamma"))

	yamlPath, err := s.ExportYAML(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if yamlPath != filepath.Join(dir, "export.yaml") {
		t.Errorf("yaml path = %q", yamlPath)
	}
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML []ExportEntry
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatal(err)
	}
	if len(fromYAML) != 3 {
		t.Errorf("yaml entries = %d, want 3", len(fromYAML))
	}

	jsonPath, err := s.ExportJSON(context.Background(), QueryOptions{SourcePath: "a.pdf"})
	if err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromJSON []ExportEntry
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatal(err)
	}
	if len(fromJSON) != 2 || fromJSON[1].Text != "beta" {
		t.Errorf("json entries = %+v", fromJSON)
	}
}
