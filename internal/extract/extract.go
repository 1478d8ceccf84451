// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract reads the text of every page of a PDF, echoes it to a
// console writer with page delimiters, and writes the joined text to an
// output file. Parsing is delegated to a PageSource backend.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/pdf-extract/pkg/types"
)

var (
	// ErrNoText is returned by Run when every page came back empty and no
	// output file was written.
	ErrNoText = errors.New("no text extracted")

	// ErrPageCountMismatch is returned when validation and the text
	// backend disagree on the number of pages.
	ErrPageCountMismatch = errors.New("page count mismatch")
)

// PageReader gives access to the pages of one open PDF.
type PageReader interface {
	// NumPage returns the number of pages in the document.
	NumPage() int

	// PageText returns the plain text of page n (1-based).
	PageText(n int) (string, error)

	Close() error
}

// PageSource opens PDFs for text extraction. Different PDF libraries
// implement this interface.
type PageSource interface {
	// Name identifies the backend (e.g. "ledongthuc").
	Name() string

	// Open prepares the PDF at path for reading.
	Open(path string) (PageReader, error)
}

// Validator checks a PDF's structure before text extraction and reports
// its page count.
type Validator interface {
	Validate(path string) (pages int, err error)
}

// Extractor runs the extraction pipeline for one PDF at a time.
type Extractor struct {
	source    PageSource
	validator Validator
	cfg       types.ExtractionConfig
	stdout    io.Writer
	log       *zap.Logger

	now   func() time.Time
	newID func() string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithValidator sets the validator used when cfg.Validate is true.
func WithValidator(v Validator) Option {
	return func(e *Extractor) { e.validator = v }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Extractor) { e.log = log }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// New creates an Extractor that reads PDFs through src and echoes page text
// to stdout. When cfg.Quiet is set the echo is discarded.
func New(src PageSource, cfg types.ExtractionConfig, stdout io.Writer, opts ...Option) *Extractor {
	e := &Extractor{
		source: src,
		cfg:    cfg,
		stdout: stdout,
		log:    zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg.Quiet || e.stdout == nil {
		e.stdout = io.Discard
	}
	if e.cfg.Validate && e.validator == nil {
		e.validator = NewPDFCPUValidator()
	}
	return e
}

// Extract reads every page of the PDF at path, printing each page as it
// is read. Any failure aborts the whole document.
func (e *Extractor) Extract(ctx context.Context, path string) (types.Document, error) {
	var expected int
	if e.cfg.Validate {
		n, err := e.validator.Validate(path)
		if err != nil {
			return types.Document{}, fmt.Errorf("validating %s: %w", path, err)
		}
		expected = n
		e.log.Debug("validated PDF", zap.String("path", path), zap.Int("pages", n))
	}

	r, err := e.source.Open(path)
	if err != nil {
		return types.Document{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	total := r.NumPage()
	if e.cfg.Validate && expected != total {
		return types.Document{}, fmt.Errorf("%w: validator reports %d, %s reports %d",
			ErrPageCountMismatch, expected, e.source.Name(), total)
	}

	doc := types.Document{
		ID:          e.newID(),
		SourcePath:  path,
		Backend:     e.source.Name(),
		Pages:       make([]types.Page, 0, total),
		ExtractedAt: e.now().UTC(),
	}

	printHeader(e.stdout, total)

	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return types.Document{}, err
		}

		text, err := r.PageText(n)
		if err != nil {
			return types.Document{}, fmt.Errorf("extracting page %d of %s: %w", n, path, err)
		}
		if e.cfg.Normalize {
			text = norm.NFC.String(text)
		}

		page := types.Page{Number: n, Text: text}
		doc.Pages = append(doc.Pages, page)
		printPage(e.stdout, page)
	}

	e.log.Debug("extracted document",
		zap.String("path", path),
		zap.Int("pages", total),
		zap.String("backend", doc.Backend))

	return doc, nil
}

// Result describes a finished Run.
type Result struct {
	Document     types.Document
	OutputPath   string
	ManifestPath string
}

// Run extracts the configured input and writes the joined page text to the
// configured output. The output file is created only when extraction of
// every page succeeded and the joined text is non-empty.
func (e *Extractor) Run(ctx context.Context) (Result, error) {
	input := e.cfg.Input
	output := e.cfg.Output
	if output == "" {
		output = OutputPath(input)
	}

	doc, err := e.Extract(ctx, input)
	if err != nil {
		return Result{}, err
	}

	res := Result{Document: doc}

	text := doc.Text()
	if text == "" {
		e.log.Warn("PDF contains no extractable text; output file not written",
			zap.String("path", input), zap.Int("pages", doc.NumPages()))
		return res, ErrNoText
	}

	// The manifest goes first so that the output file only appears once
	// every write has succeeded.
	var mp string
	if e.cfg.Manifest {
		mp = ManifestPath(output)
		if err := WriteManifest(mp, NewManifest(doc, output)); err != nil {
			return res, err
		}
	}

	if err := writeFileAtomic(output, []byte(text)); err != nil {
		if mp != "" {
			os.Remove(mp)
		}
		return res, fmt.Errorf("writing %s: %w", output, err)
	}
	res.OutputPath = output
	res.ManifestPath = mp

	printSaved(e.stdout, output)
	e.log.Info("text saved",
		zap.String("output", output),
		zap.Int("pages", doc.NumPages()),
		zap.Int("chars", len(text)))

	return res, nil
}
