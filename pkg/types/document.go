// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// PageSeparator joins page texts in the extracted document.
const PageSeparator = "\n\n"

// Page holds the text extracted from one PDF page.
type Page struct {
	// Number is the 1-based page number.
	Number int `json:"number" yaml:"number"`

	// Text is the page text as returned by the PDF library. Pages without
	// content have an empty Text but keep their position.
	Text string `json:"text" yaml:"text"`
}

// Document is the ordered sequence of pages extracted from one PDF.
type Document struct {
	// ID identifies one extraction run.
	ID string `json:"id" yaml:"id"`

	// SourcePath is the path of the PDF the pages came from.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// Backend names the library that produced the text.
	Backend string `json:"backend" yaml:"backend"`

	Pages []Page `json:"pages" yaml:"pages"`

	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}

// Text returns the page texts joined by PageSeparator.
func (d Document) Text() string {
	texts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, PageSeparator)
}

// NumPages returns the number of pages in the document.
func (d Document) NumPages() int {
	return len(d.Pages)
}

// Manifest describes a finished extraction run. It is written as a YAML
// sidecar next to the output file.
type Manifest struct {
	DocumentID  string    `json:"document_id" yaml:"document_id"`
	Source      string    `json:"source" yaml:"source"`
	Output      string    `json:"output" yaml:"output"`
	Backend     string    `json:"backend" yaml:"backend"`
	Pages       int       `json:"pages" yaml:"pages"`
	PageChars   []int     `json:"page_chars" yaml:"page_chars"`
	TotalChars  int       `json:"total_chars" yaml:"total_chars"`
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}
