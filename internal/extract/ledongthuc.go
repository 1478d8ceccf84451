// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

const backendLedongthuc = "ledongthuc"

// LedongthucSource reads page text with github.com/ledongthuc/pdf.
type LedongthucSource struct{}

// NewLedongthucSource returns the default PageSource.
func NewLedongthucSource() *LedongthucSource {
	return &LedongthucSource{}
}

// Name returns "ledongthuc".
func (s *LedongthucSource) Name() string {
	return backendLedongthuc
}

// Open opens the PDF at path. The library panics on some malformed files;
// those panics are returned as errors and the file is closed.
func (s *LedongthucSource) Open(path string) (pr PageReader, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rec := recover(); rec != nil {
			pr = nil
			err = fmt.Errorf("reading PDF structure: %v", rec)
		}
		if err != nil {
			f.Close()
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	r, err := pdf.NewReader(f, fi.Size())
	if err != nil {
		return nil, err
	}
	return &ledongthucReader{file: f, reader: r}, nil
}

type ledongthucReader struct {
	file   *os.File
	reader *pdf.Reader
}

func (l *ledongthucReader) NumPage() int {
	return l.reader.NumPage()
}

// PageText returns "" for pages that have no page object.
func (l *ledongthucReader) PageText(n int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("decoding page: %v", rec)
		}
	}()

	p := l.reader.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func (l *ledongthucReader) Close() error {
	return l.file.Close()
}
