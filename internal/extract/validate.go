// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCPUValidator checks PDFs with pdfcpu in relaxed validation mode.
type PDFCPUValidator struct {
	conf *model.Configuration
}

// NewPDFCPUValidator returns a validator tolerant of the common
// structural defects found in real-world PDFs.
func NewPDFCPUValidator() *PDFCPUValidator {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCPUValidator{conf: conf}
}

// Validate runs pdfcpu validation on path and returns its page count.
func (v *PDFCPUValidator) Validate(path string) (int, error) {
	if err := api.ValidateFile(path, v.conf); err != nil {
		return 0, fmt.Errorf("pdfcpu validation: %w", err)
	}
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu page count: %w", err)
	}
	return n, nil
}
