// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-extract/pkg/types"
)

const (
	ruleWidth      = 80
	outputSuffix   = "_extracted.txt"
	manifestSuffix = ".manifest.yaml"
)

var rule = strings.Repeat("=", ruleWidth)

func printHeader(w io.Writer, pages int) {
	fmt.Fprintf(w, "PDF Pages: %d\n\n", pages)
	fmt.Fprintln(w, rule)
}

func printPage(w io.Writer, p types.Page) {
	fmt.Fprintf(w, "\n--- PAGE %d ---\n\n", p.Number)
	fmt.Fprintln(w, p.Text)
	fmt.Fprintf(w, "\n%s\n", rule)
}

func printSaved(w io.Writer, path string) {
	fmt.Fprintf(w, "\n\n✓ Text extracted and saved to %s\n", path)
}

// OutputPath derives the text output path for input: the input's base
// name with "_extracted.txt" in the same directory.
func OutputPath(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), base+outputSuffix)
}

// ManifestPath returns the sidecar path for an output file.
func ManifestPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + manifestSuffix
}

// writeFileAtomic writes data to a temporary file beside path and renames
// it into place, so path is never left holding a partial write.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".pdf-extract-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// NewManifest summarizes doc as written to output.
func NewManifest(doc types.Document, output string) types.Manifest {
	m := types.Manifest{
		DocumentID:  doc.ID,
		Source:      doc.SourcePath,
		Output:      output,
		Backend:     doc.Backend,
		Pages:       doc.NumPages(),
		PageChars:   make([]int, len(doc.Pages)),
		ExtractedAt: doc.ExtractedAt,
	}
	for i, p := range doc.Pages {
		n := len([]rune(p.Text))
		m.PageChars[i] = n
		m.TotalChars += n
	}
	return m
}

// WriteManifest writes m as YAML to path.
func WriteManifest(path string, m types.Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (types.Manifest, error) {
	var m types.Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}
