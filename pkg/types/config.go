// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Default paths used when no input is configured.
const (
	DefaultInput  = "VISANET- user journey.pdf"
	DefaultOutput = "VISANET_user_journey_extracted.txt"
)

// ExtractionConfig holds settings for a single extraction run.
type ExtractionConfig struct {
	// Input is the path of the PDF to read.
	Input string `json:"input" yaml:"input"`

	// Output is the path of the text file to write.
	Output string `json:"output" yaml:"output"`

	// Validate runs a relaxed pdfcpu validation and page count check
	// before extracting text.
	Validate bool `json:"validate" yaml:"validate"`

	// Normalize converts extracted text to Unicode NFC.
	Normalize bool `json:"normalize" yaml:"normalize"`

	// Manifest writes a YAML sidecar next to the output file.
	Manifest bool `json:"manifest" yaml:"manifest"`

	// Quiet suppresses the per-page echo on stdout. The output file is
	// still written.
	Quiet bool `json:"quiet" yaml:"quiet"`
}

// PageStoreConfig holds settings for the page index.
type PageStoreConfig struct {
	// Dir is the directory holding pages.db and exports.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`
}

// Config groups all settings read from flags, environment and config file.
type Config struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`

	// Index records each successful extraction in the page store.
	Index bool `json:"index" yaml:"index"`

	PageStore PageStoreConfig `json:"page_store" yaml:"page_store"`
	Log       LogConfig       `json:"log" yaml:"log"`
}
