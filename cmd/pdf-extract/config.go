// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-extract/internal/extract"
	"github.com/pdiddy/pdf-extract/pkg/types"
)

// Configuration keys. Each can be set in pdf-extract.yaml, as
// PDF_EXTRACT_<KEY> in the environment, or through its flag.
const (
	keyInput      = "input"
	keyOutput     = "output"
	keyValidate   = "validate"
	keyNormalize  = "normalize"
	keyManifest   = "manifest"
	keyQuiet      = "quiet"
	keyIndex      = "index"
	keyIndexDir   = "index_dir"
	keyMaxResults = "max_results"
	keyLogLevel   = "log_level"
)

const defaultIndexDir = ".pdf-extract"

// extractFlags maps configuration keys to the extract flags that set them.
var extractFlags = map[string]string{
	keyInput:     "input",
	keyOutput:    "output",
	keyValidate:  "validate",
	keyNormalize: "normalize",
	keyManifest:  "manifest",
	keyQuiet:     "quiet",
	keyIndex:     "index",
	keyIndexDir:  "index-dir",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyInput, types.DefaultInput)
	v.SetDefault(keyIndexDir, defaultIndexDir)
	v.SetDefault(keyMaxResults, 20)
	v.SetDefault(keyLogLevel, "info")
}

func addExtractFlags(fs *pflag.FlagSet) {
	fs.StringP("input", "i", "", "PDF to read (default \""+types.DefaultInput+"\")")
	fs.StringP("output", "o", "", "text file to write (default: <input>_extracted.txt)")
	fs.Bool("validate", false, "validate the PDF with pdfcpu before extracting")
	fs.Bool("normalize", false, "normalize extracted text to Unicode NFC")
	fs.Bool("manifest", false, "write a YAML manifest next to the output file")
	fs.BoolP("quiet", "q", false, "do not echo page text to stdout")
	fs.Bool("index", false, "record the extracted pages in the page index")
	fs.String("index-dir", defaultIndexDir, "directory holding the page index")
}

// bindFlags binds the flags present in fs to their configuration keys.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, flags map[string]string) error {
	for key, name := range flags {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig resolves the run configuration. A positional input argument
// takes precedence over every other source.
func loadConfig(v *viper.Viper, args []string) types.Config {
	input := v.GetString(keyInput)
	if len(args) > 0 && args[0] != "" {
		input = args[0]
	}

	output := v.GetString(keyOutput)
	if output == "" {
		if input == types.DefaultInput {
			output = types.DefaultOutput
		} else {
			output = extract.OutputPath(input)
		}
	}

	return types.Config{
		Extraction: types.ExtractionConfig{
			Input:     input,
			Output:    output,
			Validate:  v.GetBool(keyValidate),
			Normalize: v.GetBool(keyNormalize),
			Manifest:  v.GetBool(keyManifest),
			Quiet:     v.GetBool(keyQuiet),
		},
		Index: v.GetBool(keyIndex),
		PageStore: types.PageStoreConfig{
			Dir:        v.GetString(keyIndexDir),
			MaxResults: v.GetInt(keyMaxResults),
		},
		Log: types.LogConfig{
			Level: v.GetString(keyLogLevel),
		},
	}
}
