// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf-extract/internal/extract"
	"github.com/pdiddy/pdf-extract/internal/pagestore"
)

var extractCmd = &cobra.Command{
	Use:   "extract [input.pdf]",
	Short: "Extract the text of every page of a PDF",
	Long: `Extract prints "PDF Pages: N" followed by each page's text between
"--- PAGE n ---" headers and rules of '=' characters, then writes all page
texts, separated by a blank line, to the output file.

Any failure (missing file, corrupt PDF, unreadable page) aborts the run and
no output file is written. A PDF without extractable text produces a
warning and no output file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd.Flags(), extractFlags); err != nil {
		return err
	}
	cfg := loadConfig(v, args)

	e := extract.New(extract.NewLedongthucSource(), cfg.Extraction, cmd.OutOrStdout(),
		extract.WithLogger(logger))

	res, err := e.Run(cmd.Context())
	if errors.Is(err, extract.ErrNoText) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("extracting %s: %w; no output file was produced", cfg.Extraction.Input, err)
	}

	if !cfg.Index {
		return nil
	}

	store, err := pagestore.NewStore(cfg.PageStore)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(cmd.Context(), res.Document); err != nil {
		return fmt.Errorf("indexing %s: %w", cfg.Extraction.Input, err)
	}
	logger.Info("indexed document",
		zap.String("source", res.Document.SourcePath),
		zap.Int("pages", res.Document.NumPages()))
	return nil
}

func init() {
	addExtractFlags(extractCmd.Flags())
	rootCmd.AddCommand(extractCmd)
}
