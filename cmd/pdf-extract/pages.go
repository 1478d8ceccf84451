// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-extract/internal/pagestore"
)

// pagesFlags maps configuration keys to the flags shared by pages subcommands.
var pagesFlags = map[string]string{
	keyIndexDir:   "index-dir",
	keyMaxResults: "max-results",
}

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Query the page index (search, list, export)",
	Long: `Pages works with the local SQLite page index filled by
"pdf-extract extract --index". Use subcommands to search page text, list
indexed documents, or export the index.`,
}

// --- search subcommand ---

var pagesSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed page text",
	Long: `Search finds indexed pages containing the query, ignoring ASCII case.
Use --source to restrict the search to one document.`,
	RunE: runPagesSearch,
}

func runPagesSearch(cmd *cobra.Command, args []string) error {
	store, err := openPageStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query or --source")
	}

	results, err := store.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []pagestore.PageResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-30s  %-4s  %s\n", "Rank", "Source", "Page", "Snippet")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range results {
		source := r.SourcePath
		if len(source) > 30 {
			source = "..." + source[len(source)-27:]
		}
		fmt.Fprintf(w, "%-4d  %-30s  %-4d  %s\n", i+1, source, r.Page, r.Snippet)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- list subcommand ---

var pagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPageStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		docs, err := store.Documents(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(docs) == 0 {
			fmt.Fprintln(w, "No documents indexed.")
			return nil
		}
		for _, d := range docs {
			fmt.Fprintf(w, "%s  %3d pages  %s  %s\n",
				d.ExtractedAt.Format("2006-01-02 15:04"), d.Pages, d.Backend, d.SourcePath)
		}
		return nil
	},
}

// --- export subcommand ---

var pagesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export indexed pages to YAML or JSON",
	Long: `Export writes the indexed pages (or the pages of one document) to
export.yaml or export.json inside the index directory.`,
	RunE: runPagesExport,
}

func runPagesExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openPageStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func openPageStore(cmd *cobra.Command) (*pagestore.Store, error) {
	v := viper.GetViper()
	if err := bindFlags(v, cmd.Flags(), pagesFlags); err != nil {
		return nil, err
	}
	return pagestore.NewStore(loadConfig(v, nil).PageStore)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) pagestore.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	return pagestore.QueryOptions{
		Query:      queryText,
		SourcePath: source,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	pagesCmd.PersistentFlags().String("index-dir", defaultIndexDir, "directory holding the page index")
	pagesCmd.PersistentFlags().Int("max-results", 20, "maximum number of search results")

	pagesSearchCmd.Flags().String("query", "", "text to search for")
	pagesSearchCmd.Flags().String("source", "", "restrict to one source PDF path")
	pagesSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	pagesSearchCmd.Flags().Bool("json", false, "output results as JSON")

	pagesExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	pagesExportCmd.Flags().String("query", "", "text filter for partial export")
	pagesExportCmd.Flags().String("source", "", "export only one source PDF path")
	pagesExportCmd.Flags().Int("limit", 0, "maximum pages to export (0 = all)")

	pagesCmd.AddCommand(pagesSearchCmd)
	pagesCmd.AddCommand(pagesListCmd)
	pagesCmd.AddCommand(pagesExportCmd)

	rootCmd.AddCommand(pagesCmd)
}
