// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gitlab-link/internal/index"
	"github.com/pdiddy/gitlab-link/internal/rewrite"
	"github.com/pdiddy/gitlab-link/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the reference index (build, query, export)",
	Long: `Index keeps a local SQLite database of the GitLab references found in
a set of markdown files. Use subcommands to build it, query it, or export.`,
}

// --- build subcommand ---

var indexBuildCmd = &cobra.Command{
	Use:   "build <paths...>",
	Short: "Scan markdown files and record their references",
	Long: `Build scans each markdown file (directories are walked for .md and
.markdown files) and records every reference that would be rewritten,
with its resolved link and byte offsets. Files whose content and link
configuration are unchanged are skipped on subsequent runs; indexed files
no longer found under the given paths are removed. An export.yaml is
written next to the database.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndexBuild,
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	t := rewrite.New(resolveConfig(), logger)
	summary, err := store.Ingest(cmd.Context(), t, args, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var indexQueryCmd = &cobra.Command{
	Use:   "query [label]",
	Short: "List indexed references by kind, label, URL, or chapter",
	Long: `Query lists indexed references. The optional argument matches part of
the link label (e.g. "#42" or "group/proj>"). Filters combine.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndexQuery,
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a label, --kind, --url, or --chapter")
	}
	switch opts.Kind {
	case "", types.RefIssue, types.RefMergeRequest, types.RefProject:
	default:
		return fmt.Errorf("unknown kind %q: use issue, merge_request, or project", opts.Kind)
	}

	store, err := index.NewStore(indexConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []index.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-13s  %-24s  %-30s  %s\n", "Kind", "Label", "Chapter", "URL")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, r := range results {
		label := r.Label
		if len(label) > 24 {
			label = label[:21] + "..."
		}
		chapter := r.Chapter
		if len(chapter) > 30 {
			chapter = "..." + chapter[len(chapter)-27:]
		}
		fmt.Fprintf(os.Stdout, "%-13s  %-24s  %-30s  %s\n", r.Kind, label, chapter, r.URL)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every indexed reference to export.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := indexConfig(cmd)
		store, err := index.NewStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.ExportYAML(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", filepath.Join(cfg.DBDir, "export.yaml"))
		return nil
	},
}

// --- shared helpers ---

func indexConfig(cmd *cobra.Command) types.IndexConfig {
	dbDir, _ := cmd.Flags().GetString("db-dir")
	if dbDir == "" {
		dbDir = filepath.Join(".gitlab-link", "index")
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return types.IndexConfig{DBDir: dbDir, MaxResults: maxResults}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	label, _ := cmd.Flags().GetString("label")
	if label == "" && len(args) > 0 {
		label = args[0]
	}
	kind, _ := cmd.Flags().GetString("kind")
	url, _ := cmd.Flags().GetString("url")
	chapter, _ := cmd.Flags().GetString("chapter")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Kind:       types.RefKind(kind),
		Label:      label,
		URL:        url,
		Chapter:    filepath.ToSlash(chapter),
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("db-dir", filepath.Join(".gitlab-link", "index"), "directory holding refs.db and export.yaml")
	indexCmd.PersistentFlags().Int("max-results", 50, "maximum number of query results")

	// Query flags.
	indexQueryCmd.Flags().String("label", "", "match part of the link label")
	indexQueryCmd.Flags().String("kind", "", "filter by kind: issue, merge_request, project")
	indexQueryCmd.Flags().String("url", "", "match part of the resolved URL")
	indexQueryCmd.Flags().String("chapter", "", "filter by chapter path")
	indexQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexQueryCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
