// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gitlab-link/internal/rewrite"
	"github.com/pdiddy/gitlab-link/pkg/types"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite <paths...>",
	Short: "Rewrite GitLab references in markdown files",
	Long: `Rewrite replaces GitLab references in the given markdown files with
links. Directories are walked for .md and .markdown files. Files are
rewritten in place unless --out names a directory to mirror them into.

Use --report to write a YAML list of every reference rewritten per file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRewrite,
}

func runRewrite(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	report, _ := cmd.Flags().GetString("report")

	cfg := resolveConfig()
	if cfg.ServerURL == "" {
		logger.Warn("no GitLab server URL configured; links will be relative")
	}

	t := rewrite.New(cfg, logger)
	result, err := t.Batch(cmd.Context(), args, types.BatchConfig{
		OutputDir:  outDir,
		ReportPath: report,
	}, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed", result.Failed)
	}
	return nil
}

func init() {
	rewriteCmd.Flags().String("out", "", "write rewritten files under this directory instead of in place")
	rewriteCmd.Flags().String("report", "", "write a YAML report of rewritten references to this path")

	rootCmd.AddCommand(rewriteCmd)
}
