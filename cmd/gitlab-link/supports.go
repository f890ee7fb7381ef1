// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gitlab-link/internal/mdbook"
)

var supportsCmd = &cobra.Command{
	Use:   "supports <renderer>",
	Short: "Report whether a renderer is supported (mdBook protocol)",
	Long: `Supports exits 0 when the preprocessor should run for the named mdBook
renderer and 1 otherwise. Only the html renderer is supported.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !mdbook.SupportsRenderer(args[0]) {
			logger.Debug("renderer not supported", "renderer", args[0])
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(supportsCmd)
}
