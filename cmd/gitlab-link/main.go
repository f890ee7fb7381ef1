// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gitlab-link CLI. Run without
// arguments it is an mdBook preprocessor; the subcommands rewrite and
// index markdown files directly.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gitlab-link/internal/config"
	"github.com/pdiddy/gitlab-link/internal/logging"
	"github.com/pdiddy/gitlab-link/internal/mdbook"
	"github.com/pdiddy/gitlab-link/internal/values"
	"github.com/pdiddy/gitlab-link/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is configured from the global flags before any command runs.
	logger = slog.New(slog.DiscardHandler)

	// baseTable holds the static configuration layers: value files, then
	// the config file and GITLAB_LINK_* variables, then explicit flags.
	baseTable map[string]any
)

// flagKeys maps global flags to the table keys they set.
var flagKeys = map[string]string{
	"server-url": config.KeyServerURL,
	"project":    config.KeyProjectName,
	"namespace":  config.KeyProjectNamespace,
}

// rootCmd is the base command. With no subcommand it runs the mdBook
// preprocessor protocol over stdin and stdout.
var rootCmd = &cobra.Command{
	Use:   "gitlab-link",
	Short: "Turn GitLab issue, merge request, and project references into links",
	Long: `gitlab-link rewrites shorthand GitLab references in markdown into links:

  #42, proj#42, group/proj#42     issues
  !7, proj!7, group/sub/proj!7    merge requests
  group/proj>, group/sub/proj>    projects

Text inside code blocks, inline code, headings, links, and images is left
alone. Run without arguments, gitlab-link acts as an mdBook preprocessor:
add [preprocessor.gitlab-link] to book.toml. CI_SERVER_URL,
CI_PROJECT_NAME, and CI_PROJECT_NAMESPACE override any configured value.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		l, err := logging.Init(os.Stderr, level, logging.Format(format))
		if err != nil {
			return err
		}
		logger = l

		if err := viper.ReadInConfig(); err == nil {
			logger.Debug("using config file", "path", viper.ConfigFileUsed())
		}

		dir, _ := cmd.Flags().GetString("values-dir")
		vals, err := values.Load(dir)
		if err != nil {
			return err
		}
		if len(vals) > 0 {
			logger.Debug("loaded value files", "dir", dir, "count", len(vals))
		}

		baseTable = config.Merge(config.FromStrings(vals), viper.AllSettings(), changedFlags(cmd))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return mdbook.Run(os.Stdin, os.Stdout, os.LookupEnv, baseTable, logger)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gitlab-link.yaml or ~/.config/gitlab-link/config.yaml)")
	rootCmd.PersistentFlags().String("values-dir", ".gitlab-link", "directory of value files, one file per configuration key")
	rootCmd.PersistentFlags().String("server-url", "", "GitLab server URL (e.g. https://gitlab.example)")
	rootCmd.PersistentFlags().String("project", "", "project assumed when a reference names none")
	rootCmd.PersistentFlags().String("namespace", "", "namespace assumed when a reference names none")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gitlab-link")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gitlab-link"))
		}
	}

	viper.SetEnvPrefix("GITLAB_LINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range config.Keys {
		_ = viper.BindEnv(key)
	}
}

// changedFlags returns the table entries for global flags set on the
// command line. Unset flags contribute nothing so they cannot mask lower
// layers with empty strings.
func changedFlags(cmd *cobra.Command) map[string]any {
	table := make(map[string]any)
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f != nil && f.Changed {
			table[key] = f.Value.String()
		}
	}
	return table
}

// resolveConfig resolves the link configuration for the standalone
// subcommands.
func resolveConfig() types.LinkConfig {
	return config.Resolve(os.LookupEnv, baseTable)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
