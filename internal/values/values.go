// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package values loads link configuration from a directory of plain-text
// files. Each file is one value: the filename is the configuration key and
// the trimmed file contents are the value. This is the layout of GitLab CI
// file variables and of mounted config maps, which often hold unrelated
// files, so only names listed in config.Keys are taken.
package values

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/gitlab-link/internal/config"
)

// Load reads the configuration files in dir and returns a map of key to
// trimmed contents. A missing directory is not an error; Load returns an
// empty map. Files named after no configuration key are ignored, and
// unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading values directory %s: %w", dir, err)
	}

	values := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !config.IsKey(name) {
			slog.Debug("ignoring value file with unknown key", "dir", dir, "name", name)
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read value file", "name", name, "err", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			values[name] = value
		}
	}

	return values, nil
}
