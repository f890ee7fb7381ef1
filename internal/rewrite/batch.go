// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gitlab-link/pkg/types"
)

// FileStatus is the outcome of rewriting one file.
type FileStatus string

const (
	StatusRewritten FileStatus = "rewritten"
	StatusUnchanged FileStatus = "unchanged"
	StatusFailed    FileStatus = "failed"
)

// Source is a markdown file found under one of the batch inputs. Rel is
// its path relative to Root and decides where it lands under an output
// directory.
type Source struct {
	Root string
	Rel  string
}

// Path returns the file's location on disk.
func (s Source) Path() string {
	return filepath.Join(s.Root, s.Rel)
}

// BatchResult holds the outcome of a batch rewrite run.
type BatchResult struct {
	Rewritten int
	Unchanged int
	Failed    int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Rewritten + r.Unchanged + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// FileReport lists the references rewritten in one file.
type FileReport struct {
	Path       string                   `json:"path" yaml:"path"`
	References []types.AppliedReference `json:"references" yaml:"references"`
}

// CollectSources expands paths into markdown sources. A directory yields
// every *.md and *.markdown file beneath it in lexical order; a file is
// taken as given.
func CollectSources(paths []string) ([]Source, error) {
	var sources []Source
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading input %s: %w", p, err)
		}
		if !info.IsDir() {
			sources = append(sources, Source{Root: filepath.Dir(p), Rel: filepath.Base(p)})
			continue
		}

		var found []Source
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isMarkdown(path) {
				return nil
			}
			rel, err := filepath.Rel(p, path)
			if err != nil {
				return err
			}
			found = append(found, Source{Root: p, Rel: rel})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
		sort.Slice(found, func(i, j int) bool { return found[i].Rel < found[j].Rel })
		sources = append(sources, found...)
	}
	return sources, nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// RewriteFile rewrites one source. With an empty outDir the file is
// rewritten in place, and left untouched when nothing changed. Otherwise
// the result is always written under outDir at the source's relative path.
func (t *Transformer) RewriteFile(src Source, outDir string, w io.Writer) (FileStatus, []types.AppliedReference) {
	data, err := os.ReadFile(src.Path())
	if err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", src.Path(), err)
		return StatusFailed, nil
	}

	out, refs := t.TransformRefs(string(data))

	dest := src.Path()
	if outDir != "" {
		dest = filepath.Join(outDir, src.Rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", src.Path(), err)
			return StatusFailed, nil
		}
	}

	if len(refs) == 0 {
		if outDir != "" {
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				fmt.Fprintf(w, "failed:    %s (%v)\n", src.Path(), err)
				return StatusFailed, nil
			}
		}
		fmt.Fprintf(w, "unchanged: %s\n", src.Path())
		return StatusUnchanged, nil
	}

	if err := os.WriteFile(dest, []byte(out), 0o644); err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", src.Path(), err)
		return StatusFailed, nil
	}

	fmt.Fprintf(w, "rewrote:   %s (%d refs)\n", src.Path(), len(refs))
	return StatusRewritten, refs
}

// Batch rewrites every markdown file under paths, printing per-file
// status to w and returning a summary. When cfg.ReportPath is set, a YAML
// report of the rewritten references is written there.
func (t *Transformer) Batch(ctx context.Context, paths []string, cfg types.BatchConfig, w io.Writer) (BatchResult, error) {
	sources, err := CollectSources(paths)
	if err != nil {
		return BatchResult{}, err
	}

	var (
		result  BatchResult
		reports []FileReport
	)
	for _, src := range sources {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		status, refs := t.RewriteFile(src, cfg.OutputDir, w)
		switch status {
		case StatusRewritten:
			result.Rewritten++
			reports = append(reports, FileReport{Path: src.Path(), References: refs})
		case StatusUnchanged:
			result.Unchanged++
		case StatusFailed:
			result.Failed++
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d rewritten, %d unchanged, %d failed (total: %d)\n",
		result.Rewritten, result.Unchanged, result.Failed, result.Total())

	if cfg.ReportPath != "" {
		if err := WriteReport(cfg.ReportPath, reports); err != nil {
			return result, err
		}
	}
	return result, nil
}

// WriteReport writes reports to path as YAML.
func WriteReport(path string, reports []FileReport) error {
	if reports == nil {
		reports = []FileReport{}
	}
	data, err := yaml.Marshal(reports)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
