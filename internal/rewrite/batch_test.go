// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gitlab-link/pkg/types"
)

// setupBook creates a small source tree and returns its root.
func setupBook(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"intro.md":          "Tracking in #1.\n",
		"guide/setup.md":    "See group/app!2 and `#3`.\n",
		"guide/plain.md":    "No references.\n",
		"notes.txt":         "#4 is not markdown\n",
		"guide/deep/faq.md": "# FAQ #5\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCollectSources(t *testing.T) {
	root := setupBook(t)

	sources, err := CollectSources([]string{root})
	require.NoError(t, err)

	var rels []string
	for _, s := range sources {
		rels = append(rels, filepath.ToSlash(s.Rel))
	}
	assert.Equal(t, []string{"guide/deep/faq.md", "guide/plain.md", "guide/setup.md", "intro.md"}, rels)
}

func TestCollectSources_SingleFileAndMissing(t *testing.T) {
	root := setupBook(t)

	sources, err := CollectSources([]string{filepath.Join(root, "notes.txt")})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "notes.txt", sources[0].Rel)

	_, err = CollectSources([]string{filepath.Join(root, "missing.md")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading input")
}

func TestBatch_InPlace(t *testing.T) {
	root := setupBook(t)
	report := filepath.Join(t.TempDir(), "report.yaml")
	tr := New(testConfig, nil)

	var log bytes.Buffer
	result, err := tr.Batch(context.Background(), []string{root}, types.BatchConfig{ReportPath: report}, &log)
	require.NoError(t, err)

	assert.Equal(t, BatchResult{Rewritten: 2, Unchanged: 2}, result)
	assert.False(t, result.HasFailures())
	assert.Equal(t, 4, result.Total())

	assert.Equal(t, "Tracking in [#1](https://gitlab.example/ns/proj/-/issues/1).\n", readFile(t, filepath.Join(root, "intro.md")))
	assert.Equal(t, "See [group/app!2](https://gitlab.example/group/app/-/merge_requests/2) and `#3`.\n",
		readFile(t, filepath.Join(root, "guide", "setup.md")))
	assert.Equal(t, "# FAQ #5\n", readFile(t, filepath.Join(root, "guide", "deep", "faq.md")))

	assert.Contains(t, log.String(), "rewrote:")
	assert.Contains(t, log.String(), "unchanged:")
	assert.Contains(t, log.String(), "Batch summary: 2 rewritten, 2 unchanged, 0 failed (total: 4)")

	var reports []FileReport
	require.NoError(t, yaml.Unmarshal([]byte(readFile(t, report)), &reports))
	require.Len(t, reports, 2)
	assert.True(t, strings.HasSuffix(filepath.ToSlash(reports[0].Path), "guide/setup.md"))
	require.Len(t, reports[0].References, 1)
	assert.Equal(t, types.RefMergeRequest, reports[0].References[0].Ref.Kind)
	assert.Equal(t, "group/app!2", reports[0].References[0].Link.Label)
}

func TestBatch_OutputDir(t *testing.T) {
	root := setupBook(t)
	out := t.TempDir()
	tr := New(testConfig, nil)

	var log bytes.Buffer
	result, err := tr.Batch(context.Background(), []string{root}, types.BatchConfig{OutputDir: out}, &log)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rewritten)

	// Sources stay untouched.
	assert.Equal(t, "Tracking in #1.\n", readFile(t, filepath.Join(root, "intro.md")))

	// Every markdown file lands in the output tree, changed or not.
	assert.Contains(t, readFile(t, filepath.Join(out, "intro.md")), "[#1](")
	assert.Equal(t, "No references.\n", readFile(t, filepath.Join(out, "guide", "plain.md")))
	_, err = os.Stat(filepath.Join(out, "notes.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestBatch_Cancelled(t *testing.T) {
	root := setupBook(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var log bytes.Buffer
	_, err := New(testConfig, nil).Batch(ctx, []string{root}, types.BatchConfig{}, &log)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRewriteFile_Unreadable(t *testing.T) {
	var log bytes.Buffer
	status, refs := New(testConfig, nil).RewriteFile(Source{Root: t.TempDir(), Rel: "gone.md"}, "", &log)
	assert.Equal(t, StatusFailed, status)
	assert.Nil(t, refs)
	assert.Contains(t, log.String(), "failed:")
}
