// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scannable(content string, opts Options) string {
	var parts []string
	for _, f := range Fragments(content, opts) {
		parts = append(parts, f.Text(content))
	}
	return strings.Join(parts, "|")
}

func TestFragments(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains []string
		excludes []string
	}{
		{
			name:     "plain paragraph",
			content:  "see #7 here",
			contains: []string{"see #7 here"},
		},
		{
			name:     "heading skipped",
			content:  "# Title #7\n\nbody #8\n",
			contains: []string{"body #8"},
			excludes: []string{"Title", "#7"},
		},
		{
			name:     "fenced code skipped",
			content:  "```\n#7\n```\n\nafter #8\n",
			contains: []string{"after #8"},
			excludes: []string{"#7"},
		},
		{
			name:     "indented code skipped",
			content:  "text\n\n    #7 in code\n\nmore\n",
			contains: []string{"text", "more"},
			excludes: []string{"#7"},
		},
		{
			name:     "inline code skipped",
			content:  "a `#7` b",
			excludes: []string{"#7"},
		},
		{
			name:     "link label skipped",
			content:  "[#7](https://x.example) and #8",
			contains: []string{"and #8"},
			excludes: []string{"#7"},
		},
		{
			name:     "image alt skipped",
			content:  "![#7](pic.png) then #8",
			contains: []string{"then #8"},
			excludes: []string{"#7"},
		},
		{
			name:     "emphasis scanned",
			content:  "*see #7*",
			contains: []string{"see #7"},
		},
		{
			name:     "list items scanned",
			content:  "- one #1\n- two #2\n",
			contains: []string{"one #1", "two #2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scannable(tt.content, Options{})
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, got, bad)
			}
		})
	}
}

func TestFragments_SplitTextMerged(t *testing.T) {
	content := "Merge !12 now"
	frags := Fragments(content, Options{})
	require.Len(t, frags, 1)
	assert.Equal(t, content, frags[0].Text(content))
}

func TestFragments_OffsetsPointIntoSource(t *testing.T) {
	content := "# Head\n\nfirst #1\n\nsecond #2\n"
	for _, f := range Fragments(content, Options{}) {
		require.True(t, f.Start >= 0 && f.Start < f.End && f.End <= len(content))
		assert.NotContains(t, f.Text(content), "\n")
	}
}

func TestFragments_LinkInsideHeading(t *testing.T) {
	content := "# See [docs](https://x.example) #7\n"

	assert.Contains(t, scannable(content, Options{}), "#7",
		"flag mode clears skipping when the link closes")
	assert.NotContains(t, scannable(content, Options{Nested: true}), "#7",
		"nested mode keeps the heading open")
}

func TestFragments_Linkify(t *testing.T) {
	content := "visit https://x.example/p#7 now"

	assert.Contains(t, scannable(content, Options{}), "#7")
	assert.NotContains(t, scannable(content, Options{Linkify: true}), "#7")
}

func TestFragments_Empty(t *testing.T) {
	assert.Empty(t, Fragments("", Options{}))
	assert.Empty(t, Fragments("```\ncode\n```\n", Options{}))
}
