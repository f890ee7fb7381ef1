// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package splice applies several replacements to one string.
package splice

import (
	"fmt"
	"sort"

	"github.com/pdiddy/gitlab-link/pkg/types"
)

// Apply replaces each span of content with its text. Spans are applied in
// descending start order so that a replacement never moves the offsets of
// the spans still waiting. Spans must lie within content and must not
// overlap; Apply panics otherwise.
func Apply(content string, spans []types.ReplacementSpan) string {
	if len(spans) == 0 {
		return content
	}

	ordered := make([]types.ReplacementSpan, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start > ordered[j].Start
	})

	limit := len(content)
	for _, s := range ordered {
		if s.Start < 0 || s.Start > s.End || s.End > limit {
			panic(fmt.Sprintf("splice: span [%d, %d) out of bounds or overlapping (limit %d)", s.Start, s.End, limit))
		}
		limit = s.Start
	}

	out := content
	for _, s := range ordered {
		out = out[:s.Start] + s.Text + out[s.End:]
	}
	return out
}
