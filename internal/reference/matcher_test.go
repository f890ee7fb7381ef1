// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gitlab-link/pkg/types"
)

func TestFindAll(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Match
	}{
		{
			name: "bare issue",
			text: "see #42",
			want: []Match{{
				Ref:   types.RawReference{Kind: types.RefIssue, ID: "42", Text: "#42"},
				Start: 4, End: 7,
			}},
		},
		{
			name: "bare merge request",
			text: "Merge !7.",
			want: []Match{{
				Ref:   types.RawReference{Kind: types.RefMergeRequest, ID: "7", Text: "!7"},
				Start: 6, End: 8,
			}},
		},
		{
			name: "project issue",
			text: "proj#2",
			want: []Match{{
				Ref:   types.RawReference{Kind: types.RefIssue, Project: "proj", ID: "2", Text: "proj#2"},
				Start: 0, End: 6,
			}},
		},
		{
			name: "namespace and project",
			text: "See group/proj#7 for details",
			want: []Match{{
				Ref:   types.RawReference{Kind: types.RefIssue, Namespace: "group", Project: "proj", ID: "7", Text: "group/proj#7"},
				Start: 4, End: 16,
			}},
		},
		{
			name: "namespace with subgroup",
			text: "group/sub/my-proj.v2!15",
			want: []Match{{
				Ref:   types.RawReference{Kind: types.RefMergeRequest, Namespace: "group/sub", Project: "my-proj.v2", ID: "15", Text: "group/sub/my-proj.v2!15"},
				Start: 0, End: 23,
			}},
		},
		{
			name: "only one subgroup level is taken",
			text: "a/b/c/d#5",
			want: []Match{{
				Ref:   types.RawReference{Kind: types.RefIssue, Namespace: "b/c", Project: "d", ID: "5", Text: "b/c/d#5"},
				Start: 2, End: 9,
			}},
		},
		{
			name: "project reference",
			text: "group/sub/project>",
			want: []Match{{
				Ref:   types.RawReference{Kind: types.RefProject, Path: "group/sub/project", Text: "group/sub/project>"},
				Start: 0, End: 18,
			}},
		},
		{
			name: "project reference without subgroup",
			text: "look at gitlab-org/gitlab> now",
			want: []Match{{
				Ref:   types.RawReference{Kind: types.RefProject, Path: "gitlab-org/gitlab", Text: "gitlab-org/gitlab>"},
				Start: 8, End: 26,
			}},
		},
		{
			name: "two references on one line",
			text: "#1 and proj#2",
			want: []Match{
				{Ref: types.RawReference{Kind: types.RefIssue, ID: "1", Text: "#1"}, Start: 0, End: 2},
				{Ref: types.RawReference{Kind: types.RefIssue, Project: "proj", ID: "2", Text: "proj#2"}, Start: 7, End: 13},
			},
		},
		{
			name: "trailing punctuation is not included",
			text: "(#3), !4;",
			want: []Match{
				{Ref: types.RawReference{Kind: types.RefIssue, ID: "3", Text: "#3"}, Start: 1, End: 3},
				{Ref: types.RawReference{Kind: types.RefMergeRequest, ID: "4", Text: "!4"}, Start: 6, End: 8},
			},
		},
		{
			name: "digits followed by word characters",
			text: "#7abc",
		},
		{
			name: "marker without digits",
			text: "# heading-ish and ! bang",
		},
		{
			name: "single segment before marker is not a project reference",
			text: "project>",
		},
		{
			name: "plain text",
			text: "nothing to see here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindAll(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindAll_SpansCoverMatchedText(t *testing.T) {
	text := "Fixed in group/proj!12, see #9. Also ops/infra/deploy> and tools#1"
	matches := FindAll(text)
	require.Len(t, matches, 4)

	for _, m := range matches {
		assert.Equal(t, m.Ref.Text, text[m.Start:m.End])
	}
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].End, matches[i].Start, "matches overlap")
	}
}

func TestFindAll_IssueFormWinsAtSameStart(t *testing.T) {
	// Both alternatives could start at byte 0; the issue form must win.
	matches := FindAll("group/proj#3>")
	require.Len(t, matches, 1)
	assert.Equal(t, types.RefIssue, matches[0].Ref.Kind)
	assert.Equal(t, "group/proj#3", matches[0].Ref.Text)
}
