// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/gitlab-link/pkg/types"
)

func TestResolve(t *testing.T) {
	cfg := types.LinkConfig{
		ServerURL:        "https://gitlab.example",
		CurrentNamespace: "ns",
		CurrentProject:   "proj",
	}

	tests := []struct {
		name string
		ref  types.RawReference
		want string
	}{
		{
			name: "fully qualified issue",
			ref:  types.RawReference{Kind: types.RefIssue, Namespace: "group", Project: "app", ID: "7"},
			want: "[group/app#7](https://gitlab.example/group/app/-/issues/7)",
		},
		{
			name: "issue with project only uses current namespace",
			ref:  types.RawReference{Kind: types.RefIssue, Project: "app", ID: "2"},
			want: "[app#2](https://gitlab.example/ns/app/-/issues/2)",
		},
		{
			name: "bare issue uses current namespace and project",
			ref:  types.RawReference{Kind: types.RefIssue, ID: "1"},
			want: "[#1](https://gitlab.example/ns/proj/-/issues/1)",
		},
		{
			name: "bare merge request",
			ref:  types.RawReference{Kind: types.RefMergeRequest, ID: "12"},
			want: "[!12](https://gitlab.example/ns/proj/-/merge_requests/12)",
		},
		{
			name: "merge request in subgroup",
			ref:  types.RawReference{Kind: types.RefMergeRequest, Namespace: "group/sub", Project: "app", ID: "4"},
			want: "[group/sub/app!4](https://gitlab.example/group/sub/app/-/merge_requests/4)",
		},
		{
			name: "project reference keeps marker in label only",
			ref:  types.RawReference{Kind: types.RefProject, Path: "group/sub/project"},
			want: "[group/sub/project>](https://gitlab.example/group/sub/project)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.ref, cfg).String())
		})
	}
}

func TestResolve_EmptyConfig(t *testing.T) {
	link := Resolve(types.RawReference{Kind: types.RefIssue, ID: "5"}, types.LinkConfig{})
	assert.Equal(t, "#5", link.Label)
	assert.Equal(t, "//-/issues/5", link.URL)
}
