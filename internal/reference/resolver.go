// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"github.com/pdiddy/gitlab-link/pkg/types"
)

// Resolve maps a reference to its link. The label repeats what was written
// in the source; defaults from cfg only ever fill the URL.
func Resolve(ref types.RawReference, cfg types.LinkConfig) types.ResolvedLink {
	switch ref.Kind {
	case types.RefProject:
		return types.ResolvedLink{
			Label: ref.Path + ">",
			URL:   cfg.ServerURL + "/" + ref.Path,
		}
	case types.RefIssue:
		return types.ResolvedLink{
			Label: label(ref, "#"),
			URL:   projectURL(ref, cfg) + "/-/issues/" + ref.ID,
		}
	case types.RefMergeRequest:
		return types.ResolvedLink{
			Label: label(ref, "!"),
			URL:   projectURL(ref, cfg) + "/-/merge_requests/" + ref.ID,
		}
	}
	return types.ResolvedLink{Label: ref.Text}
}

func label(ref types.RawReference, marker string) string {
	switch {
	case ref.Namespace != "" && ref.Project != "":
		return ref.Namespace + "/" + ref.Project + marker + ref.ID
	case ref.Project != "":
		return ref.Project + marker + ref.ID
	default:
		return marker + ref.ID
	}
}

// projectURL is the server URL joined with the effective namespace and
// project.
func projectURL(ref types.RawReference, cfg types.LinkConfig) string {
	ns := ref.Namespace
	if ns == "" {
		ns = cfg.CurrentNamespace
	}
	project := ref.Project
	if project == "" {
		project = cfg.CurrentProject
	}
	return cfg.ServerURL + "/" + ns + "/" + project
}
