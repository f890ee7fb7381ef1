// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reference recognises GitLab shorthand references in plain text
// and resolves them into markdown links.
//
// Grammar, with ident = [A-Za-z0-9_.-]+ :
//
//	issue/MR  := [ [ ident [ "/" ident ] "/" ] ident ] ( "#" | "!" ) digits <word boundary>
//	project   := ident [ "/" ident ] "/" ident ">"
//
// The leftmost match wins; when both forms start at the same byte the
// issue/MR form is taken.
package reference

import (
	"regexp"

	"github.com/pdiddy/gitlab-link/pkg/types"
)

const ident = `[A-Za-z0-9_.-]+`

// referenceRe is the whole grammar as one leftmost-first alternation.
// RE2 picks the first alternative that matches at the leftmost position,
// which gives issue/MR precedence over project references.
var referenceRe = regexp.MustCompile(
	`(?:(?:(?P<ns>` + ident + `(?:/` + ident + `)?)/)?(?P<project>` + ident + `))?` +
		`(?:#(?P<issue>[0-9]+)|!(?P<mr>[0-9]+))\b` +
		`|(?P<path>` + ident + `(?:/` + ident + `)?/` + ident + `)>`,
)

var (
	nsGroup      = referenceRe.SubexpIndex("ns")
	projectGroup = referenceRe.SubexpIndex("project")
	issueGroup   = referenceRe.SubexpIndex("issue")
	mrGroup      = referenceRe.SubexpIndex("mr")
	pathGroup    = referenceRe.SubexpIndex("path")
)

// Match is a reference found in a fragment. Start and End are byte
// offsets relative to the scanned fragment.
type Match struct {
	Ref   types.RawReference
	Start int
	End   int
}

// FindAll returns the references in text in source order. The matches
// never overlap. Text that does not fit the grammar produces no match.
func FindAll(text string) []Match {
	locs := referenceRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		ref, ok := classify(text, loc)
		if !ok {
			continue
		}
		matches = append(matches, Match{Ref: ref, Start: loc[0], End: loc[1]})
	}
	return matches
}

// classify turns one submatch index slice into a RawReference.
func classify(text string, loc []int) (types.RawReference, bool) {
	group := func(i int) string {
		if loc[2*i] < 0 {
			return ""
		}
		return text[loc[2*i]:loc[2*i+1]]
	}

	ref := types.RawReference{Text: text[loc[0]:loc[1]]}
	switch {
	case loc[2*pathGroup] >= 0:
		ref.Kind = types.RefProject
		ref.Path = group(pathGroup)
	case loc[2*issueGroup] >= 0:
		ref.Kind = types.RefIssue
		ref.Namespace, ref.Project, ref.ID = group(nsGroup), group(projectGroup), group(issueGroup)
	case loc[2*mrGroup] >= 0:
		ref.Kind = types.RefMergeRequest
		ref.Namespace, ref.Project, ref.ID = group(nsGroup), group(projectGroup), group(mrGroup)
	default:
		return types.RawReference{}, false
	}
	return ref, true
}
