// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data shared between the reference matcher,
// the rewriter, and the mdBook and index collaborators.
package types

import "fmt"

// RefKind categorizes a reference found in documentation text.
type RefKind string

const (
	RefIssue        RefKind = "issue"
	RefMergeRequest RefKind = "merge_request"
	RefProject      RefKind = "project"
)

// RawReference is a classified match over a text fragment. Namespace and
// Project are optional for issues and merge requests; project references
// carry the full group path in Path instead.
type RawReference struct {
	// Kind selects which of ID or Path is meaningful.
	Kind RefKind `json:"kind" yaml:"kind"`

	// Namespace is the group, optionally with one subgroup ("group/sub").
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`

	// Project is the project name preceding the issue or MR marker.
	Project string `json:"project,omitempty" yaml:"project,omitempty"`

	// ID is the issue or merge request number as written.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Path is "group[/subgroup]/project" for project references, without
	// the trailing '>'.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Text is the exact matched text.
	Text string `json:"text" yaml:"text"`
}

// ResolvedLink is the label and target URL a reference is rewritten to.
type ResolvedLink struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// String renders the link as an inline markdown link.
func (l ResolvedLink) String() string {
	return fmt.Sprintf("[%s](%s)", l.Label, l.URL)
}

// ReplacementSpan is replacement text for the half-open byte range
// [Start, End) of a chapter.
type ReplacementSpan struct {
	Text  string
	Start int
	End   int
}

// AppliedReference records one rewritten reference and where it sat in
// the original chapter content.
type AppliedReference struct {
	Ref   RawReference `json:"ref" yaml:"ref"`
	Link  ResolvedLink `json:"link" yaml:"link"`
	Start int          `json:"start" yaml:"start"`
	End   int          `json:"end" yaml:"end"`

	// LiteralBackslash is set when the reference follows a backslash that
	// escapes nothing. The replacement then starts with a second backslash
	// so the pair renders as one and the link bracket stays unescaped.
	LiteralBackslash bool `json:"literal_backslash,omitempty" yaml:"literal_backslash,omitempty"`
}

// Span returns the replacement this reference applies to its chapter.
func (a AppliedReference) Span() ReplacementSpan {
	text := a.Link.String()
	if a.LiteralBackslash {
		text = `\` + text
	}
	return ReplacementSpan{Text: text, Start: a.Start, End: a.End}
}
