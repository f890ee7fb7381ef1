// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"github.com/yuin/goldmark/ast"
)

// tracker follows skip zones while the AST is walked. In flag mode any
// zone exit clears skipping, even when an outer zone is still open (a link
// inside a heading, say). Nested mode keeps a depth count instead.
type tracker struct {
	nested    bool
	depth     int
	fragments []Fragment
}

// isSkipZone reports whether n starts a region whose text is never scanned.
func isSkipZone(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindHeading, ast.KindLink, ast.KindImage:
		return true
	}
	return false
}

// isOpaque reports whether n holds no scannable text but must not affect
// skip zones. Code spans, raw HTML and autolinks are never plain text.
func isOpaque(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindCodeSpan, ast.KindRawHTML, ast.KindAutoLink, ast.KindHTMLBlock:
		return true
	}
	return false
}

func (t *tracker) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if isOpaque(n) {
		return ast.WalkSkipChildren, nil
	}

	if isSkipZone(n) {
		t.toggle(entering)
		return ast.WalkContinue, nil
	}

	if !entering || t.skipping() {
		return ast.WalkContinue, nil
	}

	if txt, ok := n.(*ast.Text); ok {
		t.add(txt.Segment.Start, txt.Segment.Stop)
	}
	return ast.WalkContinue, nil
}

func (t *tracker) toggle(entering bool) {
	switch {
	case t.nested && entering:
		t.depth++
	case t.nested && t.depth > 0:
		t.depth--
	case entering:
		t.depth = 1
	default:
		t.depth = 0
	}
}

func (t *tracker) skipping() bool {
	return t.depth > 0
}

// add records [start, stop), extending the previous fragment when the two
// touch.
func (t *tracker) add(start, stop int) {
	if start >= stop {
		return
	}
	if n := len(t.fragments); n > 0 && t.fragments[n-1].End == start {
		t.fragments[n-1].End = stop
		return
	}
	t.fragments = append(t.fragments, Fragment{Start: start, End: stop})
}
