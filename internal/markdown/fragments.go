// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown finds the text of a chapter that is safe to scan for
// references. It walks the goldmark AST and withholds text inside code
// blocks, headings, links, and images.
package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Fragment is a run of scannable text occupying content[Start:End].
type Fragment struct {
	Start int
	End   int
}

// Text returns the fragment's bytes from the chapter it was taken from.
func (f Fragment) Text(content string) string {
	return content[f.Start:f.End]
}

// Options control how skip zones are tracked.
type Options struct {
	// Nested counts skip-zone depth instead of using a single flag.
	Nested bool

	// Linkify parses bare URLs as autolinks, which are never scanned.
	Linkify bool
}

// Fragments parses content and returns its scannable text in source order.
// Adjacent text nodes that touch in the source are merged, so a token the
// inline parser split (at '!' or '_', for example) comes back whole.
func Fragments(content string, opts Options) []Fragment {
	source := []byte(content)
	doc := newParser(opts).Parser().Parse(text.NewReader(source))

	tr := &tracker{nested: opts.Nested}
	_ = ast.Walk(doc, tr.walk)
	return tr.fragments
}

func newParser(opts Options) goldmark.Markdown {
	exts := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Footnote,
	}
	if opts.Linkify {
		exts = append(exts, extension.Linkify)
	}
	return goldmark.New(goldmark.WithExtensions(exts...))
}
