// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite turns GitLab shorthand references in a chapter into
// markdown links. It composes the skip-zone scan, the reference grammar,
// the resolver, and the splicer.
package rewrite

import (
	"fmt"
	"log/slog"

	"github.com/pdiddy/gitlab-link/internal/markdown"
	"github.com/pdiddy/gitlab-link/internal/reference"
	"github.com/pdiddy/gitlab-link/internal/splice"
	"github.com/pdiddy/gitlab-link/pkg/types"
)

// Transformer rewrites chapters with one resolved configuration. It holds
// no per-chapter state and is safe for concurrent use.
type Transformer struct {
	cfg    types.LinkConfig
	logger *slog.Logger
}

// New returns a Transformer for cfg. A nil logger discards debug output.
func New(cfg types.LinkConfig, logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Transformer{cfg: cfg, logger: logger}
}

// Transform is the pure form of Transformer.Transform.
func Transform(content string, cfg types.LinkConfig) string {
	return New(cfg, nil).Transform(content)
}

// Transform returns content with every reference outside a skip zone
// replaced by its link.
func (t *Transformer) Transform(content string) string {
	out, _ := t.TransformRefs(content)
	return out
}

// TransformRefs is Transform that also reports the references it
// rewrote, in source order, with spans into the original content.
func (t *Transformer) TransformRefs(content string) (string, []types.AppliedReference) {
	refs := t.Scan(content)
	if len(refs) == 0 {
		return content, nil
	}

	spans := make([]types.ReplacementSpan, len(refs))
	for i, r := range refs {
		spans[i] = r.Span()
	}
	return splice.Apply(content, spans), refs
}

// Fingerprint identifies the configuration links are resolved with. Two
// Transformers with equal fingerprints rewrite every chapter identically.
func (t *Transformer) Fingerprint() string {
	c := t.cfg
	return fmt.Sprintf("%s\x00%s\x00%s\x00%t\x00%t",
		c.ServerURL, c.CurrentNamespace, c.CurrentProject, c.NestedSkipZones, c.ProtectBareURLs)
}

// Scan finds and resolves the references in content without rewriting it.
func (t *Transformer) Scan(content string) []types.AppliedReference {
	frags := markdown.Fragments(content, markdown.Options{
		Nested:  t.cfg.NestedSkipZones,
		Linkify: t.cfg.ProtectBareURLs,
	})

	var refs []types.AppliedReference
	for _, f := range frags {
		for _, m := range reference.FindAll(f.Text(content)) {
			ref, start, end := m.Ref, f.Start+m.Start, f.Start+m.End
			literal := false
			if escaped(content, start) {
				switch c := content[start]; {
				case c == '#' || c == '!':
					t.logger.Debug("skipping escaped reference", "text", ref.Text, "offset", start)
					continue
				case isASCIIPunct(c):
					// The backslash escapes c alone; the reference starts after it.
					tail, ok := trailingMatch(content[start+1 : end])
					if !ok {
						continue
					}
					ref, start = tail.Ref, start+1+tail.Start
				default:
					literal = true
				}
			}
			t.logger.Debug("capture",
				"kind", ref.Kind,
				"ns", ref.Namespace,
				"project", ref.Project,
				"id", ref.ID,
				"path", ref.Path,
				"text", ref.Text,
			)
			refs = append(refs, types.AppliedReference{
				Ref:              ref,
				Link:             reference.Resolve(ref, t.cfg),
				Start:            start,
				End:              end,
				LiteralBackslash: literal,
			})
		}
	}
	return refs
}

// trailingMatch returns the reference that ends exactly at the end of s.
func trailingMatch(s string) (reference.Match, bool) {
	for _, m := range reference.FindAll(s) {
		if m.End == len(s) {
			return m, true
		}
	}
	return reference.Match{}, false
}

// isASCIIPunct reports whether a backslash before c is a markdown escape.
func isASCIIPunct(c byte) bool {
	return c >= '!' && c <= '/' || c >= ':' && c <= '@' || c >= '[' && c <= '`' || c >= '{' && c <= '~'
}

// escaped reports whether the byte at pos is preceded by an odd number of
// backslashes.
func escaped(content string, pos int) bool {
	n := 0
	for i := pos - 1; i >= 0 && content[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}
