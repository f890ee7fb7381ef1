// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mdbook speaks the mdBook preprocessor protocol: it reads
// [context, book] as JSON, rewrites every chapter, and writes the book
// back as JSON.
package mdbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/gitlab-link/internal/config"
	"github.com/pdiddy/gitlab-link/internal/rewrite"
	"github.com/pdiddy/gitlab-link/pkg/types"
)

// Name is the preprocessor name used in book.toml.
const Name = "gitlab-link"

// SupportsRenderer reports whether the preprocessor should run for
// renderer. Only the HTML renderer understands the generated links.
func SupportsRenderer(renderer string) bool {
	return renderer == "html"
}

// ReadInput decodes the [context, book] pair mdBook writes to stdin.
func ReadInput(r io.Reader) (types.PreprocessorContext, types.Book, error) {
	var (
		ctx  types.PreprocessorContext
		book types.Book
	)

	var pair []json.RawMessage
	if err := json.NewDecoder(r).Decode(&pair); err != nil {
		return ctx, book, fmt.Errorf("decoding preprocessor input: %w", err)
	}
	if len(pair) != 2 {
		return ctx, book, fmt.Errorf("decoding preprocessor input: expected [context, book], got %d elements", len(pair))
	}

	dec := json.NewDecoder(bytes.NewReader(pair[0]))
	dec.UseNumber()
	if err := dec.Decode(&ctx); err != nil {
		return ctx, book, fmt.Errorf("decoding preprocessor context: %w", err)
	}
	if err := json.Unmarshal(pair[1], &book); err != nil {
		return ctx, book, fmt.Errorf("decoding book: %w", err)
	}
	return ctx, book, nil
}

// Table returns the [preprocessor.gitlab-link] table from the book
// configuration, or nil when it is absent.
func Table(ctx types.PreprocessorContext) map[string]any {
	pre, ok := ctx.Config["preprocessor"].(map[string]any)
	if !ok {
		return nil
	}
	table, _ := pre[Name].(map[string]any)
	return table
}

// RewriteBook rewrites the content of every chapter in place and returns
// how many references were replaced.
func RewriteBook(book *types.Book, t *rewrite.Transformer, logger *slog.Logger) int {
	total := 0
	types.ForEachChapter(book.Sections, func(ch *types.Chapter) {
		out, refs := t.TransformRefs(ch.Content)
		ch.Content = out
		total += len(refs)
		if len(refs) > 0 {
			logger.Debug("rewrote chapter", "chapter", ch.Name, "refs", len(refs))
		}
	})
	return total
}

// Run executes one preprocessor pass: read from r, rewrite with the
// configuration resolved from env and the book's preprocessor table
// layered over base, write the book to w.
func Run(r io.Reader, w io.Writer, env config.LookupFunc, base map[string]any, logger *slog.Logger) error {
	ctx, book, err := ReadInput(r)
	if err != nil {
		return err
	}
	logger.Debug("preprocessor input", "renderer", ctx.Renderer, "mdbook_version", ctx.MdbookVersion, "root", ctx.Root)

	cfg := config.Resolve(env, config.Merge(base, Table(ctx)))
	n := RewriteBook(&book, rewrite.New(cfg, logger), logger)
	logger.Info("references rewritten", "count", n)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&book); err != nil {
		return fmt.Errorf("encoding book: %w", err)
	}
	return nil
}
