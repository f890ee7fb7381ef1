// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
)

// PreprocessorContext is the first element of the JSON array mdBook sends
// to a preprocessor on stdin.
type PreprocessorContext struct {
	Root          string         `json:"root"`
	Config        map[string]any `json:"config"`
	Renderer      string         `json:"renderer"`
	MdbookVersion string         `json:"mdbook_version"`
}

// Book is the second element of the preprocessor input and the whole of
// its output.
type Book struct {
	Sections      []BookItem      `json:"sections"`
	NonExhaustive json.RawMessage `json:"__non_exhaustive"`
}

// Chapter is a single page of a book. Optional fields stay nil so they
// round-trip as JSON null.
type Chapter struct {
	Name        string     `json:"name"`
	Content     string     `json:"content"`
	Number      []int      `json:"number"`
	SubItems    []BookItem `json:"sub_items"`
	Path        *string    `json:"path"`
	SourcePath  *string    `json:"source_path"`
	ParentNames []string   `json:"parent_names"`
}

// BookItem is one entry of a book's table of contents: a chapter, a
// separator, or a part title. Exactly one form is set; a zero BookItem is
// a separator.
type BookItem struct {
	Chapter   *Chapter
	PartTitle *string
}

// IsSeparator reports whether the item is a separator line.
func (it BookItem) IsSeparator() bool {
	return it.Chapter == nil && it.PartTitle == nil
}

const separatorTag = "Separator"

// MarshalJSON encodes the item the way mdBook serialises its BookItem enum.
func (it BookItem) MarshalJSON() ([]byte, error) {
	switch {
	case it.Chapter != nil:
		return json.Marshal(struct {
			Chapter *Chapter `json:"Chapter"`
		}{it.Chapter})
	case it.PartTitle != nil:
		return json.Marshal(struct {
			PartTitle string `json:"PartTitle"`
		}{*it.PartTitle})
	default:
		return json.Marshal(separatorTag)
	}
}

// UnmarshalJSON decodes mdBook's BookItem enum encoding.
func (it *BookItem) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		if tag != separatorTag {
			return fmt.Errorf("unknown book item %q", tag)
		}
		*it = BookItem{}
		return nil
	}

	var obj struct {
		Chapter   *Chapter `json:"Chapter"`
		PartTitle *string  `json:"PartTitle"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decoding book item: %w", err)
	}
	if obj.Chapter == nil && obj.PartTitle == nil {
		return fmt.Errorf("book item has neither Chapter nor PartTitle: %s", data)
	}
	*it = BookItem{Chapter: obj.Chapter, PartTitle: obj.PartTitle}
	return nil
}

// ForEachChapter calls fn for every chapter in items, depth first, parents
// before their sub-items.
func ForEachChapter(items []BookItem, fn func(*Chapter)) {
	for _, item := range items {
		if item.Chapter == nil {
			continue
		}
		fn(item.Chapter)
		ForEachChapter(item.Chapter.SubItems, fn)
	}
}
