package document

import (
	"fmt"
	"path"
	"time"
)

// Document is the extracted content of one indexed recipe PDF.
// Immutable after construction; a re-index produces new values.
type Document struct {
	id          string
	title       string
	category    string
	path        string
	text        string
	extractedAt time.Time
}

// Uncategorized is the category for PDFs living directly in the recipe root.
const Uncategorized = "Uncategorized"

// New creates a document. The id is the '/'-separated path relative to the
// recipe root; absPath is the location on disk. An empty category defaults
// to Uncategorized, a zero extractedAt defaults to now.
func New(id, title, category, absPath, text string, extractedAt time.Time) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document id is required")
	}
	if absPath == "" {
		return Document{}, fmt.Errorf("document path is required")
	}
	if title == "" {
		title = titleFromID(id)
	}
	if category == "" {
		category = Uncategorized
	}
	if extractedAt.IsZero() {
		extractedAt = time.Now().UTC()
	}
	return Document{
		id:          id,
		title:       title,
		category:    category,
		path:        absPath,
		text:        text,
		extractedAt: extractedAt,
	}, nil
}

// ID returns the document identifier (root-relative path).
func (d *Document) ID() string { return d.id }

// Title returns the derived recipe title.
func (d *Document) Title() string { return d.title }

// Category returns the category (first-level subdirectory name).
func (d *Document) Category() string { return d.category }

// Path returns the absolute path of the source PDF.
func (d *Document) Path() string { return d.path }

// Filename returns the base name of the source PDF.
func (d *Document) Filename() string { return path.Base(d.id) }

// Text returns the extracted plain text.
func (d *Document) Text() string { return d.text }

// ExtractedAt returns when the text was extracted.
func (d *Document) ExtractedAt() time.Time { return d.extractedAt }

// titleFromID strips the extension and replaces underscores, so a document
// without any extractable text still has a readable title.
func titleFromID(id string) string {
	base := path.Base(id)
	if ext := path.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	out := make([]rune, 0, len(base))
	for _, r := range base {
		if r == '_' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}
