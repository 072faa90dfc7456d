// Package extract turns recipe PDFs into plain text plus a derived title.
package extract

import "context"

// Content is the extraction output for one file.
type Content struct {
	Title string
	Text  string
}

// Extractor extracts text content from a document on disk.
type Extractor interface {
	Extract(ctx context.Context, path string) (Content, error)
}
