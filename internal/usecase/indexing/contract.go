package indexing

import (
	"context"

	"recipesearch/internal/domain/document"
	"recipesearch/internal/scanner"
)

// Scanner produces documents from the recipe directory.
type Scanner interface {
	Scan(ctx context.Context, root string) ([]document.Document, scanner.Stats, error)
}
