package driven

import (
	"context"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// Chunker splits a document's extracted text into chunks.
// Returned chunks carry index, character range and total count,
// but no embedding.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// Chunk splits text belonging to doc. Empty text yields ErrEmptyInput.
	Chunk(ctx context.Context, doc *domain.Document, text string) ([]domain.Chunk, error)
}
