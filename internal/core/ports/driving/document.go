package driving

import (
	"context"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// DocumentService manages a user's uploaded documents.
type DocumentService interface {
	// List returns the user's documents, newest first.
	List(ctx context.Context, userID string) ([]domain.Document, error)

	// Get retrieves one document.
	Get(ctx context.Context, userID, documentID string) (*domain.Document, error)

	// Rename changes the display filename.
	Rename(ctx context.Context, userID, documentID, filename string) (*domain.Document, error)

	// Tag replaces the document's tags.
	Tag(ctx context.Context, userID, documentID string, tags []string) (*domain.Document, error)

	// Delete removes the document and its chunks.
	Delete(ctx context.Context, userID, documentID string) error

	// Chunks returns the document's chunks in index order.
	Chunks(ctx context.Context, userID, documentID string) ([]domain.Chunk, error)
}
