package driven

import (
	"context"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// DocumentStore persists uploaded documents.
type DocumentStore interface {
	// SaveDocument stores a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document owned by userID.
	// Returns domain.ErrNotFound if absent.
	GetDocument(ctx context.Context, userID, id string) (*domain.Document, error)

	// ListDocuments returns a user's documents, newest first.
	ListDocuments(ctx context.Context, userID string) ([]domain.Document, error)

	// UpdateDocument changes the filename and tags of a document.
	UpdateDocument(ctx context.Context, doc *domain.Document) error

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, userID, id string) error
}

// ChunkStore persists embedded chunks and searches them by similarity.
type ChunkStore interface {
	// InsertChunk stores one chunk. Chunks whose embedding length differs
	// from domain.EmbeddingDimensions are rejected with ErrDimensionMismatch.
	InsertChunk(ctx context.Context, chunk *domain.Chunk) (string, error)

	// SimilaritySearch returns the user's chunks whose similarity to vector
	// is at least threshold, ordered by descending similarity.
	SimilaritySearch(ctx context.Context, userID string, vector []float32,
		threshold float64, topK int) ([]domain.RetrievedMatch, error)

	// RecentChunks returns the user's most recently stored chunks.
	RecentChunks(ctx context.Context, userID string, limit int) ([]domain.Chunk, error)

	// ListChunks returns a document's chunks ordered by index.
	ListChunks(ctx context.Context, userID, documentID string) ([]domain.Chunk, error)
}

// ConsultationStore persists consultation records.
type ConsultationStore interface {
	// InsertConsultation stores one record.
	InsertConsultation(ctx context.Context, c *domain.Consultation) error

	// ListConsultations returns a user's records, newest first.
	ListConsultations(ctx context.Context, userID string, limit int) ([]domain.Consultation, error)

	// SessionHistory returns a session's records, oldest first.
	SessionHistory(ctx context.Context, userID, sessionID string, limit int) ([]domain.Consultation, error)
}
