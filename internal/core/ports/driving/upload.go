package driving

import (
	"context"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// UploadRequest carries one file to ingest.
type UploadRequest struct {
	UserID    string
	UserToken string
	Filename  string
	Content   []byte
	Tags      []string
}

// UploadService turns uploaded files into embedded, searchable chunks.
type UploadService interface {
	// Upload extracts, chunks, embeds and persists a file.
	// A result is returned when at least one chunk was stored; failed chunks
	// are listed in it. When no chunk is stored the error joins every
	// per-chunk failure.
	Upload(ctx context.Context, req UploadRequest) (*domain.UploadResult, error)

	// Supports reports whether the filename has an extractor.
	Supports(filename string) bool
}
