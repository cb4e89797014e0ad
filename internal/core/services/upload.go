package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
	"github.com/custodia-labs/medrag/internal/core/ports/driving"
	"github.com/custodia-labs/medrag/internal/logger"
	"github.com/custodia-labs/medrag/internal/sanitizer"
)

// Ensure UploadService implements the interface.
var _ driving.UploadService = (*UploadService)(nil)

// UploadService runs the upload pipeline.
type UploadService struct {
	extractor driven.TextExtractor
	chunker   driven.Chunker
	embedder  *EmbeddingProvider
	documents driven.DocumentStore
	chunks    driven.ChunkStore
	now       func() time.Time
}

// NewUploadService wires the upload pipeline.
func NewUploadService(
	extractor driven.TextExtractor,
	chunker driven.Chunker,
	embedder *EmbeddingProvider,
	documents driven.DocumentStore,
	chunks driven.ChunkStore,
) *UploadService {
	return &UploadService{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		documents: documents,
		chunks:    chunks,
		now:       time.Now,
	}
}

// Supports reports whether filename has an extractor.
func (s *UploadService) Supports(filename string) bool {
	return s.extractor.Supports(filename)
}

// Upload extracts, chunks and stores a file.
//
// Extraction and chunking errors abort before anything is stored. Chunks
// are then embedded and inserted one at a time; a failing chunk is
// recorded and the next one is attempted.
func (s *UploadService) Upload(ctx context.Context, req driving.UploadRequest) (*domain.UploadResult, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	filename := filepath.Base(req.Filename)

	logger.Section("Upload " + filename)

	extraction, err := s.extractor.Extract(ctx, &domain.RawDocument{
		Filename: filename,
		MIMEType: s.extractor.MIMEType(filename),
		Content:  req.Content,
	})
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Filename:  filename,
		Size:      int64(len(req.Content)),
		MIMEType:  s.extractor.MIMEType(filename),
		Tags:      req.Tags,
		Metadata:  extraction.MetadataMap(),
		CreatedAt: s.now(),
	}

	pieces, err := s.chunker.Chunk(ctx, doc, extraction.Text)
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", filename, err)
	}
	logger.Debug("%s produced %d chunks with %s", filename, len(pieces), s.chunker.Name())

	if err := s.documents.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: save document: %w", domain.ErrPersistenceFailure, err)
	}

	result := &domain.UploadResult{Document: *doc, Extraction: *extraction}
	embedFailures := 0
	for i := range pieces {
		chunk := &pieces[i]
		id, err := s.storeChunk(ctx, chunk, req.UserToken)
		if err != nil {
			if errors.Is(err, domain.ErrNoEmbeddingServiceAvailable) {
				embedFailures++
			}
			logger.Warn("Chunk %d of %s failed: %v", chunk.Index, filename, err)
			result.Failed = append(result.Failed, domain.ChunkFailure{Index: chunk.Index, Err: err})
			continue
		}
		result.Stored = append(result.Stored, id)
	}

	if len(result.Stored) == 0 {
		if err := s.documents.DeleteDocument(ctx, req.UserID, doc.ID); err != nil {
			logger.Warn("Removing empty document %s: %v", doc.ID, err)
		}
		return nil, aggregateFailure(result.Failed, embedFailures)
	}

	logger.Info("Uploaded %s: %d/%d chunks stored", filename, len(result.Stored), result.TotalChunks())
	return result, nil
}

// storeChunk embeds, sanitises and inserts one chunk.
func (s *UploadService) storeChunk(ctx context.Context, chunk *domain.Chunk, userToken string) (string, error) {
	embedding, err := s.embedder.Embed(ctx, chunk.Content, userToken)
	if err != nil {
		return "", err
	}

	chunk.Content = sanitizer.Clean(chunk.Content)
	chunk.Embedding = embedding.Vector
	chunk.EmbeddingSource = embedding.Source
	if chunk.Metadata == nil {
		chunk.Metadata = make(map[string]any)
	}
	chunk.Metadata["embedding_source"] = embedding.Source.String()

	if err := chunk.ValidateEmbedding(); err != nil {
		return "", err
	}

	id, err := s.chunks.InsertChunk(ctx, chunk)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}
	return id, nil
}

// aggregateFailure joins per-chunk errors under the dominant cause.
func aggregateFailure(failed []domain.ChunkFailure, embedFailures int) error {
	errs := make([]error, 0, len(failed))
	for _, f := range failed {
		errs = append(errs, f)
	}
	cause := domain.ErrPersistenceFailure
	if embedFailures == len(failed) {
		cause = domain.ErrNoEmbeddingServiceAvailable
	}
	return fmt.Errorf("%w: no chunk stored (%d failed): %w",
		cause, len(failed), errors.Join(errs...))
}
