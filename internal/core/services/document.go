package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
	"github.com/custodia-labs/medrag/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages uploaded documents.
type DocumentService struct {
	documents driven.DocumentStore
	chunks    driven.ChunkStore
}

// NewDocumentService creates a document service.
func NewDocumentService(documents driven.DocumentStore, chunks driven.ChunkStore) *DocumentService {
	return &DocumentService{documents: documents, chunks: chunks}
}

// List returns the user's documents.
func (s *DocumentService) List(ctx context.Context, userID string) ([]domain.Document, error) {
	return s.documents.ListDocuments(ctx, userID)
}

// Get retrieves a document.
func (s *DocumentService) Get(ctx context.Context, userID, documentID string) (*domain.Document, error) {
	return s.documents.GetDocument(ctx, userID, documentID)
}

// Rename changes the display filename.
func (s *DocumentService) Rename(
	ctx context.Context, userID, documentID, filename string,
) (*domain.Document, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	doc, err := s.documents.GetDocument(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	doc.Filename = filename
	if err := s.documents.UpdateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("rename document: %w", err)
	}
	return doc, nil
}

// Tag replaces the document's tags. Tags are trimmed and deduplicated.
func (s *DocumentService) Tag(
	ctx context.Context, userID, documentID string, tags []string,
) (*domain.Document, error) {
	doc, err := s.documents.GetDocument(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	doc.Tags = normaliseTags(tags)
	if err := s.documents.UpdateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("tag document: %w", err)
	}
	return doc, nil
}

// Delete removes the document and its chunks.
func (s *DocumentService) Delete(ctx context.Context, userID, documentID string) error {
	return s.documents.DeleteDocument(ctx, userID, documentID)
}

// Chunks returns the document's chunks in index order.
func (s *DocumentService) Chunks(ctx context.Context, userID, documentID string) ([]domain.Chunk, error) {
	if _, err := s.documents.GetDocument(ctx, userID, documentID); err != nil {
		return nil, err
	}
	return s.chunks.ListChunks(ctx, userID, documentID)
}

func normaliseTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
