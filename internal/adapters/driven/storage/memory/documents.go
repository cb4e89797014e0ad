package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// SaveDocument stores or replaces a document.
func (s *Store) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := *doc
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = s.now()
	}
	saved.Tags = slices.Clone(doc.Tags)
	s.documents[doc.ID] = saved
	return nil
}

// GetDocument retrieves a document owned by userID.
func (s *Store) GetDocument(_ context.Context, userID, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok || doc.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns a user's documents, newest first.
func (s *Store) ListDocuments(_ context.Context, userID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0)
	for _, doc := range s.documents {
		if doc.UserID == userID {
			docs = append(docs, doc)
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

// UpdateDocument changes filename and tags.
func (s *Store) UpdateDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.documents[doc.ID]
	if !ok || existing.UserID != doc.UserID {
		return domain.ErrNotFound
	}
	existing.Filename = doc.Filename
	existing.Tags = slices.Clone(doc.Tags)
	s.documents[doc.ID] = existing
	return nil
}

// DeleteDocument removes a document and its chunks.
func (s *Store) DeleteDocument(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok || doc.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	for chunkID, chunk := range s.chunks {
		if chunk.DocumentID == id {
			delete(s.chunks, chunkID)
		}
	}
	return nil
}
