package memory

import (
	"context"
	"maps"
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// InsertChunk stores a chunk under a fresh id unless one is set.
func (s *Store) InsertChunk(_ context.Context, chunk *domain.Chunk) (string, error) {
	if err := chunk.ValidateEmbedding(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := cloneChunk(chunk)
	if saved.ID == "" {
		saved.ID = uuid.New().String()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = s.now()
	}
	s.chunks[saved.ID] = saved
	return saved.ID, nil
}

// SimilaritySearch scores every chunk of the user by cosine similarity.
func (s *Store) SimilaritySearch(
	_ context.Context, userID string, vector []float32, threshold float64, topK int,
) ([]domain.RetrievedMatch, error) {
	if len(vector) != domain.EmbeddingDimensions {
		return nil, domain.ErrDimensionMismatch
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]domain.RetrievedMatch, 0)
	for _, chunk := range s.chunks {
		if chunk.UserID != userID {
			continue
		}
		score := domain.CosineSimilarity(vector, chunk.Embedding)
		if score < threshold {
			continue
		}
		matches = append(matches, domain.RetrievedMatch{
			ChunkID:    chunk.ID,
			DocumentID: chunk.DocumentID,
			Filename:   chunk.Filename,
			Content:    chunk.Content,
			Similarity: score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// RecentChunks returns the user's newest chunks.
func (s *Store) RecentChunks(_ context.Context, userID string, limit int) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := make([]domain.Chunk, 0)
	for _, chunk := range s.chunks {
		if chunk.UserID == userID {
			chunks = append(chunks, cloneChunk(&chunk))
		}
	}
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].CreatedAt.Equal(chunks[j].CreatedAt) {
			return chunks[i].Index > chunks[j].Index
		}
		return chunks[i].CreatedAt.After(chunks[j].CreatedAt)
	})
	if limit > 0 && len(chunks) > limit {
		chunks = chunks[:limit]
	}
	return chunks, nil
}

// ListChunks returns a document's chunks ordered by index.
func (s *Store) ListChunks(_ context.Context, userID, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := make([]domain.Chunk, 0)
	for _, chunk := range s.chunks {
		if chunk.UserID == userID && chunk.DocumentID == documentID {
			chunks = append(chunks, cloneChunk(&chunk))
		}
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks, nil
}

// cloneChunk copies a chunk so the stored value shares no vector or
// metadata with callers.
func cloneChunk(c *domain.Chunk) domain.Chunk {
	out := *c
	out.Embedding = slices.Clone(c.Embedding)
	out.Metadata = maps.Clone(c.Metadata)
	return out
}
