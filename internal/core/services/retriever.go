package services

import (
	"context"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
	"github.com/custodia-labs/medrag/internal/logger"
)

// Retriever finds the chunks most similar to a query vector.
// It degrades to the user's most recent chunks when search fails and
// never returns an error.
type Retriever struct {
	store         driven.ChunkStore
	fallbackLimit int
	fallbackScore float64
}

// NewRetriever creates a retriever over store.
func NewRetriever(store driven.ChunkStore) *Retriever {
	return &Retriever{
		store:         store,
		fallbackLimit: domain.DefaultFallbackLimit,
		fallbackScore: domain.DefaultFallbackSimilarity,
	}
}

// Search returns up to topK matches scoring at least threshold.
// Non-positive topK and threshold select the defaults.
func (r *Retriever) Search(
	ctx context.Context, userID string, vector []float32, topK int, threshold float64,
) []domain.RetrievedMatch {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	if threshold <= 0 {
		threshold = domain.DefaultSimilarityThreshold
	}

	matches, err := r.store.SimilaritySearch(ctx, userID, vector, threshold, topK)
	if err == nil {
		logger.Debug("Similarity search: %d matches (topK=%d, threshold=%.2f)", len(matches), topK, threshold)
		return matches
	}

	logger.Warn("Similarity search failed, using recent chunks: %v", err)
	return r.Fallback(ctx, userID)
}

// Fallback returns the user's newest chunks, in recency order, with a
// fixed similarity score.
func (r *Retriever) Fallback(ctx context.Context, userID string) []domain.RetrievedMatch {
	chunks, err := r.store.RecentChunks(ctx, userID, r.fallbackLimit)
	if err != nil {
		logger.Warn("Recent chunk fallback failed: %v", err)
		return []domain.RetrievedMatch{}
	}

	matches := make([]domain.RetrievedMatch, 0, len(chunks))
	for _, chunk := range chunks {
		matches = append(matches, domain.RetrievedMatch{
			ChunkID:    chunk.ID,
			DocumentID: chunk.DocumentID,
			Filename:   chunk.Filename,
			Content:    chunk.Content,
			Similarity: r.fallbackScore,
		})
	}
	return matches
}
