package driven

import (
	"context"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// EmbeddingStrategy is one embedding back end in an ordered fallback list.
//
// Implementations classify failures into domain errors
// (ErrAuthenticationFailed, ErrRateLimited, ErrTimeout, ErrUnreachable,
// ErrInvalidResponse) so callers can log and move to the next strategy.
//
// Implementations include:
//   - primary: token-authenticated domain-specific service (POST /embed)
//   - openai: API-key-authenticated OpenAI-compatible service (POST /embeddings)
type EmbeddingStrategy interface {
	// Source tags vectors produced by this strategy.
	Source() domain.EmbeddingSource

	// Available reports whether the strategy can serve a request
	// carrying the given user token.
	Available(userToken string) bool

	// Embed returns the raw vector for text. Dimension validation is the caller's.
	Embed(ctx context.Context, text, userToken string) ([]float32, error)

	// Ping validates the service is reachable.
	Ping(ctx context.Context, userToken string) error
}
