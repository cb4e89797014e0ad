package embedding

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
)

// Ensure PacedStrategy implements the interface.
var _ driven.EmbeddingStrategy = (*PacedStrategy)(nil)

// DefaultBackoff is how long a strategy is paused after a rate-limit response.
const DefaultBackoff = 30 * time.Second

// RateLimitConfig holds rate limiting configuration for a strategy.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
	// Backoff is the pause after a rate-limit response (default: 30s).
	Backoff time.Duration
}

// PacedStrategy wraps a strategy with a token bucket and a backoff window
// that opens whenever the wrapped strategy reports domain.ErrRateLimited.
type PacedStrategy struct {
	driven.EmbeddingStrategy

	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	backoff time.Duration
	now     func() time.Time
}

// Paced wraps strategy. A non-positive rate returns strategy unchanged.
func Paced(strategy driven.EmbeddingStrategy, cfg RateLimitConfig) driven.EmbeddingStrategy {
	if cfg.RequestsPerSecond <= 0 {
		return strategy
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	return &PacedStrategy{
		EmbeddingStrategy: strategy,
		limiter:           rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		backoff:           cfg.Backoff,
		now:               time.Now,
	}
}

// Embed waits for the limiter, then delegates.
// While a backoff is active the call fails fast with domain.ErrRateLimited
// so the caller can move on to the next strategy.
func (p *PacedStrategy) Embed(ctx context.Context, text, userToken string) ([]float32, error) {
	p.mu.Lock()
	retryAt := p.retryAt
	p.mu.Unlock()

	if p.now().Before(retryAt) {
		return nil, domain.ErrRateLimited
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	vec, err := p.EmbeddingStrategy.Embed(ctx, text, userToken)
	if errors.Is(err, domain.ErrRateLimited) {
		p.recordRateLimit()
	}
	return vec, err
}

// recordRateLimit opens the backoff window.
func (p *PacedStrategy) recordRateLimit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retryAt = p.now().Add(p.backoff)
}
