package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
	"github.com/custodia-labs/medrag/internal/logger"
	"github.com/custodia-labs/medrag/internal/sanitizer"
)

// EmbeddingProvider tries an ordered list of strategies until one returns
// a vector of domain.EmbeddingDimensions.
type EmbeddingProvider struct {
	strategies []driven.EmbeddingStrategy
	maxChars   int
}

// NewEmbeddingProvider creates a provider. Order of strategies is priority order.
func NewEmbeddingProvider(strategies ...driven.EmbeddingStrategy) *EmbeddingProvider {
	return &EmbeddingProvider{
		strategies: strategies,
		maxChars:   domain.DefaultMaxEmbeddingChars,
	}
}

// Embed returns a validated embedding for text.
//
// Strategies that are not available for userToken are skipped. A failing
// strategy, including one returning the wrong dimension, is logged and the
// next one is tried. When none succeeds the error wraps
// domain.ErrNoEmbeddingServiceAvailable and the last failure.
func (p *EmbeddingProvider) Embed(ctx context.Context, text, userToken string) (*domain.Embedding, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyInput
	}
	text = sanitizer.Truncate(text, p.maxChars)

	var lastErr error
	for _, strategy := range p.strategies {
		source := strategy.Source()
		if !strategy.Available(userToken) {
			logger.Debug("Embedding strategy %s not available, skipping", source)
			continue
		}

		vector, err := strategy.Embed(ctx, text, userToken)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			logger.Warn("Embedding strategy %s failed: %v", source, err)
			lastErr = err
			continue
		}

		if len(vector) != domain.EmbeddingDimensions {
			lastErr = fmt.Errorf("%s: %w: got %d, want %d",
				source, domain.ErrDimensionMismatch, len(vector), domain.EmbeddingDimensions)
			logger.Warn("Embedding strategy %s returned wrong dimension: %d", source, len(vector))
			continue
		}

		logger.Debug("Embedded %d chars with %s strategy", len([]rune(text)), source)
		return &domain.Embedding{Vector: vector, Source: source}, nil
	}

	if lastErr == nil {
		return nil, fmt.Errorf("%w: no strategy configured for this request", domain.ErrNoEmbeddingServiceAvailable)
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrNoEmbeddingServiceAvailable, lastErr)
}

// Status pings every strategy.
func (p *EmbeddingProvider) Status(ctx context.Context, userToken string) []domain.ComponentStatus {
	statuses := make([]domain.ComponentStatus, 0, len(p.strategies))
	for _, strategy := range p.strategies {
		status := domain.ComponentStatus{
			Name:       "embedding/" + strategy.Source().String(),
			Configured: strategy.Available(userToken),
		}
		if status.Configured {
			if err := strategy.Ping(ctx, userToken); err != nil {
				status.Error = err.Error()
			} else {
				status.Healthy = true
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}
