package services

import (
	"context"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driving"
)

// Ensure HealthService implements the interface.
var _ driving.HealthService = (*HealthService)(nil)

// HealthService reports embedding strategy and agent reachability.
type HealthService struct {
	embedder *EmbeddingProvider
	router   *AgentRouter
}

// NewHealthService creates a health service.
func NewHealthService(embedder *EmbeddingProvider, router *AgentRouter) *HealthService {
	return &HealthService{embedder: embedder, router: router}
}

// Check pings every strategy and agent.
func (s *HealthService) Check(ctx context.Context, userToken string) []domain.ComponentStatus {
	statuses := s.embedder.Status(ctx, userToken)
	return append(statuses, s.router.Status(ctx, userToken)...)
}
