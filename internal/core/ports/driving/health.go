package driving

import (
	"context"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// HealthService reports which external services are configured and reachable.
type HealthService interface {
	Check(ctx context.Context, userToken string) []domain.ComponentStatus
}
