package driving

import (
	"context"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// ConsultationService answers medical questions from the user's documents.
type ConsultationService interface {
	// Consult runs the emergency gate, retrieval and the selected agent.
	Consult(ctx context.Context, req *domain.ConsultationRequest) (*domain.ConsultationResult, error)

	// History returns the trailing turns of a session, oldest first.
	History(ctx context.Context, userID, sessionID string) ([]domain.ConversationTurn, error)

	// List returns the user's consultations, newest first.
	List(ctx context.Context, userID string, limit int) ([]domain.Consultation, error)
}
