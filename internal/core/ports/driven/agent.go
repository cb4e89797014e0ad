package driven

import (
	"context"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// ChatAgent turns an augmented prompt into a natural-language answer.
// Each variant owns one request and response shape.
type ChatAgent interface {
	// ID identifies the agent.
	ID() domain.AgentID

	// Respond answers the request.
	Respond(ctx context.Context, req *AgentRequest) (*AgentAnswer, error)

	// Ping validates the agent is reachable for the given session token.
	Ping(ctx context.Context, sessionToken string) error
}

// AgentRequest is the input shared by all agents.
type AgentRequest struct {
	// Prompt is the augmented prompt built from context, profile and history.
	Prompt string

	// History is the trailing conversation, oldest first.
	History []domain.ConversationTurn

	// Profile is the optional patient profile.
	Profile *domain.MedicalProfile

	// ContextType selects disclaimers.
	ContextType domain.ContextType

	// Matches are the retrieved chunks the prompt was built from.
	Matches []domain.RetrievedMatch

	// SessionToken binds session-scoped agents to the user.
	SessionToken string

	// TopK is forwarded to agents that retrieve on their own.
	TopK int

	// Temperature controls sampling.
	Temperature float64
}

// AgentAnswer is the normalised agent response.
type AgentAnswer struct {
	Text             string
	Sources          []domain.Source
	AgentID          domain.AgentID
	ProcessingTimeMs int64
}
