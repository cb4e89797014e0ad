package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
	"github.com/custodia-labs/medrag/internal/logger"
)

// AgentError is an agent failure with a suggested alternative.
type AgentError struct {
	Agent      domain.AgentID
	Suggestion domain.AgentID
	Err        error
}

// Error implements error.
func (e *AgentError) Error() string {
	return fmt.Sprintf("agent %s: %v (try agent %q)", e.Agent, e.Err, e.Suggestion)
}

// Unwrap returns the underlying error.
func (e *AgentError) Unwrap() error {
	return e.Err
}

// AgentRouter dispatches prompts to the agent the caller prefers.
// It never switches agents on failure.
type AgentRouter struct {
	agents       map[domain.AgentID]driven.ChatAgent
	defaultAgent domain.AgentID
}

// NewAgentRouter registers agents. An invalid default selects the container agent.
func NewAgentRouter(defaultAgent domain.AgentID, agents ...driven.ChatAgent) *AgentRouter {
	if !defaultAgent.IsValid() {
		defaultAgent = domain.AgentContainer
	}
	r := &AgentRouter{
		agents:       make(map[domain.AgentID]driven.ChatAgent, len(agents)),
		defaultAgent: defaultAgent,
	}
	for _, a := range agents {
		if a != nil {
			r.agents[a.ID()] = a
		}
	}
	return r
}

// Default returns the agent used when no preference is given.
func (r *AgentRouter) Default() domain.AgentID {
	return r.defaultAgent
}

// Select resolves a preference. Empty selects the default.
func (r *AgentRouter) Select(preference domain.AgentID) (driven.ChatAgent, error) {
	if preference == "" {
		preference = r.defaultAgent
	}
	if !preference.IsValid() {
		return nil, &AgentError{
			Agent:      preference,
			Suggestion: r.defaultAgent,
			Err:        fmt.Errorf("%w: unknown agent", domain.ErrAgentUnavailable),
		}
	}
	agent, ok := r.agents[preference]
	if !ok {
		return nil, &AgentError{
			Agent:      preference,
			Suggestion: preference.Alternative(),
			Err:        fmt.Errorf("%w: not configured", domain.ErrAgentUnavailable),
		}
	}
	return agent, nil
}

// Dispatch sends req to the preferred agent and normalises the answer.
func (r *AgentRouter) Dispatch(
	ctx context.Context, preference domain.AgentID, req *driven.AgentRequest,
) (*driven.AgentAnswer, error) {
	agent, err := r.Select(preference)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	answer, err := agent.Respond(ctx, req)
	if err != nil {
		logger.Warn("Agent %s failed: %v", agent.ID(), err)
		var agentErr *AgentError
		if errors.As(err, &agentErr) {
			return nil, err
		}
		return nil, &AgentError{Agent: agent.ID(), Suggestion: agent.ID().Alternative(), Err: err}
	}

	if answer.AgentID == "" {
		answer.AgentID = agent.ID()
	}
	if answer.ProcessingTimeMs == 0 {
		answer.ProcessingTimeMs = time.Since(start).Milliseconds()
	}
	logger.Debug("Agent %s answered in %dms with %d sources", answer.AgentID, answer.ProcessingTimeMs, len(answer.Sources))
	return answer, nil
}

// Status pings every registered agent and reports unconfigured ones.
func (r *AgentRouter) Status(ctx context.Context, sessionToken string) []domain.ComponentStatus {
	statuses := make([]domain.ComponentStatus, 0, 2)
	for _, id := range []domain.AgentID{domain.AgentContainer, domain.AgentGeneral} {
		status := domain.ComponentStatus{Name: "agent/" + id.String()}
		if agent, ok := r.agents[id]; ok {
			status.Configured = true
			if err := agent.Ping(ctx, sessionToken); err != nil {
				status.Error = err.Error()
			} else {
				status.Healthy = true
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}
