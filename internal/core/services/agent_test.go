package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
)

func TestAgentRouter_DefaultsToContainer(t *testing.T) {
	container := &mockAgent{id: domain.AgentContainer, answer: &driven.AgentAnswer{Text: "from container"}}
	general := &mockAgent{id: domain.AgentGeneral, answer: &driven.AgentAnswer{Text: "from general"}}
	router := NewAgentRouter("", container, general)

	answer, err := router.Dispatch(context.Background(), "", &driven.AgentRequest{Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, "from container", answer.Text)
	assert.Equal(t, domain.AgentContainer, answer.AgentID)
	assert.Empty(t, general.requests)
}

func TestAgentRouter_ExplicitPreference(t *testing.T) {
	container := &mockAgent{id: domain.AgentContainer, answer: &driven.AgentAnswer{Text: "c"}}
	general := &mockAgent{id: domain.AgentGeneral, answer: &driven.AgentAnswer{Text: "g", ProcessingTimeMs: 42}}
	router := NewAgentRouter(domain.AgentContainer, container, general)

	answer, err := router.Dispatch(context.Background(), domain.AgentGeneral, &driven.AgentRequest{})

	require.NoError(t, err)
	assert.Equal(t, "g", answer.Text)
	assert.Equal(t, int64(42), answer.ProcessingTimeMs)
}

func TestAgentRouter_FailureSuggestsAlternative(t *testing.T) {
	container := &mockAgent{id: domain.AgentContainer, err: fmt.Errorf("container: %w", domain.ErrTimeout)}
	general := &mockAgent{id: domain.AgentGeneral, answer: &driven.AgentAnswer{Text: "g"}}
	router := NewAgentRouter(domain.AgentContainer, container, general)

	_, err := router.Dispatch(context.Background(), domain.AgentContainer, &driven.AgentRequest{})

	var agentErr *AgentError
	require.True(t, errors.As(err, &agentErr))
	assert.Equal(t, domain.AgentContainer, agentErr.Agent)
	assert.Equal(t, domain.AgentGeneral, agentErr.Suggestion)
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.Contains(t, err.Error(), `try agent "openai"`)
	assert.Empty(t, general.requests, "router must not switch agents")
}

func TestAgentRouter_KeepsAgentErrorFromAgent(t *testing.T) {
	inner := &AgentError{Agent: domain.AgentContainer, Suggestion: domain.AgentGeneral, Err: domain.ErrAgentUnavailable}
	container := &mockAgent{id: domain.AgentContainer, err: inner}

	_, err := NewAgentRouter("", container).Dispatch(context.Background(), "", &driven.AgentRequest{})

	assert.Same(t, inner, err)
}

func TestAgentRouter_Unavailable(t *testing.T) {
	router := NewAgentRouter(domain.AgentContainer, &mockAgent{id: domain.AgentContainer})

	_, err := router.Dispatch(context.Background(), domain.AgentGeneral, &driven.AgentRequest{})
	assert.ErrorIs(t, err, domain.ErrAgentUnavailable)

	_, err = router.Select("gpt-99")
	assert.ErrorIs(t, err, domain.ErrAgentUnavailable)

	_, err = router.Select(domain.AgentEmergency)
	assert.ErrorIs(t, err, domain.ErrAgentUnavailable)
}

func TestAgentRouter_Status(t *testing.T) {
	container := &mockAgent{id: domain.AgentContainer, pingErr: errors.New("no session")}
	router := NewAgentRouter("", container)

	statuses := router.Status(context.Background(), "")

	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Configured)
	assert.False(t, statuses[0].Healthy)
	assert.Equal(t, "no session", statuses[0].Error)
	assert.False(t, statuses[1].Configured)
}
