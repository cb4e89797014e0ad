// Package general provides the chat agent backed by an OpenAI-compatible
// chat completion API.
package general

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/medrag/internal/adapters/driven/remote"
	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
	"github.com/custodia-labs/medrag/internal/logger"
)

// Ensure Agent implements the interface.
var _ driven.ChatAgent = (*Agent)(nil)

const serviceName = "openai"

// Default configuration values.
const (
	DefaultModel   = domain.DefaultChatModel
	DefaultTimeout = domain.DefaultAgentTimeout
)

// Config holds configuration for the general agent.
type Config struct {
	// APIKey is the API key. Without it the agent is unavailable.
	APIKey string

	// BaseURL overrides the API base URL for compatible services.
	BaseURL string

	// Model is the chat model (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Prompts supplies the system prompt template. Optional.
	Prompts driven.PromptStore
}

// Agent answers with a system message carrying guardrails, disclaimers
// and profile facts, and a user message carrying the augmented prompt.
type Agent struct {
	client  *openai.Client
	apiKey  string
	model   string
	prompts driven.PromptStore
}

// New creates the general agent.
func New(cfg Config) *Agent {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Agent{
		client:  openai.NewClientWithConfig(clientCfg),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		prompts: cfg.Prompts,
	}
}

// ID returns domain.AgentGeneral.
func (a *Agent) ID() domain.AgentID {
	return domain.AgentGeneral
}

// Respond sends one chat completion request.
func (a *Agent) Respond(ctx context.Context, req *driven.AgentRequest) (*driven.AgentAnswer, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("%s: %w: API key not configured", serviceName, domain.ErrAgentUnavailable)
	}
	start := time.Now()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: a.systemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return nil, remote.ClassifyOpenAI(serviceName, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, remote.InvalidResponse(serviceName, "no choices returned")
	}

	return &driven.AgentAnswer{
		Text:             strings.TrimSpace(resp.Choices[0].Message.Content),
		AgentID:          domain.AgentGeneral,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// systemPrompt fills the template with the disclaimer and profile facts.
func (a *Agent) systemPrompt(req *driven.AgentRequest) string {
	template := domain.DefaultAgentSystemPrompt
	if a.prompts != nil {
		if loaded, err := a.prompts.Load(driven.PromptAgentSystem); err != nil {
			logger.Warn("Loading agent system prompt: %v", err)
		} else if strings.TrimSpace(loaded) != "" {
			template = loaded
		}
	}

	profile := "No patient profile was provided."
	if facts := req.Profile.Facts(); len(facts) > 0 {
		profile = "Patient profile:\n- " + strings.Join(facts, "\n- ")
	}

	return strings.NewReplacer(
		"{{disclaimer}}", req.ContextType.Disclaimer(),
		"{{profile}}", profile,
	).Replace(template)
}

// ModelName returns the chat model being used.
func (a *Agent) ModelName() string {
	return a.model
}

// Ping validates the API key by listing models.
func (a *Agent) Ping(ctx context.Context, _ string) error {
	if a.apiKey == "" {
		return fmt.Errorf("%s: %w: API key not configured", serviceName, domain.ErrAgentUnavailable)
	}
	if _, err := a.client.ListModels(ctx); err != nil {
		return remote.ClassifyOpenAI(serviceName, err)
	}
	return nil
}
