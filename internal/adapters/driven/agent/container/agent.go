// Package container provides the session-bound container chat agent.
package container

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/medrag/internal/adapters/driven/remote"
	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
)

// Ensure Agent implements the interface.
var _ driven.ChatAgent = (*Agent)(nil)

const serviceName = "txagent"

// Default configuration values.
const (
	DefaultTimeout = domain.DefaultAgentTimeout
)

// Config holds configuration for the container agent.
type Config struct {
	// BaseURL is the container service base URL (required).
	BaseURL string

	// Timeout bounds each chat call (default: 60s).
	Timeout time.Duration

	// Transport is the underlying round tripper (default: http.DefaultTransport).
	Transport http.RoundTripper
}

// Agent posts augmented prompts to the container service.
type Agent struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
}

// chatRequest is the container /chat request format.
type chatRequest struct {
	Query       string        `json:"query"`
	History     []historyTurn `json:"history"`
	TopK        int           `json:"top_k"`
	Temperature float64       `json:"temperature"`
}

type historyTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the container /chat response format.
type chatResponse struct {
	Response *string         `json:"response"`
	Sources  []domain.Source `json:"sources"`
}

// New creates the container agent.
func New(cfg Config) *Agent {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	return &Agent{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		timeout:   cfg.Timeout,
		transport: cfg.Transport,
	}
}

// ID returns domain.AgentContainer.
func (a *Agent) ID() domain.AgentID {
	return domain.AgentContainer
}

// client returns an HTTP client bound to the user's session token.
func (a *Agent) client(sessionToken string) *http.Client {
	return &http.Client{
		Timeout: a.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: sessionToken, TokenType: "Bearer"}),
			Base:   a.transport,
		},
	}
}

// checkSession fails with domain.ErrAgentUnavailable without an endpoint or session.
func (a *Agent) checkSession(sessionToken string) error {
	if a.baseURL == "" {
		return fmt.Errorf("%s: %w: endpoint not configured", serviceName, domain.ErrAgentUnavailable)
	}
	if sessionToken == "" {
		return fmt.Errorf("%s: %w: no active session, use agent %q",
			serviceName, domain.ErrAgentUnavailable, domain.AgentGeneral)
	}
	return nil
}

// Respond posts the prompt and history to /chat.
func (a *Agent) Respond(ctx context.Context, req *driven.AgentRequest) (*driven.AgentAnswer, error) {
	if err := a.checkSession(req.SessionToken); err != nil {
		return nil, err
	}
	start := time.Now()

	history := make([]historyTurn, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, historyTurn{Role: string(turn.Role), Content: turn.Content})
	}

	jsonBody, err := json.Marshal(chatRequest{
		Query:       req.Prompt,
		History:     history,
		TopK:        req.TopK,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client(req.SessionToken).Do(httpReq)
	if err != nil {
		return nil, remote.ClassifyTransport(serviceName, err)
	}
	defer resp.Body.Close()

	if err := remote.CheckResponse(serviceName, resp); err != nil {
		return nil, err
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, remote.InvalidResponse(serviceName, "decode response: %v", err)
	}
	if chatResp.Response == nil {
		return nil, remote.InvalidResponse(serviceName, "response field missing")
	}

	return &driven.AgentAnswer{
		Text:             *chatResp.Response,
		Sources:          chatResp.Sources,
		AgentID:          domain.AgentContainer,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// Ping checks the container health endpoint with the session token.
func (a *Agent) Ping(ctx context.Context, sessionToken string) error {
	if err := a.checkSession(sessionToken); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := a.client(sessionToken).Do(req)
	if err != nil {
		return remote.ClassifyTransport(serviceName, err)
	}
	defer resp.Body.Close()

	return remote.CheckResponse(serviceName, resp)
}
