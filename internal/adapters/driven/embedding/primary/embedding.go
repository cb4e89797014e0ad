// Package primary provides the token-authenticated domain embedding strategy.
package primary

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

// Ensure Strategy implements the interface.
var _ driven.EmbeddingStrategy = (*Strategy)(nil)

const serviceName = "primary embedding"

// Default configuration values.
const (
	DefaultTimeout = domain.DefaultEmbeddingTimeout
)

// Config holds configuration for the primary embedding service.
type Config struct {
	// BaseURL is the service base URL (required). Requests go to {BaseURL}/embed.
	BaseURL string

	// Timeout bounds each call (default: 30s).
	Timeout time.Duration

	// Transport is the underlying round tripper (default: http.DefaultTransport).
	Transport http.RoundTripper
}

// Strategy calls the domain embedding service with the caller's bearer token.
type Strategy struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
}

// embedRequest is the service request format.
type embedRequest struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// embedResponse is the service response format.
type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// New creates the primary strategy.
func New(cfg Config) *Strategy {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	return &Strategy{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		timeout:   cfg.Timeout,
		transport: cfg.Transport,
	}
}

// Source returns domain.EmbeddingSourcePrimary.
func (s *Strategy) Source() domain.EmbeddingSource {
	return domain.EmbeddingSourcePrimary
}

// Available requires both an endpoint and a user token.
func (s *Strategy) Available(userToken string) bool {
	return s.baseURL != "" && userToken != ""
}

// client returns an HTTP client that sends userToken as a bearer credential.
func (s *Strategy) client(userToken string) *http.Client {
	return &http.Client{
		Timeout: s.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: userToken, TokenType: "Bearer"}),
			Base:   s.transport,
		},
	}
}

// Embed generates a vector embedding for text.
func (s *Strategy) Embed(ctx context.Context, text, userToken string) ([]float32, error) {
	if !s.Available(userToken) {
		return nil, fmt.Errorf("%s: %w: endpoint or user token missing", serviceName, domain.ErrAuthenticationFailed)
	}

	jsonBody, err := json.Marshal(embedRequest{
		Text:     text,
		Metadata: map[string]string{"source": "medrag"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embed", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client(userToken).Do(req)
	if err != nil {
		return nil, remote.ClassifyTransport(serviceName, err)
	}
	defer resp.Body.Close()

	if err := remote.CheckResponse(serviceName, resp); err != nil {
		return nil, err
	}

	var embedResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, remote.InvalidResponse(serviceName, "decode response: %v", err)
	}
	if len(embedResp.Embedding) == 0 {
		return nil, remote.InvalidResponse(serviceName, "response has no embedding")
	}

	// Convert float64 to float32
	embedding := make([]float32, len(embedResp.Embedding))
	for i, v := range embedResp.Embedding {
		embedding[i] = float32(v)
	}
	return embedding, nil
}

// Ping checks the service health endpoint with the user's token.
func (s *Strategy) Ping(ctx context.Context, userToken string) error {
	if !s.Available(userToken) {
		return fmt.Errorf("%s: %w: endpoint or user token missing", serviceName, domain.ErrAuthenticationFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client(userToken).Do(req)
	if err != nil {
		return remote.ClassifyTransport(serviceName, err)
	}
	defer resp.Body.Close()

	return remote.CheckResponse(serviceName, resp)
}
