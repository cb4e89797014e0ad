// Package openai provides the API-key-authenticated embedding strategy
// for OpenAI-compatible services.
package openai

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
)

// Ensure Strategy implements the interface.
var _ driven.EmbeddingStrategy = (*Strategy)(nil)

const serviceName = "secondary embedding"

// Default configuration values.
const (
	DefaultModel   = domain.DefaultSecondaryModel
	DefaultTimeout = domain.DefaultEmbeddingTimeout
)

// Config holds configuration for the OpenAI embedding strategy.
type Config struct {
	// APIKey is the API key. The strategy is unavailable without one.
	APIKey string

	// BaseURL overrides the API base URL for compatible services.
	BaseURL string

	// Model is the embedding model (default: text-embedding-3-small).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Strategy generates embeddings with the OpenAI embeddings endpoint.
// Every request asks for domain.EmbeddingDimensions so vectors fit the schema.
type Strategy struct {
	client *openai.Client
	apiKey string
	model  string
}

// New creates the secondary strategy.
func New(cfg Config) *Strategy {
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

	return &Strategy{
		client: openai.NewClientWithConfig(clientCfg),
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

// Source returns domain.EmbeddingSourceSecondary.
func (s *Strategy) Source() domain.EmbeddingSource {
	return domain.EmbeddingSourceSecondary
}

// Available requires an API key. The user token is not used.
func (s *Strategy) Available(_ string) bool {
	return s.apiKey != ""
}

// Embed generates a vector embedding for text.
func (s *Strategy) Embed(ctx context.Context, text, _ string) ([]float32, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%s: %w: API key missing", serviceName, domain.ErrAuthenticationFailed)
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(s.model),
		Dimensions: domain.EmbeddingDimensions,
	})
	if err != nil {
		return nil, remote.ClassifyOpenAI(serviceName, err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, remote.InvalidResponse(serviceName, "response has no embedding")
	}
	return resp.Data[0].Embedding, nil
}

// ModelName returns the embedding model being used.
func (s *Strategy) ModelName() string {
	return s.model
}

// Ping validates the API key by listing models. No inference is run.
func (s *Strategy) Ping(ctx context.Context, _ string) error {
	if s.apiKey == "" {
		return fmt.Errorf("%s: %w: API key missing", serviceName, domain.ErrAuthenticationFailed)
	}
	if _, err := s.client.ListModels(ctx); err != nil {
		return remote.ClassifyOpenAI(serviceName, err)
	}
	return nil
}
