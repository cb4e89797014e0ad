package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

func embeddingsHandler(t *testing.T, dims int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req["model"])
		assert.EqualValues(t, domain.EmbeddingDimensions, req["dimensions"])

		vec := make([]float32, dims)
		for i := range vec {
			vec[i] = 0.5
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": vec},
			},
			"model": "text-embedding-3-small",
		})
	}
}

func TestStrategy_Available(t *testing.T) {
	assert.False(t, New(Config{}).Available("user-token"))
	assert.True(t, New(Config{APIKey: "sk"}).Available(""))
	assert.Equal(t, domain.EmbeddingSourceSecondary, New(Config{}).Source())
	assert.Equal(t, DefaultModel, New(Config{}).ModelName())
}

func TestStrategy_Embed(t *testing.T) {
	server := httptest.NewServer(embeddingsHandler(t, 768))
	defer server.Close()

	s := New(Config{APIKey: "sk-test", BaseURL: server.URL})
	got, err := s.Embed(context.Background(), "metformin side effects", "")

	require.NoError(t, err)
	assert.Len(t, got, 768)
}

func TestStrategy_Embed_ReturnsRawLength(t *testing.T) {
	server := httptest.NewServer(embeddingsHandler(t, 1536))
	defer server.Close()

	got, err := New(Config{APIKey: "sk-test", BaseURL: server.URL}).Embed(context.Background(), "x", "")

	require.NoError(t, err)
	assert.Len(t, got, 1536)
}

func TestStrategy_Embed_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"invalid key", http.StatusUnauthorized, `{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`, domain.ErrAuthenticationFailed},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached","type":"requests"}}`, domain.ErrRateLimited},
		{"server error", http.StatusInternalServerError, `oops`, domain.ErrInvalidResponse},
		{"empty data", http.StatusOK, `{"object":"list","data":[]}`, domain.ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(Config{APIKey: "sk-test", BaseURL: server.URL}).Embed(context.Background(), "x", "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStrategy_Embed_NoKey(t *testing.T) {
	_, err := New(Config{}).Embed(context.Background(), "x", "")
	assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
}

func TestStrategy_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer server.Close()

	assert.NoError(t, New(Config{APIKey: "sk-test", BaseURL: server.URL}).Ping(context.Background(), ""))
}
