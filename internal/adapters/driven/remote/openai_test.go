package remote

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

func TestClassifyOpenAI(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"api 401", &openai.APIError{HTTPStatusCode: 401, Message: "invalid key"}, domain.ErrAuthenticationFailed},
		{"api 429", &openai.APIError{HTTPStatusCode: 429, Message: "quota"}, domain.ErrRateLimited},
		{"request 500", &openai.RequestError{HTTPStatusCode: 500, Err: errors.New("boom")}, domain.ErrInvalidResponse},
		{"deadline", context.DeadlineExceeded, domain.ErrTimeout},
		{"decode", errors.New("invalid character '<'"), domain.ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ClassifyOpenAI("svc", tt.err), tt.want)
		})
	}

	assert.NoError(t, ClassifyOpenAI("svc", nil))
}
