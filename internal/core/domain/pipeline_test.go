package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkFailure(t *testing.T) {
	f := ChunkFailure{Index: 2, Err: ErrRateLimited}

	assert.Equal(t, "chunk 2: rate limited", f.Error())
	assert.True(t, errors.Is(f, ErrRateLimited))
}

func TestUploadResult(t *testing.T) {
	r := &UploadResult{
		Stored: []string{"a", "b"},
		Failed: []ChunkFailure{{Index: 2, Err: ErrTimeout}},
	}
	assert.Equal(t, 3, r.TotalChunks())
	assert.True(t, r.Partial())

	assert.False(t, (&UploadResult{Stored: []string{"a"}}).Partial())
}
