package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk_ValidateEmbedding(t *testing.T) {
	tests := []struct {
		name string
		dim  int
		want error
	}{
		{"expected dimension", EmbeddingDimensions, nil},
		{"openai native dimension", 1536, ErrDimensionMismatch},
		{"empty", 0, ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Chunk{Embedding: make([]float32, tt.dim)}
			assert.Equal(t, tt.want, c.ValidateEmbedding())
		})
	}
}

func TestChunk_CharCount(t *testing.T) {
	c := &Chunk{StartChar: 2800, EndChar: 5800}
	assert.Equal(t, 3000, c.CharCount())
}

func TestExtraction_MetadataMap(t *testing.T) {
	e := &Extraction{
		Method:         "pdf",
		OriginalLength: 120,
		CleanedLength:  118,
		PageCount:      3,
		Metadata:       map[string]any{"title": "Lab report"},
	}

	m := e.MetadataMap()

	assert.Equal(t, "pdf", m["extraction_method"])
	assert.Equal(t, 120, m["original_length"])
	assert.Equal(t, 118, m["cleaned_length"])
	assert.Equal(t, 3, m["page_count"])
	assert.Equal(t, "Lab report", m["title"])
}

func TestExtraction_MetadataMap_NoPages(t *testing.T) {
	e := &Extraction{Method: "text"}
	_, ok := e.MetadataMap()["page_count"]
	assert.False(t, ok)
}
