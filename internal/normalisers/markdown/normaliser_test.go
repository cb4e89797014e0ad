package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

func TestSupportedExtensions(t *testing.T) {
	exts := New().SupportedExtensions()
	assert.Contains(t, exts, ".md")
	assert.Contains(t, exts, ".markdown")
	assert.Equal(t, "text/markdown", New().MIMEType())
}

func TestNormalise_KeepsSourceVerbatim(t *testing.T) {
	input := "# Lipid Panel\n\n> see [guideline](http://x)\n\n**LDL**: 3.4 mmol/L\n\n" +
		"```\nraw block\n```\n\nvar __init__ and __dunder__ ok\n---\nHbA1c_level normal"

	result, err := New().Normalise(context.Background(), &domain.RawDocument{
		Filename: "labs.md",
		Content:  []byte(input),
	})
	require.NoError(t, err)

	assert.Equal(t, input, result.Text)
	assert.Equal(t, "markdown", result.Method)
	assert.Equal(t, len([]rune(input)), result.OriginalLength)
	assert.Equal(t, "Lipid Panel", result.Metadata["title"])
}

func TestNormalise_CopiesRawMetadata(t *testing.T) {
	raw := &domain.RawDocument{
		Filename: "notes.md",
		Content:  []byte("no heading"),
		Metadata: map[string]any{"source": "upload"},
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "upload", result.Metadata["source"])
	assert.NotContains(t, result.Metadata, "title")
	result.Metadata["extra"] = true
	assert.NotContains(t, raw.Metadata, "extra")
}

func TestNormalise_NilDocument(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractTitle_None(t *testing.T) {
	assert.Equal(t, "", extractTitle("no heading here\n## second level"))
}
