package normalisers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// stubNormaliser returns fixed text for .stub files.
type stubNormaliser struct {
	text string
	err  error
}

func (s *stubNormaliser) SupportedExtensions() []string { return []string{".stub"} }
func (s *stubNormaliser) MIMEType() string              { return "application/x-stub" }
func (s *stubNormaliser) Normalise(_ context.Context, _ *domain.RawDocument) (*domain.Extraction, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Extraction{Text: s.text, Method: "stub"}, nil
}

func TestRegistry_Extract_Sanitises(t *testing.T) {
	r := NewRegistry(&stubNormaliser{text: "  line one\r\nline\x00 two  "})

	result, err := r.Extract(context.Background(), &domain.RawDocument{Filename: "report.STUB"})
	require.NoError(t, err)

	assert.Equal(t, "line one\nline two", result.Text)
	assert.Equal(t, "stub", result.Method)
	assert.Equal(t, 17, result.CleanedLength)
	assert.Equal(t, 23, result.OriginalLength)
}

func TestRegistry_Extract_UnsupportedFormat(t *testing.T) {
	r := Default()

	_, err := r.Extract(context.Background(), &domain.RawDocument{Filename: "scan.tiff", Content: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_Extract_EmptyContent(t *testing.T) {
	r := Default()

	_, err := r.Extract(context.Background(), &domain.RawDocument{Filename: "blank.txt", Content: []byte(" \n\t\x00 ")})
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}

func TestRegistry_Extract_NormaliserError(t *testing.T) {
	r := NewRegistry(&stubNormaliser{err: errors.New("boom")})

	_, err := r.Extract(context.Background(), &domain.RawDocument{Filename: "a.stub"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRegistry_Extract_Nil(t *testing.T) {
	_, err := Default().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDefault_Supports(t *testing.T) {
	r := Default()

	for _, name := range []string{"a.pdf", "b.DOCX", "c.txt", "d.md", "e.markdown"} {
		assert.True(t, r.Supports(name), name)
	}
	assert.False(t, r.Supports("f.doc"))
	assert.Equal(t, "application/pdf", r.MIMEType("x.pdf"))
	assert.Equal(t, "", r.MIMEType("x.rtf"))
}

func TestDefault_ExtractPlainText(t *testing.T) {
	result, err := Default().Extract(context.Background(), &domain.RawDocument{
		Filename: "note.txt",
		Content:  []byte("Blood pressure stable.\r\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Blood pressure stable.", result.Text)
	assert.Equal(t, "text", result.Method)
}
