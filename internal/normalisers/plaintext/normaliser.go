package plaintext

import (
	"context"
	"unicode/utf8"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".txt", ".text"}
}

// MIMEType returns the content type of extracted documents.
func (n *Normaliser) MIMEType() string {
	return "text/plain"
}

// Normalise decodes the content as UTF-8. Invalid sequences are left for
// the sanitizer to replace.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Extraction, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := string(raw.Content)

	return &domain.Extraction{
		Text:           text,
		Method:         "text",
		OriginalLength: utf8.RuneCountInString(text),
		Metadata:       copyMetadata(raw.Metadata),
	}, nil
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
