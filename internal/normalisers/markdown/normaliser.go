package markdown

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// MIMEType returns the content type of extracted documents.
func (n *Normaliser) MIMEType() string {
	return "text/markdown"
}

// Normalise decodes the content as UTF-8 and keeps the markdown source
// as is. The first H1 heading is recorded as the title.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Extraction, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := string(raw.Content)
	metadata := make(map[string]any, len(raw.Metadata)+1)
	for k, v := range raw.Metadata {
		metadata[k] = v
	}
	if title := extractTitle(source); title != "" {
		metadata["title"] = title
	}

	return &domain.Extraction{
		Text:           source,
		Method:         "markdown",
		OriginalLength: utf8.RuneCountInString(source),
		Metadata:       metadata,
	}, nil
}

// extractTitle returns the first H1 heading.
func extractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}
