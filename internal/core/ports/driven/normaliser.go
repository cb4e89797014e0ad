package driven

import (
	"context"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// Normaliser extracts plain text from raw file bytes.
// Each normaliser handles a family of file extensions (e.g., PDF, DOCX).
type Normaliser interface {
	// SupportedExtensions returns lower-case extensions including the dot.
	SupportedExtensions() []string

	// MIMEType returns the content type recorded on documents it extracts.
	MIMEType() string

	// Normalise extracts text. Callers sanitise the result; normalisers
	// need not strip control characters.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Extraction, error)
}

// TextExtractor dispatches raw files to normalisers by extension and
// sanitises the result.
type TextExtractor interface {
	// Supports returns true if filename has an extractor.
	Supports(filename string) bool

	// MIMEType returns the content type for filename.
	MIMEType(filename string) string

	// Extract fails with ErrUnsupportedFormat or ErrEmptyContent.
	Extract(ctx context.Context, raw *domain.RawDocument) (*domain.Extraction, error)
}
