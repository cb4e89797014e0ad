package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
	"github.com/custodia-labs/medrag/internal/logger"
	"github.com/custodia-labs/medrag/internal/sanitizer"
)

// Ensure Registry implements the interface.
var _ driven.TextExtractor = (*Registry)(nil)

// Registry maps file extensions to normalisers.
type Registry struct {
	byExt map[string]driven.Normaliser
}

// NewRegistry creates a registry with the given normalisers.
// Later normalisers override earlier ones for the same extension.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byExt: make(map[string]driven.Normaliser)}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser for all its extensions.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.SupportedExtensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// Supports returns true if filename has a registered extension.
func (r *Registry) Supports(filename string) bool {
	_, ok := r.byExt[extension(filename)]
	return ok
}

// MIMEType returns the content type for filename, or "" if unsupported.
func (r *Registry) MIMEType(filename string) string {
	if n, ok := r.byExt[extension(filename)]; ok {
		return n.MIMEType()
	}
	return ""
}

// Extract converts raw file bytes into sanitised text.
// It fails with domain.ErrUnsupportedFormat for unknown extensions and
// domain.ErrEmptyContent when the result is only whitespace.
func (r *Registry) Extract(ctx context.Context, raw *domain.RawDocument) (*domain.Extraction, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	ext := extension(raw.Filename)
	n, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}

	result, err := n.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", raw.Filename, err)
	}

	if result.OriginalLength == 0 {
		result.OriginalLength = utf8.RuneCountInString(result.Text)
	}
	result.Text = strings.TrimSpace(sanitizer.Clean(result.Text))
	result.CleanedLength = utf8.RuneCountInString(result.Text)

	if isBlank(result.Text) {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyContent, raw.Filename)
	}

	logger.Debug("extracted %s via %s: %d -> %d chars",
		raw.Filename, result.Method, result.OriginalLength, result.CleanedLength)

	return result, nil
}

// extension returns the lower-case extension of filename including the dot.
func extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// isBlank reports whether s contains only whitespace or placeholders.
func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) && r != sanitizer.Placeholder {
			return false
		}
	}
	return true
}
