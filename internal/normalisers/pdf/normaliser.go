// Package pdf extracts text from PDF documents page by page.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
	"github.com/custodia-labs/medrag/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".pdf"}
}

// MIMEType returns the content type of extracted documents.
func (n *Normaliser) MIMEType() string {
	return "application/pdf"
}

// Normalise extracts plain text from every page. Pages that fail to
// decode are skipped; the page count covers all pages.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (result *domain.Extraction, err error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: malformed pdf: %v", domain.ErrInvalidInput, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	pageCount := reader.NumPage()
	var text strings.Builder

	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("pdf %s: skipping page %d: %v", raw.Filename, i, err)
			continue
		}

		text.WriteString(pageText)
		text.WriteString("\n")
	}

	metadata := make(map[string]any, len(raw.Metadata))
	for k, v := range raw.Metadata {
		metadata[k] = v
	}

	out := text.String()
	return &domain.Extraction{
		Text:           out,
		Method:         "pdf",
		OriginalLength: utf8.RuneCountInString(out),
		PageCount:      pageCount,
		Metadata:       metadata,
	}, nil
}
