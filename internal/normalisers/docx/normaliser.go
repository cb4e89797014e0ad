package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".docx"}
}

// MIMEType returns the content type of extracted documents.
func (n *Normaliser) MIMEType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// Normalise extracts the raw text of word/document.xml, including tables.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Extraction, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a docx archive", domain.ErrInvalidInput)
	}

	body := findFile(reader, "word/document.xml")
	if body == nil {
		return nil, fmt.Errorf("%w: missing word/document.xml", domain.ErrInvalidInput)
	}

	rc, err := body.Open()
	if err != nil {
		return nil, fmt.Errorf("opening document.xml: %w", err)
	}
	text := extractText(rc)
	rc.Close()

	metadata := make(map[string]any, len(raw.Metadata)+1)
	for k, v := range raw.Metadata {
		metadata[k] = v
	}
	if title := extractTitle(reader); title != "" {
		metadata["title"] = title
	}

	return &domain.Extraction{
		Text:           text,
		Method:         "docx",
		OriginalLength: utf8.RuneCountInString(text),
		Metadata:       metadata,
	}, nil
}

// findFile returns the archive member with the given name.
func findFile(reader *zip.Reader, name string) *zip.File {
	for _, f := range reader.File {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

// extractText streams the document XML, emitting runs, tabs and breaks.
// Paragraphs and table rows end lines; table cells are tab separated.
func extractText(r io.Reader) string {
	dec := xml.NewDecoder(r)
	var buf strings.Builder
	lineEnded := true

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				var text string
				if err := dec.DecodeElement(&text, &t); err == nil {
					buf.WriteString(text)
					lineEnded = false
				}
			case "tab":
				buf.WriteByte('\t')
				lineEnded = false
			case "br", "cr":
				buf.WriteByte('\n')
				lineEnded = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p", "tr":
				if !lineEnded {
					buf.WriteByte('\n')
					lineEnded = true
				}
			case "tc":
				buf.WriteByte('\t')
			}
		}
	}

	return strings.TrimSpace(buf.String())
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractTitle reads the title from docProps/core.xml.
func extractTitle(reader *zip.Reader) string {
	f := findFile(reader, "docProps/core.xml")
	if f == nil {
		return ""
	}

	rc, err := f.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return ""
	}

	var core coreXML
	if err := xml.Unmarshal(content, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}
