package normalisers

import (
	"github.com/custodia-labs/medrag/internal/normalisers/docx"
	"github.com/custodia-labs/medrag/internal/normalisers/markdown"
	"github.com/custodia-labs/medrag/internal/normalisers/pdf"
	"github.com/custodia-labs/medrag/internal/normalisers/plaintext"
)

// Default returns a registry with every built-in normaliser.
func Default() *Registry {
	return NewRegistry(
		plaintext.New(),
		markdown.New(),
		docx.New(),
		pdf.New(),
	)
}
