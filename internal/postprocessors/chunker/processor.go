// Package chunker provides a sentence-aware text chunker with overlap.
package chunker

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// Processor splits document text into overlapping chunks.
// Cuts prefer a sentence terminator, newline or space found by searching
// backward from the window end, but only past the middle of the window.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// FromSettings creates a chunker from configured sizes.
func FromSettings(s domain.ChunkingSettings) *Processor {
	return New(WithChunkSize(s.Size), WithOverlap(s.Overlap))
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Chunk splits text into chunks belonging to doc. Offsets are in runes.
// Every chunk is stamped with the final chunk count.
func (p *Processor) Chunk(_ context.Context, doc *domain.Document, text string) ([]domain.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyInput
	}

	spans := p.split([]rune(text))
	chunks := make([]domain.Chunk, 0, len(spans))
	now := time.Now()
	runes := []rune(text)

	for i, s := range spans {
		content := string(runes[s.start:s.end])
		chunk := domain.Chunk{
			ID:        uuid.New().String(),
			Index:     i,
			StartChar: s.start,
			EndChar:   s.end,
			Content:   content,
			CreatedAt: now,
			Metadata: map[string]any{
				"chunk_index": i,
				"start_char":  s.start,
				"end_char":    s.end,
				"char_count":  s.end - s.start,
				"word_count":  len(strings.Fields(content)),
			},
		}
		if doc != nil {
			chunk.DocumentID = doc.ID
			chunk.UserID = doc.UserID
			chunk.Filename = doc.Filename
		}
		chunks = append(chunks, chunk)
	}

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
		chunks[i].Metadata["total_chunks"] = len(chunks)
	}

	return chunks, nil
}

// span is a half-open rune range.
type span struct {
	start, end int
}

// split computes chunk boundaries over runes.
func (p *Processor) split(runes []rune) []span {
	n := len(runes)
	spans := make([]span, 0, n/max(p.chunkSize-p.overlap, 1)+1)

	start := 0
	for start < n {
		end := start + p.chunkSize
		if end > n {
			end = n
		}

		if end < n {
			for i := end; i > start+p.chunkSize/2; i-- {
				if isBreak(runes[i-1]) {
					end = i
					break
				}
			}
		}

		spans = append(spans, span{start: start, end: end})
		if end >= n {
			break
		}

		// A cut that backed off far enough to swallow the overlap moves
		// the cursor to the cut itself.
		next := end - p.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return spans
}

// isBreak reports whether a cut may follow r.
func isBreak(r rune) bool {
	switch r {
	case '.', '!', '?', '\n', ' ':
		return true
	default:
		return false
	}
}
