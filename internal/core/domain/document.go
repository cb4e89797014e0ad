package domain

import "time"

// EmbeddingDimensions is the vector length shared by the chunk schema and
// every embedding strategy. Vectors of any other length are rejected.
const EmbeddingDimensions = 768

// Document is an uploaded file owned by exactly one user.
// Only Filename and Tags may change after creation.
type Document struct {
	// ID is the unique identifier.
	ID string

	// UserID identifies the owner.
	UserID string

	// Filename is the display name, initially the uploaded file name.
	Filename string

	// Size is the original byte size of the upload.
	Size int64

	// MIMEType is the detected content type.
	MIMEType string

	// Tags are free-form labels set by the owner.
	Tags []string

	// Metadata holds extraction details such as page_count.
	Metadata map[string]any

	// CreatedAt is when the document was stored.
	CreatedAt time.Time
}

// EmbeddingSource records which strategy produced a vector.
type EmbeddingSource string

// Known embedding sources.
const (
	// EmbeddingSourcePrimary is the token-authenticated domain-specific service.
	EmbeddingSourcePrimary EmbeddingSource = "primary"

	// EmbeddingSourceSecondary is the API-key-authenticated general-purpose service.
	EmbeddingSourceSecondary EmbeddingSource = "secondary"
)

// String returns the string representation.
func (s EmbeddingSource) String() string {
	return string(s)
}

// Embedding is a validated vector and the strategy that produced it.
type Embedding struct {
	Vector []float32
	Source EmbeddingSource
}

// Chunk is a bounded span of a document's text, embedded and stored independently.
type Chunk struct {
	// ID is the unique identifier.
	ID string

	// DocumentID references the parent document.
	DocumentID string

	// UserID identifies the owner; similarity search is scoped by it.
	UserID string

	// Filename is the parent document's filename at upload time.
	Filename string

	// Index is the zero-based position within the document.
	Index int

	// TotalChunks is the number of chunks the document produced.
	TotalChunks int

	// StartChar is the inclusive start offset in runes.
	StartChar int

	// EndChar is the exclusive end offset in runes.
	EndChar int

	// Content is the sanitised chunk text.
	Content string

	// Embedding is the vector representation, EmbeddingDimensions long.
	Embedding []float32

	// EmbeddingSource records which strategy produced Embedding.
	EmbeddingSource EmbeddingSource

	// Metadata holds word_count, char_count and extraction details.
	Metadata map[string]any

	// CreatedAt is when the chunk was stored.
	CreatedAt time.Time
}

// CharCount returns the length of the chunk's range.
func (c *Chunk) CharCount() int {
	return c.EndChar - c.StartChar
}

// ValidateEmbedding reports whether the chunk's vector may be persisted.
func (c *Chunk) ValidateEmbedding() error {
	if len(c.Embedding) != EmbeddingDimensions {
		return ErrDimensionMismatch
	}
	return nil
}
