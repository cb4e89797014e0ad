// Package memory provides in-memory implementations of the storage ports.
// It backs tests and the "memory" storage backend; nothing survives the process.
package memory

import (
	"sync"
	"time"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
)

// Ensure Store implements the storage interfaces.
var (
	_ driven.DocumentStore     = (*Store)(nil)
	_ driven.ChunkStore        = (*Store)(nil)
	_ driven.ConsultationStore = (*Store)(nil)
)

// Store keeps documents, chunks and consultations in maps.
type Store struct {
	mu            sync.RWMutex
	documents     map[string]domain.Document
	chunks        map[string]domain.Chunk
	consultations []domain.Consultation
	now           func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string]domain.Chunk),
		now:       time.Now,
	}
}
