package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, StorageSQLite, s.Storage.Backend)
	assert.Equal(t, 3000, s.Chunking.Size)
	assert.Equal(t, 200, s.Chunking.Overlap)
	assert.Equal(t, 5, s.Retrieval.TopK)
	assert.InDelta(t, 0.7, s.Retrieval.Threshold, 1e-9)
	assert.Equal(t, AgentContainer, s.Agent.Default)
	assert.False(t, s.Embedding.PrimaryConfigured())
	assert.False(t, s.Embedding.SecondaryConfigured())
}

func TestSettings_Keywords(t *testing.T) {
	s := Settings{EmergencyKeywords: []string{"anaphylaxis"}}

	kw := s.Keywords()

	assert.Len(t, kw, len(DefaultEmergencyKeywords)+1)
	assert.Contains(t, kw, "chest pain")
	assert.Equal(t, "anaphylaxis", kw[len(kw)-1])
}

func TestStorageBackend_IsValid(t *testing.T) {
	assert.True(t, StorageSQLite.IsValid())
	assert.True(t, StoragePostgres.IsValid())
	assert.True(t, StorageMemory.IsValid())
	assert.False(t, StorageBackend("mysql").IsValid())
}
