package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

func TestDocumentsList(t *testing.T) {
	svc := &mockDocumentService{documents: []domain.Document{{
		ID:        "doc-1",
		Filename:  "labs.pdf",
		MIMEType:  "application/pdf",
		Size:      2048,
		Tags:      []string{"lab", "2024"},
		CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}}}
	SetServices(Services{Document: svc})

	out, err := executeCommand(t, "documents", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "doc-1")
	assert.Contains(t, out, "Filename: labs.pdf")
	assert.Contains(t, out, "application/pdf (2048 bytes)")
	assert.Contains(t, out, "Tags:     lab, 2024")
	assert.Contains(t, out, "2024-03-01 09:30:00")
	assert.Contains(t, out, "Total: 1 documents")
}

func TestDocumentsList_Empty(t *testing.T) {
	SetServices(Services{Document: &mockDocumentService{}})

	out, err := executeCommand(t, "docs", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents uploaded.")
}

func TestDocumentsRenameTagDelete(t *testing.T) {
	svc := &mockDocumentService{}
	SetServices(Services{Document: svc})

	out, err := executeCommand(t, "documents", "rename", "doc-1", "bloodwork.pdf")
	require.NoError(t, err)
	assert.Equal(t, "bloodwork.pdf", svc.renamedTo)
	assert.Contains(t, out, "Renamed doc-1 to bloodwork.pdf")

	SetServices(Services{Document: svc})
	out, err = executeCommand(t, "documents", "tag", "doc-1", "lab", "fasting")
	require.NoError(t, err)
	assert.Equal(t, []string{"lab", "fasting"}, svc.tags)
	assert.Contains(t, out, "Tagged doc-1: lab, fasting")

	SetServices(Services{Document: svc})
	out, err = executeCommand(t, "documents", "tag", "doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared tags on doc-1")

	SetServices(Services{Document: svc})
	out, err = executeCommand(t, "documents", "delete", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", svc.deleted)
	assert.Contains(t, out, "Deleted doc-1")
}

func TestDocumentsDelete_NotFound(t *testing.T) {
	SetServices(Services{Document: &mockDocumentService{err: domain.ErrNotFound}})

	_, err := executeCommand(t, "documents", "delete", "doc-x")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunks(t *testing.T) {
	svc := &mockDocumentService{chunks: []domain.Chunk{{
		ID:              "c-1",
		Index:           0,
		TotalChunks:     1,
		StartChar:       0,
		EndChar:         12,
		Content:         "Blood\npressure",
		EmbeddingSource: domain.EmbeddingSourcePrimary,
	}}}
	SetServices(Services{Document: svc})

	out, err := executeCommand(t, "chunks", "doc-1")

	require.NoError(t, err)
	assert.Contains(t, out, "[1/1] c-1  chars 0-12  primary")
	assert.Contains(t, out, "Blood pressure")
	assert.Contains(t, out, "Total: 1 chunks")
}

func TestChunks_ServiceError(t *testing.T) {
	SetServices(Services{Document: &mockDocumentService{err: errors.New("db down")}})

	_, err := executeCommand(t, "chunks", "doc-1")

	assert.ErrorContains(t, err, "db down")
}

func TestConsultations(t *testing.T) {
	svc := &mockConsultationService{records: []domain.Consultation{{
		SessionID: "s-1",
		Query:     "chest pain",
		Response:  "Call emergency services.",
		AgentID:   domain.AgentEmergency,
		Emergency: true,
		CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}}}
	SetServices(Services{Consultation: svc})

	out, err := executeCommand(t, "consultations", "-n", "5")

	require.NoError(t, err)
	assert.Equal(t, 5, svc.lastLimit)
	assert.Contains(t, out, "2024-03-01 09:30  s-1  emergency_system EMERGENCY")
	assert.Contains(t, out, "Q: chest pain")
}

func TestHealth(t *testing.T) {
	svc := &mockHealthService{statuses: []domain.ComponentStatus{
		{Name: "embedding.primary", Configured: true, Healthy: true},
		{Name: "embedding.secondary", Configured: false},
		{Name: "agent.txagent", Configured: true, Error: "unreachable"},
	}}
	SetServices(Services{Health: svc})

	out, err := executeCommand(t, "health", "--token", "tok")

	require.NoError(t, err)
	assert.Equal(t, "tok", svc.lastToken)
	assert.Contains(t, out, "embedding.primary")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "not configured")
	assert.Contains(t, out, "unhealthy")
	assert.Contains(t, out, "unreachable")
}
