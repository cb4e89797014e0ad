package mcp

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	ports.UserID = "alice"
	ports.UserToken = "tok"
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleConsult(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the consultation result", func(t *testing.T) {
		consult := &mockConsultationService{result: &domain.ConsultationResult{
			ConsultationID: "c-1",
			Text:           "Metformin lowers blood glucose.",
			Sources:        []domain.Source{{Filename: "diabetes.pdf", Similarity: 0.91}},
			Safety:         domain.Safety{Disclaimer: domain.ContextDoctor.Disclaimer()},
			SessionID:      "s-1",
			AgentID:        domain.AgentContainer,
		}}
		server := newTestServer(t, &Ports{Consultation: consult})

		_, output, err := server.handleConsult(ctx, nil, ConsultInput{Query: "What does metformin do?", TopK: 3})

		require.NoError(t, err)
		assert.Equal(t, "Metformin lowers blood glucose.", output.Answer)
		assert.Equal(t, "txagent", output.Agent)
		assert.Equal(t, "c-1", output.ConsultationID)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, "alice", consult.lastRequest.UserID)
		assert.Equal(t, "tok", consult.lastRequest.UserToken)
		assert.Equal(t, 3, consult.lastRequest.TopK)
		assert.Nil(t, consult.lastRequest.History)
	})

	t.Run("loads history when asked", func(t *testing.T) {
		consult := &mockConsultationService{
			result:  &domain.ConsultationResult{Text: "ok"},
			history: []domain.ConversationTurn{{Role: domain.RoleUser, Content: "earlier"}},
		}
		server := newTestServer(t, &Ports{Consultation: consult})

		_, _, err := server.handleConsult(ctx, nil, ConsultInput{Query: "q", SessionID: "s-1", History: true})

		require.NoError(t, err)
		assert.Len(t, consult.lastRequest.History, 1)
	})

	t.Run("reports emergencies", func(t *testing.T) {
		consult := &mockConsultationService{result: &domain.ConsultationResult{
			Text: "Call emergency services.",
			Safety: domain.Safety{
				EmergencyDetected: true, DetectedKeywords: []string{"chest pain"}, UrgentCareRecommended: true,
			},
			AgentID: domain.AgentEmergency,
		}}
		server := newTestServer(t, &Ports{Consultation: consult})

		_, output, err := server.handleConsult(ctx, nil, ConsultInput{Query: "I have chest pain"})

		require.NoError(t, err)
		assert.True(t, output.Emergency)
		assert.True(t, output.UrgentCareAdvised)
		assert.Equal(t, []string{"chest pain"}, output.DetectedKeywords)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{Consultation: &mockConsultationService{err: errors.New("boom")}})

		_, _, err := server.handleConsult(ctx, nil, ConsultInput{Query: "q"})

		assert.ErrorContains(t, err, "boom")
	})
}

func TestServer_handleUpload(t *testing.T) {
	ctx := context.Background()
	result := &domain.UploadResult{
		Document: domain.Document{ID: "doc-1", Filename: "labs.txt"},
		Stored:   []string{"c1"},
		Failed:   []domain.ChunkFailure{{Index: 1, Err: domain.ErrTimeout}},
	}

	t.Run("uploads plain text", func(t *testing.T) {
		upload := &mockUploadService{result: result}
		server := newTestServer(t, &Ports{Consultation: &mockConsultationService{}, Upload: upload})

		_, output, err := server.handleUpload(ctx, nil, UploadInput{Filename: "labs.txt", Text: "HbA1c 6.1%"})

		require.NoError(t, err)
		assert.Equal(t, "doc-1", output.DocumentID)
		assert.Equal(t, 1, output.ChunksStored)
		assert.Equal(t, 2, output.ChunksTotal)
		require.Len(t, output.Failures, 1)
		assert.Contains(t, output.Failures[0], "chunk 1")
		assert.Equal(t, []byte("HbA1c 6.1%"), upload.lastRequest.Content)
		assert.Equal(t, "alice", upload.lastRequest.UserID)
	})

	t.Run("decodes base64 content", func(t *testing.T) {
		upload := &mockUploadService{result: result}
		server := newTestServer(t, &Ports{Consultation: &mockConsultationService{}, Upload: upload})
		encoded := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))

		_, _, err := server.handleUpload(ctx, nil, UploadInput{Filename: "scan.pdf", ContentBase64: encoded})

		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), upload.lastRequest.Content)
	})

	t.Run("rejects empty and invalid content", func(t *testing.T) {
		server := newTestServer(t, &Ports{Consultation: &mockConsultationService{}, Upload: &mockUploadService{}})

		_, _, err := server.handleUpload(ctx, nil, UploadInput{Filename: "a.txt"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, _, err = server.handleUpload(ctx, nil, UploadInput{Filename: "a.pdf", ContentBase64: "!!!"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleListDocuments(t *testing.T) {
	docs := &mockDocumentService{documents: []domain.Document{
		{ID: "d1", Filename: "labs.pdf", Tags: []string{"lab"}, CreatedAt: time.Unix(0, 0).UTC()},
		{ID: "d2", Filename: "notes.txt"},
	}}
	server := newTestServer(t, &Ports{Consultation: &mockConsultationService{}, Document: docs})

	_, all, err := server.handleListDocuments(context.Background(), nil, ListDocumentsInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Count)
	assert.Equal(t, "1970-01-01T00:00:00Z", all.Documents[0].CreatedAt)

	_, tagged, err := server.handleListDocuments(context.Background(), nil, ListDocumentsInput{Tag: "lab"})
	require.NoError(t, err)
	require.Equal(t, 1, tagged.Count)
	assert.Equal(t, "d1", tagged.Documents[0].ID)
}
