package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driving"
)

// executeCommand runs the root command with args and returns its output.
// Services, identity and flag values are reset afterwards.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(resetState)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetState() {
	SetServices(Services{})
	configEditor = nil
	identity = Identity{}
	verbose = false

	askAgent, askSession, askProfilePath = "", "", ""
	askHistory, askJSON = false, false
	askTopK, askThreshold = 0, 0
	uploadTags = nil
	documentsJSON = false
	consultationsLimit, consultationsJSON = 10, false
	healthJSON = false
	chatAgent, chatSession, chatProfilePath = "", "", ""
	mcpPort = 0
	watchSettle = DefaultSettleDelay
}

type mockConsultationService struct {
	result  *domain.ConsultationResult
	history []domain.ConversationTurn
	records []domain.Consultation
	err     error

	lastRequest *domain.ConsultationRequest
	lastLimit   int
}

func (m *mockConsultationService) Consult(
	_ context.Context, req *domain.ConsultationRequest,
) (*domain.ConsultationResult, error) {
	m.lastRequest = req
	return m.result, m.err
}

func (m *mockConsultationService) History(_ context.Context, _, _ string) ([]domain.ConversationTurn, error) {
	return m.history, m.err
}

func (m *mockConsultationService) List(_ context.Context, _ string, limit int) ([]domain.Consultation, error) {
	m.lastLimit = limit
	return m.records, m.err
}

type mockUploadService struct {
	result *domain.UploadResult
	err    error

	requests []driving.UploadRequest
}

func (m *mockUploadService) Upload(_ context.Context, req driving.UploadRequest) (*domain.UploadResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	res := *m.result
	res.Document.Filename = req.Filename
	return &res, nil
}

func (m *mockUploadService) Supports(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx", ".txt", ".md":
		return true
	}
	return false
}

type mockDocumentService struct {
	documents []domain.Document
	chunks    []domain.Chunk
	err       error

	renamedTo string
	tags      []string
	deleted   string
}

func (m *mockDocumentService) List(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Document{ID: id}, nil
}

func (m *mockDocumentService) Rename(_ context.Context, _, id, filename string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.renamedTo = filename
	return &domain.Document{ID: id, Filename: filename}, nil
}

func (m *mockDocumentService) Tag(_ context.Context, _, id string, tags []string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.tags = tags
	return &domain.Document{ID: id, Tags: tags}, nil
}

func (m *mockDocumentService) Delete(_ context.Context, _, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = id
	return nil
}

func (m *mockDocumentService) Chunks(_ context.Context, _, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

type mockHealthService struct {
	statuses  []domain.ComponentStatus
	lastToken string
}

func (m *mockHealthService) Check(_ context.Context, token string) []domain.ComponentStatus {
	m.lastToken = token
	return m.statuses
}
