package mcp

import (
	"context"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driving"
)

// mockConsultationService is a mock implementation of driving.ConsultationService.
type mockConsultationService struct {
	result  *domain.ConsultationResult
	history []domain.ConversationTurn
	records []domain.Consultation
	err     error

	lastRequest *domain.ConsultationRequest
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

func (m *mockConsultationService) List(_ context.Context, _ string, _ int) ([]domain.Consultation, error) {
	return m.records, m.err
}

// mockUploadService is a mock implementation of driving.UploadService.
type mockUploadService struct {
	result *domain.UploadResult
	err    error

	lastRequest driving.UploadRequest
}

func (m *mockUploadService) Upload(_ context.Context, req driving.UploadRequest) (*domain.UploadResult, error) {
	m.lastRequest = req
	return m.result, m.err
}

func (m *mockUploadService) Supports(_ string) bool {
	return true
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	chunks    []domain.Chunk
	err       error
}

func (m *mockDocumentService) List(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _, _ string) (*domain.Document, error) {
	if len(m.documents) == 0 {
		return nil, domain.ErrNotFound
	}
	return &m.documents[0], m.err
}

func (m *mockDocumentService) Rename(_ context.Context, _, _, _ string) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockDocumentService) Tag(_ context.Context, _, _ string, _ []string) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockDocumentService) Chunks(_ context.Context, _, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}
