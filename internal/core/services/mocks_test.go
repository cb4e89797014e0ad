package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
)

// vec returns an EmbeddingDimensions vector with a single hot component.
func vec(hot int) []float32 {
	v := make([]float32, domain.EmbeddingDimensions)
	v[hot%domain.EmbeddingDimensions] = 1
	return v
}

// mockStrategy implements driven.EmbeddingStrategy for testing.
type mockStrategy struct {
	source    domain.EmbeddingSource
	available bool
	vector    []float32
	err       error
	pingErr   error

	mu    sync.Mutex
	calls int
	texts []string
}

func (m *mockStrategy) Source() domain.EmbeddingSource { return m.source }

func (m *mockStrategy) Available(string) bool { return m.available }

func (m *mockStrategy) Embed(_ context.Context, text, _ string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.texts = append(m.texts, text)
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

func (m *mockStrategy) Ping(context.Context, string) error { return m.pingErr }

func (m *mockStrategy) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// failingStrategy fails on the listed call numbers (1-based) and succeeds otherwise.
type failingStrategy struct {
	mockStrategy
	failOn map[int]bool
}

func (f *failingStrategy) Embed(ctx context.Context, text, token string) ([]float32, error) {
	f.mu.Lock()
	next := f.calls + 1
	f.mu.Unlock()
	if f.failOn[next] {
		f.mu.Lock()
		f.calls++
		f.mu.Unlock()
		return nil, errors.New("upstream exploded")
	}
	return f.mockStrategy.Embed(ctx, text, token)
}

// mockChunkStore implements driven.ChunkStore with injectable failures.
type mockChunkStore struct {
	matches   []domain.RetrievedMatch
	searchErr error
	recent    []domain.Chunk
	recentErr error
	insertErr error
	inserted  []domain.Chunk

	searchCalls int
	recentLimit int
}

func (m *mockChunkStore) InsertChunk(_ context.Context, c *domain.Chunk) (string, error) {
	if m.insertErr != nil {
		return "", m.insertErr
	}
	m.inserted = append(m.inserted, *c)
	return c.ID, nil
}

func (m *mockChunkStore) SimilaritySearch(
	_ context.Context, _ string, _ []float32, _ float64, _ int,
) ([]domain.RetrievedMatch, error) {
	m.searchCalls++
	return m.matches, m.searchErr
}

func (m *mockChunkStore) RecentChunks(_ context.Context, _ string, limit int) ([]domain.Chunk, error) {
	m.recentLimit = limit
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	if len(m.recent) > limit {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

func (m *mockChunkStore) ListChunks(context.Context, string, string) ([]domain.Chunk, error) {
	return m.inserted, nil
}

// mockAgent implements driven.ChatAgent for testing.
type mockAgent struct {
	id      domain.AgentID
	answer  *driven.AgentAnswer
	err     error
	pingErr error

	requests []*driven.AgentRequest
}

func (m *mockAgent) ID() domain.AgentID { return m.id }

func (m *mockAgent) Respond(_ context.Context, req *driven.AgentRequest) (*driven.AgentAnswer, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	answer := *m.answer
	return &answer, nil
}

func (m *mockAgent) Ping(context.Context, string) error { return m.pingErr }

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) Supports(filename string) bool { return filename != "scan.tiff" }

func (m *mockExtractor) MIMEType(string) string { return "text/plain" }

func (m *mockExtractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.Extraction, error) {
	if m.err != nil {
		return nil, m.err
	}
	text := m.text
	if text == "" {
		text = string(raw.Content)
	}
	return &domain.Extraction{Text: text, Method: "text", OriginalLength: len(text), CleanedLength: len(text)}, nil
}

// failingConsultationStore rejects every write.
type failingConsultationStore struct{}

func (failingConsultationStore) InsertConsultation(context.Context, *domain.Consultation) error {
	return errors.New("database is locked")
}

func (failingConsultationStore) ListConsultations(context.Context, string, int) ([]domain.Consultation, error) {
	return nil, errors.New("database is locked")
}

func (failingConsultationStore) SessionHistory(context.Context, string, string, int) ([]domain.Consultation, error) {
	return nil, errors.New("database is locked")
}
