package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driven"
	"github.com/custodia-labs/medrag/internal/core/ports/driving"
	"github.com/custodia-labs/medrag/internal/logger"
	"github.com/custodia-labs/medrag/internal/sanitizer"
)

// Ensure ConsultationService implements the interface.
var _ driving.ConsultationService = (*ConsultationService)(nil)

// MaxSourcePreview bounds the content preview attached to each source.
const MaxSourcePreview = 200

// ConsultationConfig holds per-query defaults.
type ConsultationConfig struct {
	TopK        int
	Threshold   float64
	Temperature float64
}

// ConsultationService runs the query pipeline.
type ConsultationService struct {
	gate      *EmergencyGate
	embedder  *EmbeddingProvider
	retriever *Retriever
	assembler *PromptAssembler
	router    *AgentRouter
	store     driven.ConsultationStore
	cfg       ConsultationConfig
	now       func() time.Time
}

// NewConsultationService wires the query pipeline.
func NewConsultationService(
	gate *EmergencyGate,
	embedder *EmbeddingProvider,
	retriever *Retriever,
	assembler *PromptAssembler,
	router *AgentRouter,
	store driven.ConsultationStore,
	cfg ConsultationConfig,
) *ConsultationService {
	if cfg.TopK <= 0 {
		cfg.TopK = domain.DefaultTopK
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = domain.DefaultSimilarityThreshold
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = domain.DefaultTemperature
	}
	return &ConsultationService{
		gate:      gate,
		embedder:  embedder,
		retriever: retriever,
		assembler: assembler,
		router:    router,
		store:     store,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Consult answers one question.
//
// The emergency gate runs first. When it fires no embedding, retrieval
// or agent call is made and the fixed safety response is returned.
func (s *ConsultationService) Consult(
	ctx context.Context, req *domain.ConsultationRequest,
) (*domain.ConsultationResult, error) {
	if req == nil || strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	start := s.now()
	logger.Section("Consultation")
	logger.Debug("User %s asked: %q", req.UserID, truncateForLog(req.Query))

	if decision := s.gate.Check(req.Query); decision.Emergency() {
		return s.emergency(ctx, req, decision, start), nil
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = s.cfg.Threshold
	}

	matches := s.retrieve(ctx, req, topK, threshold)
	contextBlock := s.assembler.FormatContext(matches, topK)
	prompt := s.assembler.BuildPrompt(req.Query, contextBlock, req.Profile, req.History)
	contextType := domain.ContextTypeFor(req.Profile)

	answer, err := s.router.Dispatch(ctx, req.Agent, &driven.AgentRequest{
		Prompt:       prompt,
		History:      domain.LastTurns(req.History, domain.HistoryWindow),
		Profile:      req.Profile,
		ContextType:  contextType,
		Matches:      matches,
		SessionToken: req.UserToken,
		TopK:         topK,
		Temperature:  s.cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}

	sources := answer.Sources
	if len(sources) == 0 {
		sources = sourcesFromMatches(matches)
	}
	elapsed := s.now().Sub(start).Milliseconds()
	sessionID := sessionOrDefault(req.SessionID, "consultation", req.UserID)

	record := &domain.Consultation{
		UserID:           req.UserID,
		SessionID:        sessionID,
		Query:            req.Query,
		Response:         answer.Text,
		Sources:          sources,
		AgentID:          answer.AgentID,
		ContextType:      contextType,
		ProcessingTimeMs: elapsed,
	}
	s.persist(ctx, record)

	logger.Info("Consultation answered by %s in %dms", answer.AgentID, elapsed)

	return &domain.ConsultationResult{
		ConsultationID: record.ID,
		Text:           answer.Text,
		Sources:        sources,
		Confidence:     topSimilarity(matches),
		Safety: domain.Safety{
			Disclaimer: contextType.Disclaimer(),
		},
		Recommendations:  domain.Recommendations{SuggestedAction: contextType.SuggestedAction()},
		ProcessingTimeMs: elapsed,
		SessionID:        sessionID,
		AgentID:          answer.AgentID,
	}, nil
}

// retrieve embeds the query and searches. Without a query vector the
// retriever's recency fallback is used.
func (s *ConsultationService) retrieve(
	ctx context.Context, req *domain.ConsultationRequest, topK int, threshold float64,
) []domain.RetrievedMatch {
	embedding, err := s.embedder.Embed(ctx, req.Query, req.UserToken)
	if err != nil {
		logger.Warn("Query embedding failed, using recent chunks: %v", err)
		return s.retriever.Fallback(ctx, req.UserID)
	}
	return s.retriever.Search(ctx, req.UserID, embedding.Vector, topK, threshold)
}

// emergency persists and returns the fixed safety response.
func (s *ConsultationService) emergency(
	ctx context.Context, req *domain.ConsultationRequest, decision GateDecision, start time.Time,
) *domain.ConsultationResult {
	logger.Warn("Emergency detected for user %s: %v", req.UserID, decision.Keywords)

	sessionID := sessionOrDefault(req.SessionID, "emergency", req.UserID)
	elapsed := s.now().Sub(start).Milliseconds()
	result := emergencyResult(decision, sessionID, elapsed)

	record := &domain.Consultation{
		UserID:           req.UserID,
		SessionID:        sessionID,
		Query:            req.Query,
		Response:         result.Text,
		Sources:          result.Sources,
		AgentID:          domain.AgentEmergency,
		ContextType:      domain.ContextTypeFor(req.Profile),
		ProcessingTimeMs: elapsed,
		Emergency:        true,
		DetectedKeywords: decision.Keywords,
	}
	s.persist(ctx, record)
	result.ConsultationID = record.ID
	return result
}

// persist stores a record. A failed write is logged; the answer is still returned.
func (s *ConsultationService) persist(ctx context.Context, record *domain.Consultation) {
	if s.store == nil {
		return
	}
	if err := s.store.InsertConsultation(ctx, record); err != nil {
		logger.Error(err, "persisting consultation for user %s", record.UserID)
	}
}

// History returns the last turns of a session, rebuilt from stored records.
func (s *ConsultationService) History(
	ctx context.Context, userID, sessionID string,
) ([]domain.ConversationTurn, error) {
	records, err := s.store.SessionHistory(ctx, userID, sessionID, domain.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("load session history: %w", err)
	}

	turns := make([]domain.ConversationTurn, 0, len(records)*2)
	for _, r := range records {
		turns = append(turns,
			domain.ConversationTurn{Role: domain.RoleUser, Content: r.Query, Timestamp: r.CreatedAt},
			domain.ConversationTurn{Role: domain.RoleAssistant, Content: r.Response, Timestamp: r.CreatedAt},
		)
	}
	return domain.LastTurns(turns, domain.HistoryWindow), nil
}

// List returns the user's consultations, newest first.
func (s *ConsultationService) List(ctx context.Context, userID string, limit int) ([]domain.Consultation, error) {
	records, err := s.store.ListConsultations(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	return records, nil
}

// sessionOrDefault returns sessionID or "<prefix>-<userID>".
func sessionOrDefault(sessionID, prefix, userID string) string {
	if sessionID != "" {
		return sessionID
	}
	return prefix + "-" + userID
}

// sourcesFromMatches builds citations with short previews.
func sourcesFromMatches(matches []domain.RetrievedMatch) []domain.Source {
	sources := make([]domain.Source, 0, len(matches))
	for _, m := range matches {
		preview := m.Content
		if truncated := sanitizer.Truncate(preview, MaxSourcePreview); truncated != preview {
			preview = truncated + "..."
		}
		sources = append(sources, domain.Source{
			Filename:   m.Filename,
			ChunkID:    m.ChunkID,
			Similarity: m.Similarity,
			Preview:    preview,
		})
	}
	return sources
}

// topSimilarity returns the best match score, 0 without matches.
func topSimilarity(matches []domain.RetrievedMatch) float64 {
	best := 0.0
	for _, m := range matches {
		if m.Similarity > best {
			best = m.Similarity
		}
	}
	return best
}

// truncateForLog shortens user text for debug output.
func truncateForLog(s string) string {
	if t := sanitizer.Truncate(s, 100); t != s {
		return t + "..."
	}
	return s
}
