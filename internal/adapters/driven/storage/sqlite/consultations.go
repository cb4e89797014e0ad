package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

const consultationColumns = `id, user_id, session_id, query, response, sources, agent_id,
	context_type, processing_time_ms, emergency, detected_keywords, created_at`

// InsertConsultation stores a record, assigning ID and CreatedAt when unset.
func (s *Store) InsertConsultation(ctx context.Context, c *domain.Consultation) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	sources, err := encodeJSON(c.Sources, "[]")
	if err != nil {
		return persistErr("insert consultation", err)
	}
	keywords, err := encodeJSON(c.DetectedKeywords, "[]")
	if err != nil {
		return persistErr("insert consultation", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO consultations (`+consultationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.UserID, c.SessionID, c.Query, c.Response, sources, string(c.AgentID),
		string(c.ContextType), c.ProcessingTimeMs, c.Emergency, keywords, c.CreatedAt.UTC())
	if err != nil {
		return persistErr("insert consultation", err)
	}
	return nil
}

// ListConsultations returns a user's records, newest first.
func (s *Store) ListConsultations(ctx context.Context, userID string, limit int) ([]domain.Consultation, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.queryConsultations(ctx, "list consultations", `
		SELECT `+consultationColumns+` FROM consultations
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, userID, limit)
}

// SessionHistory returns the trailing records of a session, oldest first.
func (s *Store) SessionHistory(
	ctx context.Context, userID, sessionID string, limit int,
) ([]domain.Consultation, error) {
	if limit <= 0 {
		limit = -1
	}
	records, err := s.queryConsultations(ctx, "session history", `
		SELECT `+consultationColumns+` FROM consultations
		WHERE user_id = ? AND session_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, userID, sessionID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (s *Store) queryConsultations(ctx context.Context, op, query string, args ...any) ([]domain.Consultation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr(op, err)
	}
	defer rows.Close()

	records := make([]domain.Consultation, 0)
	for rows.Next() {
		var c domain.Consultation
		var sources, agentID, contextType, keywords string
		if err := rows.Scan(&c.ID, &c.UserID, &c.SessionID, &c.Query, &c.Response, &sources,
			&agentID, &contextType, &c.ProcessingTimeMs, &c.Emergency, &keywords, &c.CreatedAt); err != nil {
			return nil, persistErr(op, err)
		}
		c.AgentID = domain.AgentID(agentID)
		c.ContextType = domain.ContextType(contextType)
		if err := decodeJSON(sources, &c.Sources); err != nil {
			return nil, persistErr(op, err)
		}
		if err := decodeJSON(keywords, &c.DetectedKeywords); err != nil {
			return nil, persistErr(op, err)
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(op, err)
	}
	return records, nil
}
