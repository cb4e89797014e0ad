package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// InsertConsultation appends a consultation record.
func (s *Store) InsertConsultation(_ context.Context, c *domain.Consultation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.consultations = append(s.consultations, *c)
	return nil
}

// ListConsultations returns a user's records, newest first.
func (s *Store) ListConsultations(_ context.Context, userID string, limit int) ([]domain.Consultation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Consultation, 0)
	for i := len(s.consultations) - 1; i >= 0; i-- {
		if s.consultations[i].UserID != userID {
			continue
		}
		out = append(out, s.consultations[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// SessionHistory returns the trailing records of a session, oldest first.
func (s *Store) SessionHistory(_ context.Context, userID, sessionID string, limit int) ([]domain.Consultation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Consultation, 0)
	for _, c := range s.consultations {
		if c.UserID == userID && c.SessionID == sessionID {
			out = append(out, c)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
