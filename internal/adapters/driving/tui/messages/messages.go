// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/medrag/internal/core/domain"
)

// ConsultationCompleted carries an answer back to the model.
type ConsultationCompleted struct {
	Query  string
	Result *domain.ConsultationResult
	Err    error
}

// HistoryLoaded carries the turns of a resumed session.
type HistoryLoaded struct {
	SessionID string
	Turns     []domain.ConversationTurn
	Err       error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
