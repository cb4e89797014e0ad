// Package tui provides an interactive consultation chat for medrag.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Consultation answers questions.
	Consultation driving.ConsultationService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Consultation == nil {
		return ErrMissingConsultationService
	}
	return nil
}

// Config is the identity and defaults a chat session runs with.
type Config struct {
	UserID    string
	UserToken string

	// Agent forces an agent; empty uses the configured default.
	Agent domain.AgentID

	// Profile is attached to every question when set.
	Profile *domain.MedicalProfile

	// SessionID resumes an existing session when set.
	SessionID string
}
