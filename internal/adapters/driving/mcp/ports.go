package mcp

import (
	"github.com/custodia-labs/medrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports and identity the MCP server acts with.
type Ports struct {
	// Consultation answers questions. Required.
	Consultation driving.ConsultationService

	// Upload ingests documents. Optional; upload_document is omitted without it.
	Upload driving.UploadService

	// Document lists and inspects documents. Optional.
	Document driving.DocumentService

	// UserID scopes every tool call.
	UserID string

	// UserToken is forwarded to token-authenticated services.
	UserToken string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Consultation == nil {
		return ErrMissingConsultationService
	}
	return nil
}
