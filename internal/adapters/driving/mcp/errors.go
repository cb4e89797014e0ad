// Package mcp provides an MCP (Model Context Protocol) server adapter for medrag.
// It lets AI assistants consult, upload and list a user's medical documents.
package mcp

import "errors"

// ErrMissingConsultationService is returned when the consultation service is not provided.
var ErrMissingConsultationService = errors.New("mcp: consultation service is required")
