package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for medrag resources.
const uriScheme = "medrag://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "consultations",
		Name:        "consultations",
		Description: "The user's most recent consultations",
		MIMEType:    "application/json",
	}, s.handleConsultationsResource)

	if s.ports.Document == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "The user's uploaded documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/chunks",
		Name:        "document-chunks",
		Description: "Text chunks of one uploaded document",
		MIMEType:    "text/plain",
	}, s.handleChunksResource)
}

// recentConsultations bounds the consultations resource.
const recentConsultations = 20

func (s *Server) handleConsultationsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.Consultation.List(ctx, s.ports.UserID, recentConsultations)
	if err != nil {
		return nil, fmt.Errorf("listing consultations: %w", err)
	}

	type consultationInfo struct {
		ID        string `json:"id"`
		SessionID string `json:"session_id"`
		Query     string `json:"query"`
		Response  string `json:"response"`
		Agent     string `json:"agent"`
		Emergency bool   `json:"emergency"`
	}

	infos := make([]consultationInfo, len(records))
	for i := range records {
		infos[i] = consultationInfo{
			ID:        records[i].ID,
			SessionID: records[i].SessionID,
			Query:     records[i].Query,
			Response:  records[i].Response,
			Agent:     string(records[i].AgentID),
			Emergency: records[i].Emergency,
		}
	}
	return jsonResult(req.Params.URI, infos)
}

func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Document.List(ctx, s.ports.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]DocumentOutput, len(docs))
	for i := range docs {
		infos[i] = toDocumentOutput(&docs[i])
	}
	return jsonResult(req.Params.URI, infos)
}

func (s *Server) handleChunksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunks, err := s.ports.Document.Chunks(ctx, s.ports.UserID, docID)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}

	var b strings.Builder
	for i := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[chunk %d/%d]\n%s", chunks[i].Index+1, chunks[i].TotalChunks, chunks[i].Content)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     b.String(),
		}},
	}, nil
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the id from medrag://documents/{documentId}/chunks.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"
	const suffix = "/chunks"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
}
