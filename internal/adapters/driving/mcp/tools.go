package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"slices"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/core/ports/driving"
)

// ConsultInput is the input schema for the consult tool.
type ConsultInput struct {
	Query     string                 `json:"query" jsonschema:"the medical question to answer"`
	SessionID string                 `json:"session_id,omitempty" jsonschema:"session id to continue a conversation"`
	Agent     string                 `json:"agent,omitempty" jsonschema:"agent to use: txagent or openai"`
	Profile   *domain.MedicalProfile `json:"profile,omitempty" jsonschema:"optional patient profile"`
	History   bool                   `json:"include_history,omitempty" jsonschema:"include recent turns of the session"`
	TopK      int                    `json:"top_k,omitempty" jsonschema:"number of chunks to retrieve"`
}

// ConsultOutput is the output schema for the consult tool.
type ConsultOutput struct {
	Answer            string          `json:"answer"`
	Sources           []domain.Source `json:"sources"`
	Emergency         bool            `json:"emergency_detected"`
	DetectedKeywords  []string        `json:"detected_keywords,omitempty"`
	Disclaimer        string          `json:"disclaimer"`
	SuggestedAction   string          `json:"suggested_action"`
	Agent             string          `json:"agent"`
	SessionID         string          `json:"session_id"`
	ConsultationID    string          `json:"consultation_id,omitempty"`
	ProcessingTimeMs  int64           `json:"processing_time_ms"`
	UrgentCareAdvised bool            `json:"urgent_care_recommended"`
}

// UploadInput is the input schema for the upload_document tool.
type UploadInput struct {
	Filename      string   `json:"filename" jsonschema:"file name including extension, e.g. labs.pdf"`
	Text          string   `json:"text,omitempty" jsonschema:"plain text content for .txt or .md files"`
	ContentBase64 string   `json:"content_base64,omitempty" jsonschema:"base64-encoded file content for binary formats"`
	Tags          []string `json:"tags,omitempty" jsonschema:"tags to attach"`
}

// UploadOutput is the output schema for the upload_document tool.
type UploadOutput struct {
	DocumentID   string   `json:"document_id"`
	Filename     string   `json:"filename"`
	ChunksStored int      `json:"chunks_stored"`
	ChunksTotal  int      `json:"chunks_total"`
	Failures     []string `json:"failures,omitempty"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	Tag string `json:"tag,omitempty" jsonschema:"only list documents carrying this tag"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput is one listed document.
type DocumentOutput struct {
	ID        string   `json:"id"`
	Filename  string   `json:"filename"`
	MIMEType  string   `json:"mime_type"`
	Size      int64    `json:"size"`
	Tags      []string `json:"tags,omitempty"`
	CreatedAt string   `json:"created_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "consult",
		Description: "Answer a medical question from the user's uploaded documents. " +
			"Emergency symptoms are answered with emergency guidance instead.",
	}, s.handleConsult)

	if s.ports.Upload != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "upload_document",
			Description: "Upload a PDF, DOCX or text document for later consultations",
		}, s.handleUpload)
	}

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List the user's uploaded documents",
		}, s.handleListDocuments)
	}
}

func (s *Server) handleConsult(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ConsultInput,
) (*mcp.CallToolResult, ConsultOutput, error) {
	req := &domain.ConsultationRequest{
		UserID:    s.ports.UserID,
		UserToken: s.ports.UserToken,
		SessionID: input.SessionID,
		Query:     input.Query,
		Profile:   input.Profile,
		Agent:     domain.AgentID(input.Agent),
		TopK:      input.TopK,
	}

	if input.History && input.SessionID != "" {
		history, err := s.ports.Consultation.History(ctx, s.ports.UserID, input.SessionID)
		if err != nil {
			return nil, ConsultOutput{}, fmt.Errorf("loading history: %w", err)
		}
		req.History = history
	}

	result, err := s.ports.Consultation.Consult(ctx, req)
	if err != nil {
		return nil, ConsultOutput{}, err
	}

	return nil, ConsultOutput{
		Answer:            result.Text,
		Sources:           result.Sources,
		Emergency:         result.Safety.EmergencyDetected,
		DetectedKeywords:  result.Safety.DetectedKeywords,
		Disclaimer:        result.Safety.Disclaimer,
		SuggestedAction:   result.Recommendations.SuggestedAction,
		Agent:             string(result.AgentID),
		SessionID:         result.SessionID,
		ConsultationID:    result.ConsultationID,
		ProcessingTimeMs:  result.ProcessingTimeMs,
		UrgentCareAdvised: result.Safety.UrgentCareRecommended,
	}, nil
}

func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, UploadOutput, error) {
	content := []byte(input.Text)
	if input.ContentBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(input.ContentBase64)
		if err != nil {
			return nil, UploadOutput{}, fmt.Errorf("%w: content_base64: %w", domain.ErrInvalidInput, err)
		}
		content = decoded
	}
	if len(content) == 0 {
		return nil, UploadOutput{}, fmt.Errorf("%w: text or content_base64 is required", domain.ErrInvalidInput)
	}

	result, err := s.ports.Upload.Upload(ctx, driving.UploadRequest{
		UserID:    s.ports.UserID,
		UserToken: s.ports.UserToken,
		Filename:  input.Filename,
		Content:   content,
		Tags:      input.Tags,
	})
	if err != nil {
		return nil, UploadOutput{}, err
	}

	output := UploadOutput{
		DocumentID:   result.Document.ID,
		Filename:     result.Document.Filename,
		ChunksStored: len(result.Stored),
		ChunksTotal:  result.TotalChunks(),
	}
	for _, f := range result.Failed {
		output.Failures = append(output.Failures, f.Error())
	}
	return nil, output, nil
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Document.List(ctx, s.ports.UserID)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{Documents: make([]DocumentOutput, 0, len(docs))}
	for i := range docs {
		if input.Tag != "" && !slices.Contains(docs[i].Tags, input.Tag) {
			continue
		}
		output.Documents = append(output.Documents, toDocumentOutput(&docs[i]))
	}
	output.Count = len(output.Documents)
	return nil, output, nil
}

func toDocumentOutput(doc *domain.Document) DocumentOutput {
	return DocumentOutput{
		ID:        doc.ID,
		Filename:  doc.Filename,
		MIMEType:  doc.MIMEType,
		Size:      doc.Size,
		Tags:      doc.Tags,
		CreatedAt: doc.CreatedAt.Format(time.RFC3339),
	}
}
