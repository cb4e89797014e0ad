package domain

import "strconv"

// ChunkFailure records why one chunk of an upload was not persisted.
type ChunkFailure struct {
	Index int
	Err   error
}

// Error implements error.
func (f ChunkFailure) Error() string {
	return "chunk " + strconv.Itoa(f.Index) + ": " + f.Err.Error()
}

// Unwrap returns the underlying error.
func (f ChunkFailure) Unwrap() error {
	return f.Err
}

// UploadResult reports the outcome of an upload with at least one stored chunk.
type UploadResult struct {
	Document   Document
	Extraction Extraction
	// Stored holds the ids of persisted chunks in index order.
	Stored []string
	Failed []ChunkFailure
}

// TotalChunks returns the number of chunks the document produced.
func (r *UploadResult) TotalChunks() int {
	return len(r.Stored) + len(r.Failed)
}

// Partial reports whether some chunks failed.
func (r *UploadResult) Partial() bool {
	return len(r.Failed) > 0
}

// ConsultationRequest is one question asked by a user.
type ConsultationRequest struct {
	UserID    string
	UserToken string
	SessionID string
	Query     string
	Profile   *MedicalProfile
	History   []ConversationTurn
	// Agent is the preferred agent; empty selects the configured default.
	Agent     AgentID
	TopK      int
	Threshold float64
}

// ComponentStatus is the health of one external dependency.
type ComponentStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	Healthy    bool   `json:"healthy"`
	Error      string `json:"error,omitempty"`
}
