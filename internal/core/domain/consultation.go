package domain

import "time"

// AgentID identifies the back end that served a consultation.
type AgentID string

// Known agents.
const (
	// AgentContainer is the document-grounded container service.
	AgentContainer AgentID = "txagent"

	// AgentGeneral is the general chat-completion API.
	AgentGeneral AgentID = "openai"

	// AgentEmergency marks responses produced by the emergency gate.
	AgentEmergency AgentID = "emergency_system"
)

// IsValid returns true if the agent can be selected by callers.
func (a AgentID) IsValid() bool {
	return a == AgentContainer || a == AgentGeneral
}

// Alternative returns the other selectable agent.
func (a AgentID) Alternative() AgentID {
	if a == AgentGeneral {
		return AgentContainer
	}
	return AgentGeneral
}

// String returns the string representation.
func (a AgentID) String() string {
	return string(a)
}

// ContextType distinguishes personalised from clinician-facing consultations.
type ContextType string

// Context types.
const (
	ContextPatient ContextType = "patient"
	ContextDoctor  ContextType = "doctor"
)

// ContextTypeFor returns patient when a non-empty profile is supplied.
func ContextTypeFor(profile *MedicalProfile) ContextType {
	if profile.IsEmpty() {
		return ContextDoctor
	}
	return ContextPatient
}

// Disclaimer returns the safety text attached to answers of this context type.
func (c ContextType) Disclaimer() string {
	if c == ContextPatient {
		return "This personalized information is for educational purposes only and is not a substitute " +
			"for professional medical advice, diagnosis, or treatment. Always consult with your healthcare provider."
	}
	return "This information is for educational purposes only and is not a substitute " +
		"for professional medical advice, diagnosis, or treatment."
}

// SuggestedAction returns the follow-up recommendation for this context type.
func (c ContextType) SuggestedAction() string {
	if c == ContextPatient {
		return "Consult with your healthcare provider for personalized medical advice"
	}
	return "Use this information to support clinical decision-making in conjunction with professional medical judgment"
}

// RetrievedMatch is a chunk returned for one query. It is never persisted.
type RetrievedMatch struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// Source is a citation returned alongside an answer.
type Source struct {
	Filename   string  `json:"filename"`
	ChunkID    string  `json:"chunk_id,omitempty"`
	Similarity float64 `json:"similarity"`
	Preview    string  `json:"content,omitempty"`
}

// Consultation is the persisted record of one query, gated or answered.
type Consultation struct {
	ID               string
	UserID           string
	SessionID        string
	Query            string
	Response         string
	Sources          []Source
	AgentID          AgentID
	ContextType      ContextType
	ProcessingTimeMs int64
	Emergency        bool
	DetectedKeywords []string
	CreatedAt        time.Time
}

// Safety carries the safety block of a consultation answer.
type Safety struct {
	EmergencyDetected     bool     `json:"emergency_detected"`
	DetectedKeywords      []string `json:"detected_keywords,omitempty"`
	Disclaimer            string   `json:"disclaimer"`
	UrgentCareRecommended bool     `json:"urgent_care_recommended"`
}

// Recommendations carries follow-up guidance.
type Recommendations struct {
	SuggestedAction string `json:"suggested_action"`
}

// ConsultationResult is the normalised answer returned to callers.
type ConsultationResult struct {
	ConsultationID   string          `json:"consultation_id,omitempty"`
	Text             string          `json:"text"`
	Sources          []Source        `json:"sources"`
	Confidence       float64         `json:"confidence_score,omitempty"`
	Safety           Safety          `json:"safety"`
	Recommendations  Recommendations `json:"recommendations"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
	SessionID        string          `json:"session_id"`
	AgentID          AgentID         `json:"agent_id"`
}
