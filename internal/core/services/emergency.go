package services

import (
	"strings"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

// Fixed emergency response.
const (
	EmergencyMessage = "I've detected that you may be experiencing a medical emergency. " +
		"Please contact emergency services immediately (call 911) or go to the nearest emergency room. " +
		"This system cannot provide emergency medical care."
	EmergencyDisclaimer = "This is not a substitute for professional medical advice. " +
		"In case of emergency, contact emergency services immediately."
	EmergencyAction     = "Contact emergency services immediately (911)"
	EmergencyConfidence = 0.95
)

// GateState is the outcome of an emergency check.
type GateState int

// Gate states.
const (
	GateNormal GateState = iota
	GateEmergency
)

// String returns the state name.
func (s GateState) String() string {
	if s == GateEmergency {
		return "EMERGENCY"
	}
	return "NORMAL"
}

// GateDecision reports the state and the keywords that fired.
type GateDecision struct {
	State    GateState
	Keywords []string
}

// Emergency returns true when the pipeline must stop.
func (d GateDecision) Emergency() bool {
	return d.State == GateEmergency
}

// EmergencyGate matches queries against emergency keywords.
type EmergencyGate struct {
	keywords []string
}

// NewEmergencyGate creates a gate. Keywords are matched case-insensitively
// as substrings; blanks and duplicates are dropped.
func NewEmergencyGate(keywords []string) *EmergencyGate {
	seen := make(map[string]bool, len(keywords))
	normalised := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		normalised = append(normalised, k)
	}
	return &EmergencyGate{keywords: normalised}
}

// Check returns GateEmergency with every matching keyword, in list order.
func (g *EmergencyGate) Check(query string) GateDecision {
	lower := strings.ToLower(query)
	var fired []string
	for _, k := range g.keywords {
		if strings.Contains(lower, k) {
			fired = append(fired, k)
		}
	}
	if len(fired) == 0 {
		return GateDecision{State: GateNormal}
	}
	return GateDecision{State: GateEmergency, Keywords: fired}
}

// Keywords returns the active keyword list.
func (g *EmergencyGate) Keywords() []string {
	return g.keywords
}

// emergencyResult builds the fixed safety response.
func emergencyResult(decision GateDecision, sessionID string, elapsedMs int64) *domain.ConsultationResult {
	return &domain.ConsultationResult{
		Text:       EmergencyMessage,
		Sources:    []domain.Source{},
		Confidence: EmergencyConfidence,
		Safety: domain.Safety{
			EmergencyDetected:     true,
			DetectedKeywords:      decision.Keywords,
			Disclaimer:            EmergencyDisclaimer,
			UrgentCareRecommended: true,
		},
		Recommendations:  domain.Recommendations{SuggestedAction: EmergencyAction},
		ProcessingTimeMs: elapsedMs,
		SessionID:        sessionID,
		AgentID:          domain.AgentEmergency,
	}
}
