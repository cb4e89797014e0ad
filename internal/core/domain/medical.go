package domain

import (
	"strconv"
	"strings"
	"time"
)

// HistoryWindow is the number of trailing turns used as prompt context.
const HistoryWindow = 3

// MedicalProfile holds patient facts used to personalise a consultation.
// It is read-only input to prompt assembly.
type MedicalProfile struct {
	Age         int      `json:"age,omitempty" toml:"age"`
	Gender      string   `json:"gender,omitempty" toml:"gender"`
	Conditions  []string `json:"conditions,omitempty" toml:"conditions"`
	Medications []string `json:"medications,omitempty" toml:"medications"`
	Allergies   []string `json:"allergies,omitempty" toml:"allergies"`
}

// IsEmpty returns true if no field carries a value.
func (p *MedicalProfile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.Age <= 0 && p.Gender == "" &&
		len(p.Conditions) == 0 && len(p.Medications) == 0 && len(p.Allergies) == 0
}

// Facts renders the non-empty fields as "Label: value" lines.
func (p *MedicalProfile) Facts() []string {
	if p.IsEmpty() {
		return nil
	}
	var facts []string
	if p.Age > 0 {
		facts = append(facts, "Age: "+strconv.Itoa(p.Age))
	}
	if p.Gender != "" {
		facts = append(facts, "Gender: "+p.Gender)
	}
	add := func(label string, values []string) {
		if len(values) > 0 {
			facts = append(facts, label+": "+strings.Join(values, ", "))
		}
	}
	add("Conditions", p.Conditions)
	add("Medications", p.Medications)
	add("Allergies", p.Allergies)
	return facts
}

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ConversationTurn is one message in a consultation session.
type ConversationTurn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// LastTurns returns at most n trailing turns, preserving order.
func LastTurns(history []ConversationTurn, n int) []ConversationTurn {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
