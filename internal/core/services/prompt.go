package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/medrag/internal/core/domain"
	"github.com/custodia-labs/medrag/internal/logger"
	"github.com/custodia-labs/medrag/internal/sanitizer"
)

// Prompt assembly limits.
const (
	MaxContextChars  = 1000
	MaxTurnChars     = 200
	ContextSeparator = "\n\n---\n\n"
)

// PromptAssembler renders retrieved matches, profile facts and history
// into one augmented prompt.
type PromptAssembler struct {
	instructions string
}

// NewPromptAssembler creates an assembler. Empty instructions select
// domain.DefaultInstructions.
func NewPromptAssembler(instructions string) *PromptAssembler {
	if strings.TrimSpace(instructions) == "" {
		instructions = domain.DefaultInstructions
	}
	return &PromptAssembler{instructions: strings.TrimSpace(instructions)}
}

// FormatContext renders up to maxMatches matches as labelled blocks.
// Zero matches yield "".
func (a *PromptAssembler) FormatContext(matches []domain.RetrievedMatch, maxMatches int) string {
	if maxMatches > 0 && len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}

	blocks := make([]string, 0, len(matches))
	for i, m := range matches {
		content := m.Content
		if truncated := sanitizer.Truncate(content, MaxContextChars); truncated != content {
			content = truncated + "..."
		}
		blocks = append(blocks, fmt.Sprintf("[Document %d: %s]\nRelevance: %d%%\n%s",
			i+1, m.Filename, relevancePercent(m.Similarity), content))
	}
	return strings.Join(blocks, ContextSeparator)
}

// relevancePercent converts a 0..1 similarity to a whole percentage.
func relevancePercent(similarity float64) int {
	return int(math.Round(similarity * 100))
}

// BuildPrompt assembles context, profile, the last turns of history, the
// question and the instructions, in that order. A failure during assembly
// returns query unchanged.
func (a *PromptAssembler) BuildPrompt(
	query, context string, profile *domain.MedicalProfile, history []domain.ConversationTurn,
) (prompt string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Prompt assembly failed, using raw query: %v", r)
			prompt = query
		}
	}()

	var b strings.Builder

	if context != "" {
		b.WriteString("Relevant medical documents:\n\n")
		b.WriteString(context)
		b.WriteString("\n\n")
	}

	if facts := profile.Facts(); len(facts) > 0 {
		b.WriteString("Patient profile:\n")
		for _, fact := range facts {
			b.WriteString("- ")
			b.WriteString(fact)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if turns := domain.LastTurns(history, domain.HistoryWindow); len(turns) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, turn := range turns {
			b.WriteString(roleLabel(turn.Role))
			b.WriteString(": ")
			b.WriteString(sanitizer.Truncate(turn.Content, MaxTurnChars))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\n")
	b.WriteString(a.instructions)

	return b.String()
}

func roleLabel(role domain.Role) string {
	if role == domain.RoleAssistant {
		return "Assistant"
	}
	return "User"
}
