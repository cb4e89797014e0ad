// Package transcript renders the scrolling consultation log.
package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/medrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medrag/internal/core/domain"
)

// Kind distinguishes transcript entries.
type Kind int

const (
	KindUser Kind = iota
	KindAnswer
	KindError
)

// Entry is one rendered block of the transcript.
type Entry struct {
	Kind Kind
	Text string

	// Answer fields.
	Agent      domain.AgentID
	Sources    []domain.Source
	Disclaimer string
	Emergency  bool
	Keywords   []string
}

// Transcript is a viewport over the consultation entries.
type Transcript struct {
	viewport viewport.Model
	styles   *styles.Styles
	entries  []Entry
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	vp := viewport.New(80, 20)
	vp.SetContent("")
	return &Transcript{viewport: vp, styles: s}
}

// Update forwards scrolling keys to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	if len(t.entries) == 0 {
		return t.styles.Muted.Render("No questions yet. Type one below and press enter.")
	}
	return t.viewport.View()
}

// Append adds an entry and scrolls to the bottom.
func (t *Transcript) Append(e Entry) {
	t.entries = append(t.entries, e)
	t.refresh()
	t.viewport.GotoBottom()
}

// Entries returns the entries in order.
func (t *Transcript) Entries() []Entry {
	return t.entries
}

// Reset removes all entries.
func (t *Transcript) Reset() {
	t.entries = nil
	t.refresh()
}

// SetSize resizes the viewport and rewraps the content.
func (t *Transcript) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = max(height, 1)
	t.refresh()
}

func (t *Transcript) refresh() {
	blocks := make([]string, 0, len(t.entries))
	for i := range t.entries {
		blocks = append(blocks, t.render(&t.entries[i]))
	}
	t.viewport.SetContent(strings.Join(blocks, "\n\n"))
}

func (t *Transcript) render(e *Entry) string {
	wrap := lipgloss.NewStyle().Width(max(t.viewport.Width-2, 20))

	switch e.Kind {
	case KindUser:
		return t.styles.User.Render("You") + "\n" + wrap.Render(e.Text)
	case KindError:
		return t.styles.Error.Render(wrap.Render("Error: " + e.Text))
	case KindAnswer:
	}

	var b strings.Builder
	if e.Emergency {
		banner := "EMERGENCY"
		if len(e.Keywords) > 0 {
			banner += ": " + strings.Join(e.Keywords, ", ")
		}
		b.WriteString(t.styles.Emergency.Render(banner))
		b.WriteString("\n")
	}
	label := "Answer"
	if e.Agent != "" {
		label += " (" + string(e.Agent) + ")"
	}
	b.WriteString(t.styles.Assistant.Render(label))
	b.WriteString("\n")
	b.WriteString(wrap.Render(e.Text))

	for i, src := range e.Sources {
		b.WriteString("\n")
		b.WriteString(t.styles.Source.Render(
			fmt.Sprintf("[%d] %s (%.2f)", i+1, src.Filename, src.Similarity)))
	}
	if e.Disclaimer != "" {
		b.WriteString("\n")
		b.WriteString(t.styles.Disclaimer.Render(wrap.Render(e.Disclaimer)))
	}
	return b.String()
}

// FromResult builds an answer entry from a consultation result.
func FromResult(r *domain.ConsultationResult) Entry {
	return Entry{
		Kind:       KindAnswer,
		Text:       r.Text,
		Agent:      r.AgentID,
		Sources:    r.Sources,
		Disclaimer: r.Safety.Disclaimer,
		Emergency:  r.Safety.EmergencyDetected,
		Keywords:   r.Safety.DetectedKeywords,
	}
}
