// Package styles holds the consultation TUI palette and lipgloss styles.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette the chat view is drawn with. Colours are named by
// the role they play in a consultation rather than by hue.
type Theme struct {
	Brand    lipgloss.Color // title and assistant label
	Asker    lipgloss.Color // the user's own turns
	Text     lipgloss.Color
	Subtle   lipgloss.Color // citations, hints, status text
	Caution  lipgloss.Color // disclaimers
	Fault    lipgloss.Color // failed consultations
	Alarm    lipgloss.Color // emergency banner background
	AlarmInk lipgloss.Color // emergency banner text
	Frame    lipgloss.Color // input border
	Bar      lipgloss.Color // status bar background
}

// DefaultTheme returns the teal clinical palette.
func DefaultTheme() *Theme {
	return &Theme{
		Brand:    lipgloss.Color("#14B8A6"),
		Asker:    lipgloss.Color("#60A5FA"),
		Text:     lipgloss.Color("#E2E8F0"),
		Subtle:   lipgloss.Color("#64748B"),
		Caution:  lipgloss.Color("#FBBF24"),
		Fault:    lipgloss.Color("#F87171"),
		Alarm:    lipgloss.Color("#DC2626"),
		AlarmInk: lipgloss.Color("#FFFFFF"),
		Frame:    lipgloss.Color("#334155"),
		Bar:      lipgloss.Color("#0F172A"),
	}
}

// Styles are the rendered roles of the chat view.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	User       lipgloss.Style
	Assistant  lipgloss.Style
	Source     lipgloss.Style
	Disclaimer lipgloss.Style
	Emergency  lipgloss.Style
	Error      lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
}

// NewStyles derives every style from theme. A nil theme means DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	label := lipgloss.NewStyle().Bold(true)

	return &Styles{
		theme:      theme,
		Title:      label.Foreground(theme.Brand),
		Normal:     lipgloss.NewStyle().Foreground(theme.Text),
		Muted:      lipgloss.NewStyle().Foreground(theme.Subtle),
		User:       label.Foreground(theme.Asker),
		Assistant:  label.Foreground(theme.Brand),
		Source:     lipgloss.NewStyle().Italic(true).Foreground(theme.Subtle),
		Disclaimer: lipgloss.NewStyle().Faint(true).Foreground(theme.Caution),
		Emergency: label.
			Foreground(theme.AlarmInk).
			Background(theme.Alarm).
			Padding(0, 1),
		Error: lipgloss.NewStyle().Foreground(theme.Fault),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Frame).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Subtle).
			Background(theme.Bar).
			Padding(0, 1),
	}
}

// DefaultStyles returns NewStyles(DefaultTheme()).
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
