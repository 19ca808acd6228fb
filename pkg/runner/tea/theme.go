package teaui

import (
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/pomo/pkg/session"
)

// Theme centralizes Lip Gloss styles for the timer UI.
type Theme struct {
	Title    lipgloss.Style
	Work     lipgloss.Style
	Break    lipgloss.Style
	Clock    lipgloss.Style
	Dim      lipgloss.Style
	Heading  lipgloss.Style
	Selected lipgloss.Style
	Current  lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Work:     lipgloss.NewStyle().Foreground(lipgloss.Color(session.WorkColor)).Bold(true),
		Break:    lipgloss.NewStyle().Foreground(lipgloss.Color(session.BreakColor)).Bold(true),
		Clock:    lipgloss.NewStyle().Bold(true),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Heading:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Underline(true),
		Selected: lipgloss.NewStyle().Reverse(true),
		Current:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Session picks the style for a run type.
func (t Theme) Session(s session.Type) lipgloss.Style {
	if s == session.Break {
		return t.Break
	}
	return t.Work
}
