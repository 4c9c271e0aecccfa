package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillgap/internal/skill"
)

// Palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Question = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Chosen = lipgloss.NewStyle().
		Foreground(Secondary)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Tag = lipgloss.NewStyle().
		Foreground(TextDim)
)

// Level colours a skill level: Weak in rose, Medium in amber, Strong in
// green.
func Level(l skill.Level) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch l {
	case skill.LevelWeak:
		return s.Foreground(Error)
	case skill.LevelMedium:
		return s.Foreground(Warning)
	case skill.LevelStrong:
		return s.Foreground(Success)
	}
	return s.Foreground(TextDim)
}
