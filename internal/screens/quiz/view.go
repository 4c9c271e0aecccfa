package quiz

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillgap/internal/ui/components"
	"github.com/abhisek/skillgap/internal/ui/layout"
	"github.com/abhisek/skillgap/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame for the current terminal size.
func (m Model) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	status := fmt.Sprintf("%d answered  ", m.Answered())
	header := layout.RenderHeader("Diagnostic quiz", status, m.width)

	var hints string
	if m.confirming {
		hints = m.help.View(confirmKeys{m.keys})
	} else {
		hints = m.help.View(answeringKeys{m.keys})
	}
	footer := layout.RenderFooter(hints, m.width)

	return layout.RenderFrame(header, m.body(), footer, m.width, m.height)
}

func (m Model) body() string {
	if len(m.questions) == 0 {
		return theme.Hint.Render("The question bank is empty. Press esc to leave.")
	}
	if m.confirming {
		return m.renderConfirm()
	}

	q := m.questions[m.index]
	var b strings.Builder

	b.WriteString(components.NewProgressBar(m.index+1, len(m.questions), min(50, m.width-8)).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Tag.Render(fmt.Sprintf("%s · %s", q.Topic, q.Difficulty)))
	b.WriteString("\n\n")
	b.WriteString(m.choice.View())

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(m.errMsg))
	}
	return b.String()
}

func (m Model) renderConfirm() string {
	answered := m.Answered()
	msg := fmt.Sprintf("You answered %d of %d questions.", answered, len(m.questions))
	if skipped := len(m.questions) - answered; skipped > 0 {
		msg += fmt.Sprintf("\n%d unanswered question(s) will count as incorrect.", skipped)
	}
	return theme.Card.Render(theme.Body.Render(msg) + "\n\n" + theme.Question.Render("Submit now?"))
}
