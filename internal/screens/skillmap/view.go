package skillmap

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillgap/internal/recommend"
	"github.com/abhisek/skillgap/internal/ui/components"
	"github.com/abhisek/skillgap/internal/ui/layout"
	"github.com/abhisek/skillgap/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := "Skill map"
	hints := m.help.View(listKeys{m.keys})
	if m.detail {
		title = m.Selected()
		hints = m.help.View(detailKeys{m.keys})
	}
	status := fmt.Sprintf("%d quizzes  ", m.profile.QuizAttempts)

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(hints, m.width)
	// Frame padding takes two rows.
	height := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(footer)-2)

	var body string
	if m.detail {
		body = m.renderDetail()
	} else {
		body = m.renderList(height)
	}
	return layout.RenderFrame(header, body, footer, m.width, m.height)
}

func (m *Model) renderList(height int) string {
	if len(m.rows) == 0 {
		return theme.Hint.Render("No topics scored yet. Take a quiz first.")
	}

	m.adjustScroll(height)

	var lines []string
	for i := m.scrollOffset; i < len(m.rows) && len(lines) < height; i++ {
		r := m.rows[i]
		if r.kind == rowLevelHeader {
			lines = append(lines, theme.Level(r.level).Render(strings.ToUpper(string(r.level))))
			continue
		}
		lines = append(lines, m.renderTopicRow(r.topic, i == m.cursor))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTopicRow(topic string, selected bool) string {
	e := m.skills[topic]
	name := theme.Unselected.Render(fmt.Sprintf("%-20s", topic))
	cursor := "  "
	if selected {
		name = theme.Selected.Render(fmt.Sprintf("%-20s", topic))
		cursor = theme.Selected.Render("▸ ")
	}
	return fmt.Sprintf("%s%s %s  %s",
		cursor,
		name,
		theme.Body.Render(fmt.Sprintf("%6.2f%%", e.Score)),
		theme.Tag.Render(string(m.trends[topic])),
	)
}

func (m Model) renderDetail() string {
	topic := m.Selected()
	e := m.skills[topic]
	rec := m.profile.Topics[topic]
	trend := m.trends[topic]

	dim := theme.Tag
	var b strings.Builder

	b.WriteString(theme.Level(e.Level).Render(string(e.Level)))
	b.WriteString(theme.Body.Render(fmt.Sprintf("  %.2f%%", e.Score)))
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar(int(e.Score), 100, min(40, m.width-12)).View())
	b.WriteString("\n\n")

	b.WriteString(dim.Render("Trend:     ") + theme.Body.Render(string(trend)) + "\n")
	b.WriteString(dim.Render("Learning:  ") + theme.Body.Render(string(m.behaviors[topic])) + "\n")
	res := recommend.Resources(m.skills)[topic]
	b.WriteString(dim.Render("Material:  ") + theme.Body.Render(res.RecommendedLevel+", "+res.Focus) + "\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("History"))
	b.WriteString("\n")
	if rec != nil {
		for _, h := range rec.History {
			b.WriteString(fmt.Sprintf("%s  %s  %s\n",
				dim.Render(h.Timestamp.Local().Format("2006-01-02 15:04")),
				theme.Body.Render(fmt.Sprintf("%6.2f%%", h.Score)),
				theme.Level(h.Level).Render(string(h.Level))))
		}
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(recommend.TrendTip(trend)))
	b.WriteString("\n\n")
	b.WriteString(dim.Render(recommend.Explain(topic, e.Level, trend)))
	return b.String()
}
