// Package skillmap is a read-only terminal view of the stored profile. Topics
// are grouped by their current level, weakest first, and each one opens a
// detail page with its score history.
package skillmap

import (
	"fmt"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillgap/internal/profile"
	"github.com/abhisek/skillgap/internal/skill"
)

type rowKind int

const (
	rowLevelHeader rowKind = iota
	rowTopic
)

type row struct {
	kind  rowKind
	level skill.Level
	topic string
}

// Model implements tea.Model for the skill map.
type Model struct {
	profile   *profile.Profile
	skills    skill.Profile
	trends    map[string]profile.Trend
	behaviors map[string]profile.Behavior

	rows         []row
	cursor       int
	scrollOffset int
	detail       bool

	keys keyMap
	help help.Model

	width  int
	height int
}

// New builds the map from a loaded profile. Topics that were never scored
// are left out.
func New(p *profile.Profile) Model {
	m := Model{
		profile:   p,
		skills:    profile.CurrentSkills(p),
		trends:    profile.Trends(p),
		behaviors: profile.Behaviors(p),
		keys:      defaultKeys(),
		help:      help.New(),
	}

	for _, level := range skill.AllLevels() {
		var topics []string
		for _, topic := range m.skills.Topics() {
			if m.skills[topic].Level == level {
				topics = append(topics, topic)
			}
		}
		if len(topics) == 0 {
			continue
		}
		m.rows = append(m.rows, row{kind: rowLevelHeader, level: level})
		for _, topic := range topics {
			m.rows = append(m.rows, row{kind: rowTopic, level: level, topic: topic})
		}
	}

	for i, r := range m.rows {
		if r.kind == rowTopic {
			m.cursor = i
			break
		}
	}
	return m
}

// Selected returns the topic under the cursor, or "" when the profile has no
// scored topics.
func (m Model) Selected() string {
	if m.cursor < len(m.rows) && m.rows[m.cursor].kind == rowTopic {
		return m.rows[m.cursor].topic
	}
	return ""
}

// InDetail reports whether the detail page is open.
func (m Model) InDetail() bool {
	return m.detail
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.detail {
			if key.Matches(msg, m.keys.Back) {
				m.detail = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Back):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.NextLevel):
			m.nextLevel()
		case key.Matches(msg, m.keys.PrevLevel):
			m.prevLevel()
		case key.Matches(msg, m.keys.Open):
			m.detail = m.Selected() != ""
		}
	}
	return m, nil
}

// moveCursor moves by delta, skipping level headers.
func (m *Model) moveCursor(delta int) {
	for next := m.cursor + delta; next >= 0 && next < len(m.rows); next += delta {
		if m.rows[next].kind == rowTopic {
			m.cursor = next
			return
		}
	}
}

// nextLevel jumps to the first topic of the next level group.
func (m *Model) nextLevel() {
	if m.Selected() == "" {
		return
	}
	current := m.rows[m.cursor].level
	for i := m.cursor + 1; i < len(m.rows); i++ {
		if m.rows[i].kind == rowTopic && m.rows[i].level != current {
			m.cursor = i
			return
		}
	}
}

// prevLevel jumps to the first topic of the previous level group.
func (m *Model) prevLevel() {
	if m.Selected() == "" {
		return
	}
	current := m.rows[m.cursor].level
	target := -1
	for i := m.cursor - 1; i >= 0; i-- {
		r := m.rows[i]
		if r.kind != rowTopic {
			continue
		}
		if target >= 0 && r.level != m.rows[target].level {
			break
		}
		if r.level != current {
			target = i
		}
	}
	if target >= 0 {
		m.cursor = target
	}
}

// adjustScroll keeps the cursor and its level header inside a window of
// height rows.
func (m *Model) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	top := m.cursor
	for top > 0 && m.rows[top-1].kind == rowLevelHeader {
		top--
	}
	if top < m.scrollOffset {
		m.scrollOffset = top
	}
	if m.cursor >= m.scrollOffset+height {
		m.scrollOffset = m.cursor - height + 1
	}
}

// Run shows the map until the student quits.
func Run(p *profile.Profile) error {
	if _, err := tea.NewProgram(New(p)).Run(); err != nil {
		return fmt.Errorf("run skill map: %w", err)
	}
	return nil
}
