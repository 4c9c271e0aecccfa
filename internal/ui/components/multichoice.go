package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillgap/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D"}

// MultiChoice renders one question with a movable cursor over its options.
// It never reveals the answer key.
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int

	// Chosen is the index of the option already picked, or -1.
	Chosen int
}

// NewMultiChoice creates a selector. previous, when it matches an option,
// marks that option as chosen and places the cursor on it.
func NewMultiChoice(question string, options []string, previous string) MultiChoice {
	m := MultiChoice{Question: question, Options: options, Chosen: -1}
	for i, o := range options {
		if previous != "" && o == previous {
			m.Chosen = i
			m.Cursor = i
			break
		}
	}
	return m
}

func (m *MultiChoice) Up() {
	if m.Cursor > 0 {
		m.Cursor--
	}
}

func (m *MultiChoice) Down() {
	if m.Cursor < len(m.Options)-1 {
		m.Cursor++
	}
}

// Jump moves the cursor to a labelled option ("a".."d", case-insensitive).
// It reports whether the label exists.
func (m *MultiChoice) Jump(label string) bool {
	for i, l := range optionLabels[:min(len(optionLabels), len(m.Options))] {
		if strings.EqualFold(l, label) {
			m.Cursor = i
			return true
		}
	}
	return false
}

// Choose marks the option under the cursor and returns its text.
func (m *MultiChoice) Choose() string {
	m.Chosen = m.Cursor
	return m.Options[m.Cursor]
}

func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Question.Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, optionLabels[i], opt)

		switch {
		case i == m.Cursor:
			line = theme.Selected.Render(line)
		case i == m.Chosen:
			line = theme.Chosen.Render(line + "  ✓")
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
