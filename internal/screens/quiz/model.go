// Package quiz is the terminal screen that walks a student through one quiz
// session. It only records answers; evaluation happens after the program
// exits.
package quiz

import (
	"fmt"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	qz "github.com/abhisek/skillgap/internal/quiz"
	"github.com/abhisek/skillgap/internal/ui/components"
)

// Outcome is how the screen ended.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSubmitted
	OutcomeAborted
)

// Model implements tea.Model for a quiz session.
type Model struct {
	session   *qz.Session
	questions []qz.Question
	index     int
	choice    components.MultiChoice

	keys       keyMap
	help       help.Model
	confirming bool
	outcome    Outcome
	errMsg     string

	width  int
	height int
}

// New creates the screen for a session that already holds its questions.
func New(s *qz.Session) Model {
	m := Model{
		session:   s,
		questions: s.Questions(),
		keys:      defaultKeys(),
		help:      help.New(),
	}
	m.load()
	return m
}

// Outcome reports whether the student submitted or quit.
func (m Model) Outcome() Outcome {
	return m.outcome
}

// Answered returns how many questions have an answer recorded.
func (m Model) Answered() int {
	return len(m.session.Answers())
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
		if m.confirming {
			return m.handleConfirmKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.questions) == 0 {
		if key.Matches(msg, m.keys.Quit) {
			m.outcome = OutcomeAborted
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.outcome = OutcomeAborted
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.choice.Up()

	case key.Matches(msg, m.keys.Down):
		m.choice.Down()

	case key.Matches(msg, m.keys.Pick):
		m.choice.Jump(msg.String())

	case key.Matches(msg, m.keys.Choose):
		q := m.questions[m.index]
		if err := m.session.Answer(q.ID, m.choice.Choose()); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		if m.index == len(m.questions)-1 {
			m.confirming = true
			return m, nil
		}
		m.index++
		m.load()

	case key.Matches(msg, m.keys.Prev):
		if m.index > 0 {
			m.index--
			m.load()
		}

	case key.Matches(msg, m.keys.Next):
		if m.index < len(m.questions)-1 {
			m.index++
			m.load()
		}

	case key.Matches(msg, m.keys.Submit):
		m.confirming = true
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.outcome = OutcomeSubmitted
		return m, tea.Quit
	case key.Matches(msg, m.keys.No):
		m.confirming = false
	}
	return m, nil
}

// load rebuilds the selector for the current question, restoring any answer
// given earlier.
func (m *Model) load() {
	if len(m.questions) == 0 {
		return
	}
	q := m.questions[m.index]
	prev := m.session.Answers()[q.ID]
	m.choice = components.NewMultiChoice(q.Text, q.Options[:], prev)
}

// Run shows the screen until the student submits or quits.
func Run(s *qz.Session) (Model, error) {
	final, err := tea.NewProgram(New(s)).Run()
	if err != nil {
		return Model{}, fmt.Errorf("run quiz screen: %w", err)
	}
	return final.(Model), nil
}
