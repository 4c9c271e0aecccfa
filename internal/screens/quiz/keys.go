package quiz

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Pick   key.Binding
	Choose key.Binding
	Prev   key.Binding
	Next   key.Binding
	Submit key.Binding
	Quit   key.Binding
	Yes    key.Binding
	No     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Pick:   key.NewBinding(key.WithKeys("a", "b", "c", "d"), key.WithHelp("a-d", "pick")),
		Choose: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "answer")),
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "back")),
		Next:   key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "skip")),
		Submit: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "submit")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
		Yes:    key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "submit")),
		No:     key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "keep going")),
	}
}

// answeringKeys is the help.KeyMap shown while a question is on screen.
type answeringKeys struct{ keyMap }

func (k answeringKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Choose, k.Prev, k.Next, k.Submit, k.Quit}
}

func (k answeringKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Pick, k.Choose}, {k.Prev, k.Next, k.Submit, k.Quit}}
}

// confirmKeys is shown on the submit confirmation prompt.
type confirmKeys struct{ keyMap }

func (k confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}

func (k confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
