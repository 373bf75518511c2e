package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	enter key.Binding
	yes   key.Binding
	no    key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		yes:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "run")),
		no:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
		quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.enter, k.yes, k.no},
		{k.quit},
	}
}
