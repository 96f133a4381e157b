package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	CursorUp   key.Binding
	CursorDown key.Binding
	Refresh    key.Binding
	Delete     key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	Quit       key.Binding
	Help       key.Binding
	CloseHelp  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		CursorUp: key.NewBinding(
			key.WithKeys("up", "k"),
		),
		CursorDown: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
		),
		CloseHelp: key.NewBinding(
			key.WithKeys("esc"),
		),
	}
}
