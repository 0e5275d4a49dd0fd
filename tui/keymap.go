package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the workbench key bindings.
type keyMap struct {
	Quit         key.Binding
	FocusNext    key.Binding
	Up           key.Binding
	Down         key.Binding
	Open         key.Binding
	Save         key.Binding
	CloseTab     key.Binding
	NextTab      key.Binding
	PrevTab      key.Binding
	RecentTab    key.Binding
	TogglePin    key.Binding
	ToggleView   key.Binding
	TogglePane   key.Binding
	Console      key.Binding
	RefreshFiles key.Binding
	Build        key.Binding
	Validate     key.Binding
	Back         key.Binding
	Forward      key.Binding
	Confirm      key.Binding
	Cancel       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:         key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		FocusNext:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus next pane")),
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "down")),
		Open:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open file")),
		Save:         key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save tab")),
		CloseTab:     key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close tab")),
		NextTab:      key.NewBinding(key.WithKeys("ctrl+right", "ctrl+n"), key.WithHelp("ctrl+→", "next tab")),
		PrevTab:      key.NewBinding(key.WithKeys("ctrl+left", "ctrl+p"), key.WithHelp("ctrl+←", "previous tab")),
		RecentTab:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "recent tab")),
		TogglePin:    key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "pin/unpin tab")),
		ToggleView:   key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "cycle view")),
		TogglePane:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "console/validation pane")),
		Console:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "toggle console")),
		RefreshFiles: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "refresh files")),
		Build:        key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "build")),
		Validate:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "validate")),
		Back:         key.NewBinding(key.WithKeys("alt+left"), key.WithHelp("alt+←", "back")),
		Forward:      key.NewBinding(key.WithKeys("alt+right"), key.WithHelp("alt+→", "forward")),
		Confirm:      key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm")),
		Cancel:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel")),
	}
}
