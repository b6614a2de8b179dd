package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the global key binding set. It implements help.KeyMap.
type keyMap struct {
	Connect     key.Binding
	ClearCharts key.Binding
	ClearLog    key.Binding
	Debug       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Connect:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connect/disconnect")),
	ClearCharts: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear charts")),
	ClearLog:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "clear log")),
	Debug:       key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "debug")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Connect, k.ClearCharts, k.ClearLog, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Connect, k.Quit},
		{k.ClearCharts, k.ClearLog},
		{k.Debug, k.Help},
	}
}
