package shell

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	ToggleLog key.Binding
	Close     key.Binding
	CopyLog   key.Binding
}

func defaultKeyMap(debug bool) keyMap {
	km := keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ToggleLog: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close log")),
		CopyLog:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy log")),
	}
	km.ToggleLog.SetEnabled(debug)
	km.CopyLog.SetEnabled(debug)
	return km
}
