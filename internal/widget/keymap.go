package widget

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the chart widget key bindings.
type KeyMap struct {
	PrevTrace   key.Binding
	NextTrace   key.Binding
	AppendPoint key.Binding
	DropPoint   key.Binding
	NudgeUp     key.Binding
	NudgeDown   key.Binding
	CycleSource key.Binding
	AddTrace    key.Binding

	PanLeft    key.Binding
	PanRight   key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	ResetScale key.Binding
}

// DefaultKeyMap returns the widget bindings. Edit bindings are disabled when
// the widget is not editable; layout bindings follow the mode bar.
func DefaultKeyMap(cfg Config) KeyMap {
	km := KeyMap{
		PrevTrace:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev trace")),
		NextTrace:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next trace")),
		AppendPoint: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add point")),
		DropPoint:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "drop point")),
		NudgeUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "raise last")),
		NudgeDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "lower last")),
		CycleSource: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "y source")),
		AddTrace:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new trace")),

		PanLeft:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan left")),
		PanRight:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan right")),
		ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ResetScale: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset scale")),
	}

	for _, b := range km.editBindings() {
		b.SetEnabled(cfg.Editable)
	}
	km.ZoomIn.SetEnabled(!cfg.Removed(ButtonZoomIn))
	km.ZoomOut.SetEnabled(!cfg.Removed(ButtonZoomOut))
	km.PanLeft.SetEnabled(!cfg.Removed(ButtonPan))
	km.PanRight.SetEnabled(!cfg.Removed(ButtonPan))
	km.ResetScale.SetEnabled(!cfg.Removed(ButtonResetScale))
	return km
}

func (k *KeyMap) editBindings() []*key.Binding {
	return []*key.Binding{
		&k.PrevTrace, &k.NextTrace, &k.AppendPoint, &k.DropPoint,
		&k.NudgeUp, &k.NudgeDown, &k.CycleSource, &k.AddTrace,
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTrace, k.AppendPoint, k.CycleSource, k.PanLeft, k.PanRight, k.ZoomIn, k.ZoomOut}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevTrace, k.NextTrace, k.AddTrace, k.CycleSource},
		{k.AppendPoint, k.DropPoint, k.NudgeUp, k.NudgeDown},
		{k.PanLeft, k.PanRight, k.ZoomIn, k.ZoomOut, k.ResetScale},
	}
}
