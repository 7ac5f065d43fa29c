package stopwatch

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle      key.Binding
	Lap         key.Binding
	Reset       key.Binding
	Undo        key.Binding
	NewCycle    key.Binding
	NextCycle   key.Binding
	RemoveCycle key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:      key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "start/stop")),
		Lap:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "record lap")),
		Reset:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Undo:        key.NewBinding(key.WithKeys("backspace", "u"), key.WithHelp("u", "drop last")),
		NewCycle:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new cycle")),
		NextCycle:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next cycle")),
		RemoveCycle: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove cycle")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "finish")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Lap, k.NewCycle, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Lap, k.Reset, k.Undo},
		{k.NewCycle, k.NextCycle, k.RemoveCycle},
		{k.Help, k.Quit},
	}
}
