package panel

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab  key.Binding
	PrevTab  key.Binding
	NewTab   key.Binding
	CloseTab key.Binding
	Up       key.Binding
	Down     key.Binding
	Add      key.Binding
	Remove   key.Binding
	Toggle   key.Binding
	PrevKey  key.Binding
	NextKey  key.Binding
	MinDown  key.Binding
	MinUp    key.Binding
	MaxDown  key.Binding
	MaxUp    key.Binding
	CopyURL  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous tab")),
		NewTab:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new tab")),
		CloseTab: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close tab")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add control")),
		Remove:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove control")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "start/stop")),
		PrevKey:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous key")),
		NextKey:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next key")),
		MinDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "min -1s")),
		MinUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "min +1s")),
		MaxDown:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "max -1s")),
		MaxUp:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "max +1s")),
		CopyURL:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy tab URL")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.NextKey, k.NextTab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.NewTab, k.CloseTab, k.CopyURL},
		{k.Up, k.Down, k.Add, k.Remove, k.Toggle},
		{k.PrevKey, k.NextKey, k.MinDown, k.MinUp, k.MaxDown, k.MaxUp},
		{k.Help, k.Quit},
	}
}
