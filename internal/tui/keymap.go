package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the bindings the model reacts to and help renders.
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding

	// Actions
	Summary key.Binding
	Reset   key.Binding
	Save    key.Binding
	Budget  key.Binding

	// Application
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func bind(label, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// DefaultKeyMap returns vim-style navigation plus single-letter actions.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     bind("↑/k", "up", "k", "up"),
		Down:   bind("↓/j", "down", "j", "down"),
		Select: bind("Enter", "select/log", "enter"),
		Back:   bind("Esc", "back", "esc"),

		Summary: bind("s", "summary", "s"),
		Reset:   bind("r", "reset budget", "r"),
		Save:    bind("w", "write history", "w"),
		Budget:  bind("b", "new budget", "b"),

		Help:      bind("?", "toggle help", "?"),
		Quit:      bind("q", "quit", "q"),
		ForceQuit: bind("Ctrl+C", "force quit", "ctrl+c"),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Summary, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.Summary, k.Reset, k.Save, k.Budget},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
