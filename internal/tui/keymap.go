package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Next key.Binding
	Prev key.Binding

	// Actions
	ToggleScenario key.Binding
	Advise         key.Binding
	Reset          key.Binding

	// Application
	ToggleHelp key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("Shift+Tab/↑", "previous field"),
		),
		ToggleScenario: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("Ctrl+T", "switch scenario"),
		),
		Advise: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "get advice"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("Ctrl+R", "reset"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("Esc", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Advise, k.ToggleHelp, k.Quit}
}

// FullHelp returns every binding.
func (k KeyMap) FullHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.ToggleScenario, k.Advise, k.Reset, k.ToggleHelp, k.Quit}
}
