// Package keymap defines keybindings for the map monitor.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every keybinding of the monitor.
type KeyMap struct {
	// Quit exits the monitor.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Back leaves the help view.
	Back key.Binding

	// Reload reads the map file again.
	Reload key.Binding

	// Up scrolls the event log up.
	Up key.Binding

	// Down scrolls the event log down.
	Down key.Binding

	// Clear empties the event log.
	Clear key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear log"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reload, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help view, grouped by column.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Clear},
		{k.Reload, k.Help, k.Back, k.Quit},
	}
}
