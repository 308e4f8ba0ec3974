package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/wasm-arcade/internal/core"
)

// KeyMap is the static table from terminal keys to simulation key codes,
// plus the host's own bindings.
type KeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Accept key.Binding

	Back       key.Binding
	Quit       key.Binding
	Screenshot key.Binding
	Help       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s", "down"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "accept"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Back, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Accept},
		{k.Back, k.Quit, k.Screenshot, k.Help},
	}
}

// Code translates a key message to the simulation key code it stands for.
func (k KeyMap) Code(msg tea.KeyMsg) (core.KeyCode, bool) {
	switch {
	case key.Matches(msg, k.Left):
		return core.KeyLeft, true
	case key.Matches(msg, k.Right):
		return core.KeyRight, true
	case key.Matches(msg, k.Up):
		return core.KeyUp, true
	case key.Matches(msg, k.Down):
		return core.KeyDown, true
	case key.Matches(msg, k.Accept):
		return core.KeyAccept, true
	}
	return 0, false
}
