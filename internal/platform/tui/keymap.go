package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tappy/internal/core"
)

// KeyMap defines the key bindings of a game session.
type KeyMap struct {
	Flap       key.Binding
	Quit       key.Binding
	Screenshot key.Binding
	Debug      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flap, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Flap},
		{k.Screenshot, k.Debug, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Flap: key.NewBinding(
			key.WithKeys(" ", "space", "up", "w", "enter"),
			key.WithHelp("space/click", "flap"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Debug: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("f3", "stats"),
		),
	}
}

// MapKey translates a key message to a host action.
func (k KeyMap) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Screenshot):
		return core.ActionScreenshot
	case key.Matches(msg, k.Debug):
		return core.ActionDebug
	case key.Matches(msg, k.Flap):
		return core.ActionFlap
	}
	return core.ActionNone
}

// pointerEvent reports how a mouse message changes the trigger: pressed
// holds it, released lets go, and ok is false for messages that do neither.
func pointerEvent(msg tea.MouseMsg) (pressed, ok bool) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return true, true
		}
	case tea.MouseActionRelease:
		return false, true
	}
	return false, false
}
