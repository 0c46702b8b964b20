package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-reaction/internal/core"
)

// KeyMap defines the cabinet key bindings.
type KeyMap struct {
	Coin       key.Binding
	GoStop     key.Binding
	Scoreboard key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Coin, k.GoStop, k.Scoreboard, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Coin, k.GoStop},
		{k.Scoreboard, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Coin: key.NewBinding(
			key.WithKeys("c", "5"),
			key.WithHelp("c/5", "insert coin"),
		),
		GoStop: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "go/stop"),
		),
		Scoreboard: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to cabinet actions.
type KeyMapper struct {
	keys KeyMap
}

// NewKeyMapper creates a new key mapper with the given bindings.
func NewKeyMapper(keys KeyMap) *KeyMapper {
	return &KeyMapper{keys: keys}
}

// MapKey translates a key message to an action.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, km.keys.Quit):
		return core.ActionQuit
	case key.Matches(msg, km.keys.Coin):
		return core.ActionCoin
	case key.Matches(msg, km.keys.GoStop):
		return core.ActionGoStop
	case key.Matches(msg, km.keys.Scoreboard):
		return core.ActionScoreboard
	}
	return core.ActionNone
}
