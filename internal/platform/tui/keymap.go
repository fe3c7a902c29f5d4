package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-simon/internal/core"
)

// GameKeyMap defines the key bindings used while playing.
type GameKeyMap struct {
	Green        key.Binding
	Red          key.Binding
	Yellow       key.Binding
	Blue         key.Binding
	Start        key.Binding
	Last         key.Binding
	Longest      key.Binding
	LevelUp      key.Binding
	LevelDown    key.Binding
	Variant      key.Binding
	ClearLongest key.Binding
	Help         key.Binding
	Back         key.Binding
	Quit         key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Green, k.Red, k.Yellow, k.Blue, k.Start, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Green, k.Red, k.Yellow, k.Blue},
		{k.Start, k.Last, k.Longest},
		{k.LevelUp, k.LevelDown, k.Variant, k.ClearLongest},
		{k.Help, k.Back, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Green: key.NewBinding(
			key.WithKeys("g", "1"),
			key.WithHelp("g/1", "green"),
		),
		Red: key.NewBinding(
			key.WithKeys("r", "2"),
			key.WithHelp("r/2", "red"),
		),
		Yellow: key.NewBinding(
			key.WithKeys("y", "3"),
			key.WithHelp("y/3", "yellow"),
		),
		Blue: key.NewBinding(
			key.WithKeys("b", "4"),
			key.WithHelp("b/4", "blue"),
		),
		Start: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s/enter", "start"),
		),
		Last: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "replay last"),
		),
		Longest: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "replay longest"),
		),
		LevelUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "level up"),
		),
		LevelDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "level down"),
		),
		Variant: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "ruleset"),
		),
		ClearLongest: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear longest"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys GameKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultGameKeyMap()}
}

// Keys returns the bindings, for help rendering.
func (km *KeyMapper) Keys() GameKeyMap {
	return km.keys
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	k := km.keys
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, k.Green):
		return core.ActionGreen, false
	case key.Matches(msg, k.Red):
		return core.ActionRed, false
	case key.Matches(msg, k.Yellow):
		return core.ActionYellow, false
	case key.Matches(msg, k.Blue):
		return core.ActionBlue, false
	case key.Matches(msg, k.Start):
		return core.ActionStart, false
	case key.Matches(msg, k.Last):
		return core.ActionLast, false
	case key.Matches(msg, k.Longest):
		return core.ActionLongest, false
	case key.Matches(msg, k.LevelUp):
		return core.ActionLevelUp, false
	case key.Matches(msg, k.LevelDown):
		return core.ActionLevelDown, false
	case key.Matches(msg, k.Variant):
		return core.ActionNextVariant, false
	case key.Matches(msg, k.ClearLongest):
		return core.ActionClearLongest, false
	case key.Matches(msg, k.Help):
		return core.ActionHelp, false
	case key.Matches(msg, k.Back):
		return core.ActionBack, false
	}
	return core.ActionNone, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
