package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-simon/internal/core"
	"github.com/vovakirdan/tui-simon/internal/games/simon"
	"github.com/vovakirdan/tui-simon/internal/storage"
)

func sessionKeys(t *testing.T, m SessionModel, keys ...string) (SessionModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(SessionModel)
	}
	return m, cmd
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	store := openTestStore(t)
	opts := Options{Store: store, Slot: storage.SSHSlot("alice")}
	m := NewSessionModel(opts, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 3})

	// pick Player Adds, then Play
	m, _ = sessionKeys(t, m, "down", "right", "up", "enter")
	if m.game == nil {
		t.Fatal("Play should open a game")
	}
	if !m.game.embedded {
		t.Error("session games must not quit the program on esc")
	}
	if m.game.Engine().Variant() != simon.PlayerExtends {
		t.Errorf("Variant() = %v, expected extend", m.game.Engine().Variant())
	}

	m, cmd := sessionKeys(t, m, "s", "esc")
	if m.game != nil {
		t.Fatal("esc should return to the menu")
	}
	if m.quitting {
		t.Error("esc in a game must not end the session")
	}
	_ = cmd

	// the game in progress was saved to the user's slot
	fields, err := store.LoadSnapshot(storage.SSHSlot("alice"))
	if err != nil {
		t.Fatalf("LoadSnapshot() failed: %v", err)
	}
	if fields == nil {
		t.Error("leaving mid-game should save it")
	}
	if m.menu.Variant() != simon.PlayerExtends {
		t.Errorf("menu Variant() = %v, expected the saved extend", m.menu.Variant())
	}
}

func TestSessionScoresAndQuit(t *testing.T) {
	m := NewSessionModel(Options{}, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})

	m, _ = sessionKeys(t, m, "down", "down", "down", "enter")
	if m.scores == nil {
		t.Fatal("Scores should open the scoreboard")
	}
	if m.View() == "" {
		t.Error("scoreboard View() is empty")
	}

	m, _ = sessionKeys(t, m, "esc")
	if m.scores != nil {
		t.Fatal("esc should close the scoreboard")
	}
	if m.quitting {
		t.Error("closing the scoreboard must not end the session")
	}

	m, cmd := sessionKeys(t, m, "q")
	if !m.quitting {
		t.Error("q in the menu should end the session")
	}
	if cmd == nil {
		t.Error("quitting should return tea.Quit")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestSessionTracksWindowSize(t *testing.T) {
	m := NewSessionModel(Options{}, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(SessionModel)

	m, _ = sessionKeys(t, m, "enter")
	if m.game == nil {
		t.Fatal("Play should open a game")
	}
	if m.game.screen.Width() != 100 || m.game.screen.Height() != 39 {
		t.Errorf("game screen = %dx%d, expected 100x39", m.game.screen.Width(), m.game.screen.Height())
	}
}
