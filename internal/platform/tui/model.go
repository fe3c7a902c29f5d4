package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-simon/internal/config"
	"github.com/vovakirdan/tui-simon/internal/core"
	"github.com/vovakirdan/tui-simon/internal/games/simon"
	"github.com/vovakirdan/tui-simon/internal/monitor"
	"github.com/vovakirdan/tui-simon/internal/storage"
)

const defaultKeyHold = 200 * time.Millisecond

// Options configures a game session.
type Options struct {
	Config  config.SimonConfig
	Store   *storage.Store   // nil disables persistence
	Metrics *monitor.Metrics // nil disables metrics
	Tones   simon.ToneSource // nil plays nothing
	Clock   core.Clock       // nil uses the wall clock
	Logger  *log.Logger

	// Slot names the saved-game slot. Defaults to storage.SlotLocal.
	Slot string
	// Fresh ignores a saved game in Slot.
	Fresh bool
	// Variant and Level override the saved preferences when non-zero.
	Variant simon.Variant
	Level   simon.Level
	// RunID groups the results of one session. Generated when empty.
	RunID string
}

// session is the mutable state shared by every copy of a Model.
type session struct {
	runID     string
	slot      string
	lastMode  simon.Mode
	recorded  bool
	held      int // button held by the keyboard, -1 when none
	keyGen    uint64
	mouseDown int // button held by the mouse, -1 when none
	persisted bool
}

// Model is the Bubble Tea model for a game of simon.
type Model struct {
	engine    *simon.Engine
	sched     *teaScheduler
	screen    *core.Screen
	store     *storage.Store
	metrics   *monitor.Metrics
	logger    *log.Logger
	keyMapper *KeyMapper
	help      help.Model
	keyHold   time.Duration
	state     *session
	embedded  bool // Back returns to the caller instead of quitting
	width     int
	height    int
	quitting  bool
	back      bool
}

// NewModel creates a game model. Preferences come from the store when one
// is given, falling back to the config file; a saved game in the slot is
// resumed unless opts.Fresh is set.
func NewModel(opts Options, cfg core.RuntimeConfig) (Model, error) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Slot == "" {
		opts.Slot = storage.SlotLocal
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	prefs := storage.Settings{Level: opts.Config.Game.Level, Game: opts.Config.Game.Variant}
	if opts.Store != nil {
		loaded, err := opts.Store.LoadSettingsOr(prefs)
		if err != nil {
			logger.Warn("could not load preferences", "error", err)
		} else {
			prefs = loaded
		}
	}
	variant, err := simon.ParseVariant(prefs.Game)
	if err != nil {
		variant = simon.Classic
	}
	level := simon.Level(prefs.Level)
	if !level.Valid() {
		level = simon.MinLevel
	}
	if opts.Variant != 0 {
		variant = opts.Variant
	}
	if opts.Level != 0 {
		level = opts.Level
	}

	sched := newTeaScheduler()
	engine, err := simon.New(simon.Options{
		Variant:   variant,
		Level:     level,
		Targets:   opts.Config.Targets(),
		Timing:    opts.Config.EngineTiming(),
		Seed:      uint64(cfg.Seed),
		Clock:     opts.Clock,
		Scheduler: sched,
		Tones:     opts.Tones,
		Logger:    logger,
	})
	if err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}
	if prefs.Longest != "" {
		if longest, err := simon.ParseSequence(prefs.Longest); err != nil {
			logger.Warn("ignoring saved longest sequence", "error", err)
		} else {
			engine.SetLongest(longest)
		}
	}

	keyHold := opts.Config.Input.KeyHold
	if keyHold <= 0 {
		keyHold = defaultKeyHold
	}

	m := Model{
		engine:    engine,
		sched:     sched,
		screen:    core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 0)),
		store:     opts.Store,
		metrics:   opts.Metrics,
		logger:    logger,
		keyMapper: NewKeyMapper(),
		help:      help.New(),
		keyHold:   keyHold,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		state: &session{
			runID:     opts.RunID,
			slot:      opts.Slot,
			held:      -1,
			mouseDown: -1,
		},
	}
	m.help.Width = cfg.ScreenW

	if m.store != nil && !opts.Fresh {
		m.resume()
	}
	m.state.lastMode = engine.Mode()
	return m, nil
}

// resume restores the game saved in the session slot. A snapshot that no
// longer validates is discarded.
func (m Model) resume() {
	slot := m.state.slot
	fields, err := m.store.LoadSnapshot(slot)
	if err != nil {
		m.logger.Warn("could not load saved game", "slot", slot, "error", err)
		return
	}
	if fields == nil {
		return
	}
	snap, err := simon.SnapshotFromFields(fields)
	if err == nil {
		err = m.engine.Restore(snap)
	}
	if err != nil {
		m.logger.Warn("discarding saved game", "slot", slot, "error", err)
		if err := m.store.DeleteSnapshot(slot); err != nil {
			m.logger.Error("could not delete saved game", "slot", slot, "error", err)
		}
		return
	}
	m.logger.Info("resumed saved game",
		"slot", slot,
		"mode", snap.Mode,
		"length", len(snap.Sequence),
	)
}

// Init flushes the ticks queued while restoring a saved game.
func (m Model) Init() tea.Cmd {
	return m.sched.flush()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.fitScreen()

	case tea.BlurMsg:
		// the key-up or mouse-up will never arrive
		m.releaseHeld()

	case timerMsg:
		m.sched.fire(msg)

	case keyReleaseMsg:
		m.handleKeyRelease(msg)
	}

	m.observe()
	return m, tea.Batch(cmd, m.sched.flush())
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		m.persist()
		return m, tea.Quit
	}

	if i, ok := action.Button(); ok {
		return m, m.pressKey(i)
	}

	switch action {
	case core.ActionStart:
		m.startGame()
	case core.ActionLast:
		m.engine.PlayLast()
	case core.ActionLongest:
		m.engine.PlayLongest()
	case core.ActionLevelUp:
		m.engine.SetLevel(m.engine.Level() + 1)
	case core.ActionLevelDown:
		m.engine.SetLevel(m.engine.Level() - 1)
	case core.ActionNextVariant:
		m.engine.SetVariant(nextVariant(m.engine.Variant()))
	case core.ActionClearLongest:
		m.engine.ClearLongest()
		if m.store != nil {
			if err := m.store.ClearLongest(); err != nil {
				m.logger.Error("could not clear longest sequence", "error", err)
			}
		}
	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		m.fitScreen()
	case core.ActionBack:
		m.back = true
		m.persist()
		if !m.embedded {
			return m, tea.Quit
		}
	}
	return m, nil
}

// pressKey presses a button and schedules its release, since terminals
// report no key-up. A second key releases the button still held.
func (m Model) pressKey(i int) tea.Cmd {
	st := m.state
	if st.held >= 0 {
		m.engine.Release(st.held)
	}
	m.engine.Press(i)
	st.held = i
	st.keyGen++
	gen := st.keyGen
	return tea.Tick(m.keyHold, func(time.Time) tea.Msg {
		return keyReleaseMsg{src: st, button: i, gen: gen}
	})
}

func (m Model) handleKeyRelease(msg keyReleaseMsg) {
	st := m.state
	if msg.src != st || msg.gen != st.keyGen || st.held != msg.button {
		return
	}
	st.held = -1
	m.engine.Release(msg.button)
}

// handleMouse maps left-button press and release over the pad onto
// engine presses. The release goes to the button that was pressed, even
// if the pointer has moved off it.
func (m Model) handleMouse(msg tea.MouseMsg) {
	st := m.state
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		layout := simon.NewLayout(m.screen.Width(), m.screen.Height())
		if i, ok := layout.ButtonAt(msg.X, msg.Y); ok {
			m.engine.Press(i)
			st.mouseDown = i
		}
	case tea.MouseActionRelease:
		if st.mouseDown < 0 {
			return
		}
		m.engine.Release(st.mouseDown)
		st.mouseDown = -1
		if m.engine.Accepting() {
			m.engine.ReleaseAllButtons()
		}
	}
}

// releaseHeld lets go of every button held by the keyboard or the mouse.
func (m Model) releaseHeld() {
	st := m.state
	st.held = -1
	st.keyGen++
	st.mouseDown = -1
	m.engine.ReleaseAllButtons()
}

func (m Model) startGame() {
	m.engine.StartGame()
	m.state.recorded = false
	m.metrics.GameStarted(m.engine.Variant().String())
}

// observe reacts to mode changes: a finished game is recorded once.
func (m Model) observe() {
	st := m.state
	mode := m.engine.Mode()
	if mode == st.lastMode {
		return
	}
	st.lastMode = mode
	if mode.Finished() && !st.recorded {
		st.recorded = true
		m.recordResult(mode)
	}
}

func (m Model) recordResult(mode simon.Mode) {
	outcome := storage.OutcomeLost
	if mode == simon.ModeWon {
		outcome = storage.OutcomeWon
	}
	seq := m.engine.Sequence()
	variant := m.engine.Variant().String()

	m.logger.Info("game finished",
		"variant", variant,
		"level", m.engine.Level(),
		"outcome", outcome,
		"length", len(seq),
	)
	m.metrics.GameFinished(variant, outcome, len(seq))

	if m.store == nil {
		return
	}
	_, err := m.store.SaveResult(storage.Result{
		RunID:    m.state.runID,
		Game:     variant,
		Level:    int(m.engine.Level()),
		Target:   m.engine.TargetLength(),
		Length:   len(seq),
		Outcome:  outcome,
		Sequence: seq.String(),
	})
	if err != nil {
		m.logger.Error("could not save result", "error", err)
	}
	m.savePreferences()
}

// persist saves preferences and the game in progress. It runs once per
// session.
func (m Model) persist() {
	st := m.state
	if st.persisted {
		return
	}
	st.persisted = true
	m.engine.Close()
	if m.store == nil {
		return
	}
	m.savePreferences()

	mode := m.engine.Mode()
	if mode == simon.ModeIdle || mode.Finished() {
		if err := m.store.DeleteSnapshot(st.slot); err != nil {
			m.logger.Error("could not delete saved game", "slot", st.slot, "error", err)
		}
		return
	}
	snap := m.engine.Snapshot()
	if err := snap.Validate(); err != nil {
		m.logger.Warn("game in progress cannot be saved", "mode", mode, "error", err)
		return
	}
	if err := m.store.SaveSnapshot(st.slot, snap.Fields()); err != nil {
		m.logger.Error("could not save game", "slot", st.slot, "error", err)
		return
	}
	m.logger.Info("saved game in progress", "slot", st.slot, "mode", mode)
}

func (m Model) savePreferences() {
	err := m.store.SaveSettings(storage.Settings{
		Level:   int(m.engine.Level()),
		Game:    m.engine.Variant().String(),
		Longest: m.engine.Longest().String(),
	})
	if err != nil {
		m.logger.Error("could not save preferences", "error", err)
	}
}

// View renders the pad with the key help underneath.
func (m Model) View() string {
	if m.quitting || (m.back && !m.embedded) {
		return ""
	}
	m.engine.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.helpView()
}

func (m Model) helpView() string {
	return helpStyle.Render(m.help.View(m.keyMapper.Keys()))
}

// fitScreen gives the pad every row the help line does not use.
func (m Model) fitScreen() {
	m.screen.Resize(m.width, max(m.height-lipgloss.Height(m.helpView()), 0))
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Engine exposes the engine, for tests and the session wrapper.
func (m Model) Engine() *simon.Engine {
	return m.engine
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.back
}

func nextVariant(v simon.Variant) simon.Variant {
	all := simon.Variants()
	for i, candidate := range all {
		if candidate == v {
			return all[(i+1)%len(all)]
		}
	}
	return simon.Classic
}

// RunGame runs a game in its own program until the player quits or goes
// back. Returns true if the player wants the menu.
func RunGame(opts Options, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	model, err := NewModel(opts, cfg)
	if err != nil {
		return false, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	finalModel, err := p.Run()
	if err != nil {
		model.persist()
		return false, fmt.Errorf("tui: %w", err)
	}

	m, ok := finalModel.(Model)
	if !ok {
		return false, nil
	}
	// interrupted without a quit key
	m.persist()
	return m.BackToMenu(), nil
}
