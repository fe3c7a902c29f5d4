package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-simon/internal/core"
	"github.com/vovakirdan/tui-simon/internal/games/simon"
	"github.com/vovakirdan/tui-simon/internal/storage"
)

// MenuChoice is what the player picked from the main menu.
type MenuChoice int

const (
	MenuChoiceNone MenuChoice = iota
	MenuChoicePlay
	MenuChoiceScores
	MenuChoiceQuit
)

// Menu rows, top to bottom.
const (
	menuRowPlay = iota
	menuRowRuleset
	menuRowLevel
	menuRowScores
	menuRowQuit
	menuRows
)

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuPickStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	cursor    int
	width     int
	height    int
	variant   simon.Variant
	level     simon.Level
	targets   [simon.MaxLevel]int
	best      int
	store     *storage.Store
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	choice    MenuChoice
}

// NewMenuModel creates a menu showing the saved ruleset and level.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, prefs storage.Settings, targets [simon.MaxLevel]int) MenuModel {
	variant, err := simon.ParseVariant(prefs.Game)
	if err != nil {
		variant = simon.Classic
	}
	level := simon.Level(prefs.Level)
	if !level.Valid() {
		level = simon.MinLevel
	}
	if targets == ([simon.MaxLevel]int{}) {
		targets = simon.DefaultTargets
	}

	m := MenuModel{
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		variant:   variant,
		level:     level,
		targets:   targets,
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	m.loadBest()
	return m
}

func (m *MenuModel) loadBest() {
	m.best = 0
	if m.store == nil {
		return
	}
	if best, err := m.store.BestLength(m.variant.String()); err == nil {
		m.best = best
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.choice = MenuChoiceQuit
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = (m.cursor + menuRows - 1) % menuRows

	case MenuActionDown:
		m.cursor = (m.cursor + 1) % menuRows

	case MenuActionLeft:
		m.adjust(-1)

	case MenuActionRight:
		m.adjust(1)

	case MenuActionSelect:
		switch m.cursor {
		case menuRowPlay:
			m.choice = MenuChoicePlay
			return m, tea.Quit
		case menuRowScores:
			m.choice = MenuChoiceScores
			return m, tea.Quit
		case menuRowQuit:
			m.choice = MenuChoiceQuit
			return m, tea.Quit
		default:
			m.adjust(1)
		}
	}

	return m, nil
}

// adjust cycles the ruleset or level under the cursor.
func (m *MenuModel) adjust(step int) {
	switch m.cursor {
	case menuRowRuleset:
		all := simon.Variants()
		idx := 0
		for i, v := range all {
			if v == m.variant {
				idx = i
			}
		}
		m.variant = all[(idx+step+len(all))%len(all)]
		m.loadBest()
	case menuRowLevel:
		n := int(simon.MaxLevel)
		m.level = simon.Level((int(m.level)-1+step+n)%n + 1)
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.choice != MenuChoiceNone {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("S I M O N"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(menuHintStyle.Render(m.variant.Description()), m.width))
	b.WriteString("\n\n")

	rows := [menuRows]string{
		menuRowPlay:    "Play",
		menuRowRuleset: fmt.Sprintf("Ruleset: < %s >", m.variant.Title()),
		menuRowLevel:   fmt.Sprintf("Level:   < %d (%d colors) >", m.level, m.targets[m.level-1]),
		menuRowScores:  "Scores",
		menuRowQuit:    "Quit",
	}
	for i, row := range rows {
		line := "  " + row
		if i == m.cursor {
			line = menuPickStyle.Render("> " + row)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.best > 0 {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Best %s sequence: %d", m.variant.Title(), m.best), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Change  |  Enter: Select  |  Q: Quit"
	b.WriteString(centerText(menuHintStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Choice returns what the player picked.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// Variant returns the ruleset shown in the menu.
func (m MenuModel) Variant() simon.Variant {
	return m.variant
}

// Level returns the level shown in the menu.
func (m MenuModel) Level() simon.Level {
	return m.level
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width, measuring styled text by its
// printed cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Choice  MenuChoice
	Variant simon.Variant
	Level   simon.Level
	Config  core.RuntimeConfig
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, prefs storage.Settings, targets [simon.MaxLevel]int) (MenuResult, error) {
	model := NewMenuModel(store, cfg, prefs, targets)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg, Choice: MenuChoiceQuit}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Choice: MenuChoiceQuit}, nil
	}

	result := MenuResult{
		Choice:  m.Choice(),
		Variant: m.Variant(),
		Level:   m.Level(),
		Config:  m.Config(),
	}
	if result.Choice == MenuChoiceNone {
		result.Choice = MenuChoiceQuit
	}
	return result, nil
}
