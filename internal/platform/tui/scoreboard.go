package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-simon/internal/games/simon"
	"github.com/vovakirdan/tui-simon/internal/storage"
)

// maxResults is how many games one ruleset tab loads.
const maxResults = 100

// Rows taken by everything around the table: title, tabs, stats, detail,
// help and the table border.
const scoreboardChrome = 12

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	boardActiveTab  = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	boardFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	boardEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4)
	boardWarnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Next  key.Binding
	Prev  key.Binding
	Clear key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Clear, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Next:  key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next ruleset")),
		Prev:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev ruleset")),
		Clear: key.NewBinding(key.WithKeys("x"), key.WithHelp("x x", "clear ruleset")),
		Back:  key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists finished games per ruleset, longest first, and
// shows the sequence of the selected one.
type ScoreboardModel struct {
	games      []simon.Variant
	gameCursor int
	store      *storage.Store
	scores     []storage.Result
	stats      *storage.GameStats
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	armed      bool // first clear press seen
	err        error
	quitting   bool
	goingBack  bool
}

// NewScoreboardModel opens the scoreboard on the given ruleset. store may
// be nil, in which case every tab is empty.
func NewScoreboardModel(store *storage.Store, width, height int, start simon.Variant) ScoreboardModel {
	m := ScoreboardModel{
		games:  simon.Variants(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	for i, v := range m.games {
		if v == start {
			m.gameCursor = i
		}
	}
	m.help.Width = width
	m.table = newResultsTable(width, height)
	m.load()
	return m
}

func newResultsTable(width, height int) table.Model {
	when := 14
	if width > 60 {
		when = min(width-46, 22)
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Length", Width: 7},
			{Title: "Level", Width: 5},
			{Title: "Result", Width: 6},
			{Title: "When", Width: when},
		}),
		table.WithFocused(true),
		table.WithHeight(max(height-scoreboardChrome, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *ScoreboardModel) current() simon.Variant {
	return m.games[m.gameCursor]
}

// load reads the current tab from the store.
func (m *ScoreboardModel) load() {
	m.scores, m.stats, m.err = nil, nil, nil
	m.armed = false
	if m.store != nil {
		id := m.current().String()
		m.scores, m.err = m.store.TopResults(id, maxResults)
		if m.err == nil {
			m.stats, m.err = m.store.GetGameStats(id)
		}
	}

	rows := make([]table.Row, len(m.scores))
	for i, r := range m.scores {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%d/%d", r.Length, r.Target),
			strconv.Itoa(r.Level),
			r.Outcome,
			humanize.Time(r.CreatedAt),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) step(d int) {
	n := len(m.games)
	m.gameCursor = (m.gameCursor + d + n) % n
	m.load()
}

// clear forgets the current ruleset's results on the second press.
func (m *ScoreboardModel) clear() {
	if m.store == nil || len(m.scores) == 0 {
		return
	}
	if !m.armed {
		m.armed = true
		return
	}
	if err := m.store.ClearResults(m.current().String()); err != nil {
		m.err = err
		m.armed = false
		return
	}
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !key.Matches(msg, m.keys.Clear) {
			m.armed = false
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.step(-1)
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.clear()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		cursor := m.table.Cursor()
		m.table = newResultsTable(m.width, m.height)
		m.load()
		m.table.SetCursor(cursor)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(boardTitleStyle.Render("LONGEST SEQUENCES"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(menuHintStyle.Render(m.statsLine()), m.width))
	b.WriteString("\n")

	var body string
	if len(m.scores) == 0 {
		body = boardEmptyStyle.Render("No games recorded yet.\nFinish a game to get on the board!")
	} else {
		body = m.table.View()
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boardFrameStyle.Render(body)))
	b.WriteString("\n")
	b.WriteString(centerText(m.detail(), m.width))
	b.WriteString("\n\n")
	b.WriteString(menuHintStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// tabs renders the ruleset names, falling back to arrows when they do not
// fit.
func (m ScoreboardModel) tabs() string {
	parts := make([]string, len(m.games))
	for i, v := range m.games {
		if i == m.gameCursor {
			parts[i] = boardActiveTab.Render(v.Title())
		} else {
			parts[i] = boardTabStyle.Render(v.Title())
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if lipgloss.Width(line) > m.width {
		return boardActiveTab.Render("< " + m.current().Title() + " >")
	}
	return line
}

// detail shows the selected game's sequence, or the pending clear prompt.
func (m ScoreboardModel) detail() string {
	switch {
	case m.err != nil:
		return boardWarnStyle.Render("error: " + m.err.Error())
	case m.armed:
		return boardWarnStyle.Render(fmt.Sprintf("Press x again to clear all %s results", m.current().Title()))
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.scores) {
		return ""
	}
	seq, err := simon.ParseSequence(m.scores[i].Sequence)
	if err != nil || len(seq) == 0 {
		return ""
	}
	return RenderSequence(seq)
}

// statsLine summarizes the selected ruleset.
func (m ScoreboardModel) statsLine() string {
	st := m.stats
	if st == nil || st.GamesCount == 0 {
		return m.current().Description()
	}
	return fmt.Sprintf("%s %s, %d won, best %d, average %.1f, last %s",
		humanize.Comma(int64(st.GamesCount)), plural(st.GamesCount, "game", "games"),
		st.Wins, st.BestLength, st.AvgLength, humanize.Time(st.LastPlayed))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int, start simon.Variant) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height, start), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
