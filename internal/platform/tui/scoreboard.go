package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-reaction/internal/games/reaction"
	"github.com/vovakirdan/tui-reaction/internal/storage"
)

// Scoreboard layout constants
const (
	maxResults  = 100 // Max results to load
	recentLimit = 5   // Player's own games shown above the table
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "tab"),
			key.WithHelp("esc/tab", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the results board while the cabinet keeps running.
type ScoreboardModel struct {
	store     *storage.Store
	player    string
	results   []storage.ResultEntry
	recent    []storage.ResultEntry // This player's latest games
	stats     *storage.Stats
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, player string, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		store:  store,
		player: player,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.Reload()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: 12},
		{Title: "Average", Width: 8},
		{Title: "Rounds", Width: 18},
		{Title: "Date", Width: 12},
	}

	height := m.height - 10 // Leave room for title, stats and help
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	// Table styles
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

// Reload refreshes results and stats from the store.
func (m *ScoreboardModel) Reload() {
	m.results = nil
	m.recent = nil
	m.stats = nil
	if m.store != nil {
		if results, err := m.store.TopResults(maxResults); err == nil {
			m.results = results
		}
		if recent, err := m.store.PlayerResults(m.player, recentLimit); err == nil {
			m.recent = recent
		}
		if stats, err := m.store.GetStats(); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current results.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		times := make([]string, len(r.Times))
		for j, tm := range r.Times {
			times[j] = reaction.FormatSeconds(tm)
		}
		player := r.Player
		if player == m.player {
			player = "* " + player
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			player,
			reaction.FormatSeconds(r.Average),
			strings.Join(times, " "),
			r.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (ScoreboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("FASTEST REACTIONS"))
	b.WriteString("\n\n")

	if m.stats != nil && m.stats.Games > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(
			"%d games  |  %d players  |  best %s  |  mean %s",
			m.stats.Games,
			m.stats.Players,
			reaction.FormatSeconds(m.stats.BestAverage),
			reaction.FormatSeconds(m.stats.MeanAverage),
		)))
		b.WriteString("\n\n")
	}

	if line := m.recentLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	// Help bar
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	if m.width <= 0 || m.height <= 0 {
		return b.String()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

// recentLine summarizes the player's latest games, newest first.
func (m ScoreboardModel) recentLine() string {
	if len(m.recent) == 0 {
		return ""
	}
	best := m.recent[0].Average
	averages := make([]string, len(m.recent))
	for i, r := range m.recent {
		averages[i] = reaction.FormatSeconds(r.Average)
		if r.Average < best {
			best = r.Average
		}
	}
	return fmt.Sprintf("%s  recent %s  |  best %s",
		m.player, strings.Join(averages, " "), reaction.FormatSeconds(best))
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.results) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No results yet.\nFinish a game to get on the board!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to the cabinet.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
