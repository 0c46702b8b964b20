package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-reaction/internal/core"
	"github.com/vovakirdan/tui-reaction/internal/games/reaction"
	"github.com/vovakirdan/tui-reaction/internal/storage"
)

// Model is the Bubble Tea model for one reaction cabinet.
type Model struct {
	game       *reaction.Game
	store      *storage.Store
	config     core.RuntimeConfig
	player     string
	logger     *log.Logger
	keys       KeyMap
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	snapshot   reaction.Snapshot
	scoreboard *ScoreboardModel // Non-nil while the board is open
	lastRank   int              // Board position of the last finished game
	newRecord  bool             // Last finished game beat the board's best average
	quitting   bool
}

// NewModel creates a cabinet model and powers the game on.
// A nil store disables the results board; a nil logger discards output.
func NewModel(game *reaction.Game, store *storage.Store, cfg core.RuntimeConfig, player string, logger *log.Logger) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	game.OnTransition(func(tr reaction.Transition) {
		logger.Debug("transition", "from", tr.From, "to", tr.To, "event", tr.Event)
	})
	game.Reset(cfg)

	keys := DefaultKeyMap()
	return Model{
		game:       game,
		store:      store,
		config:     cfg,
		player:     player,
		logger:     logger,
		keys:       keys,
		keyMapper:  NewKeyMapper(keys),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		snapshot:   game.Snapshot(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.scoreboard != nil {
			return m.updateScoreboard(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey records cabinet input for the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keyMapper.MapKey(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionScoreboard:
		board := NewScoreboardModel(m.store, m.player, m.config.ScreenW, m.config.ScreenH)
		m.scoreboard = &board
	case core.ActionCoin, core.ActionGoStop:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// updateScoreboard forwards keys to the open board.
// The cabinet keeps ticking underneath, but its buttons are not reachable.
func (m Model) updateScoreboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	board, cmd := m.scoreboard.Update(msg)
	switch {
	case board.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case board.IsGoingBack():
		m.scoreboard = nil
		return m, nil
	}
	m.scoreboard = &board
	return m, cmd
}

// handleResize processes window resize events.
// The cabinet keeps its state across resizes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width

	if m.scoreboard != nil {
		board, _ := m.scoreboard.Update(msg)
		m.scoreboard = &board
	}
	return m, nil
}

// handleTick runs one controller tick with the input collected since the last one.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.snapshot = result.Snapshot

	if result.Aborted {
		m.logger.Info("false start", "player", m.player)
	}
	if result.Finished != nil {
		m.lastRank, m.newRecord = m.saveResult(*result.Finished)
	}
	if result.Snapshot.State == reaction.StateReady {
		m.lastRank = 0
		m.newRecord = false
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// saveResult records a finished game and returns its board position, or 0,
// and whether it beat the best average already on the board.
func (m Model) saveResult(res reaction.Result) (int, bool) {
	m.logger.Info("game finished",
		"player", m.player,
		"average", reaction.FormatSeconds(res.Average),
		"rounds", res.Rounds,
		"timed_out", res.TimedOut,
	)

	if m.store == nil || res.Average <= 0 {
		return 0, false
	}

	best, hasBest, err := m.store.BestAverage()
	if err != nil {
		m.logger.Warn("could not read best average", "error", err)
	}
	record := err == nil && (!hasBest || res.Average < best)

	entry := storage.ResultEntry{
		Player:   m.player,
		Average:  res.Average,
		Times:    res.Recorded,
		Rounds:   res.Rounds,
		TimedOut: res.TimedOut,
	}
	id, err := m.store.SaveResult(entry)
	if err != nil {
		m.logger.Warn("could not save result", "error", err)
		return 0, false
	}

	rank, err := m.store.Rank(res.Average)
	if err != nil {
		m.logger.Warn("could not rank result", "id", id, "error", err)
		return 0, record
	}
	if record {
		m.logger.Info("new board record", "player", m.player, "average", reaction.FormatSeconds(res.Average))
	}
	m.logger.Debug("result saved", "id", id, "rank", rank)
	return rank, record
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.scoreboard != nil {
		return m.scoreboard.View()
	}

	footer := m.help.View(m.keys)
	if m.lastRank > 0 && m.snapshot.State == reaction.StateAverage {
		line := fmt.Sprintf("Board position #%d", m.lastRank)
		if m.newRecord {
			line += "  -  New board record!"
		}
		footer = dimStyle.Render(line) + "\n\n" + footer
	}
	return RenderCabinet(m.snapshot, m.config.ScreenW, m.config.ScreenH, footer)
}

// Snapshot returns the game state as of the last tick.
func (m Model) Snapshot() reaction.Snapshot {
	return m.snapshot
}

// LastRank returns the board position of the last finished game, or 0.
func (m Model) LastRank() int {
	return m.lastRank
}

// NewRecord reports whether the last finished game set the board's best average.
func (m Model) NewRecord() bool {
	return m.newRecord
}

// ScoreboardOpen reports whether the results board is showing.
func (m Model) ScoreboardOpen() bool {
	return m.scoreboard != nil
}

// Run starts the Bubble Tea program for a local cabinet.
func Run(game *reaction.Game, store *storage.Store, cfg core.RuntimeConfig, player string, logger *log.Logger) error {
	model := NewModel(game, store, cfg, player, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
