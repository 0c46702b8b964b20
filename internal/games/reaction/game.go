package reaction

import (
	"github.com/vovakirdan/tui-reaction/internal/config"
	"github.com/vovakirdan/tui-reaction/internal/core"
)

// Result summarizes a game that reached the Average state.
type Result struct {
	Times    [Rounds]float64 // Raw round times; zero means not recorded
	Recorded []float64       // Valid round times in round order
	Rounds   int             // Rounds played
	Average  float64
	TimedOut bool // Whether the last round ended on the running timeout
}

// Snapshot captures the complete game state for rendering and testing.
type Snapshot struct {
	Tick     uint64 // Steps since Reset
	State    State
	Round    int
	Ticks    int
	Delay    int
	Times    [Rounds]float64
	Cheated  bool
	TimedOut bool
	Display  string
}

// StepResult is returned by Game.Step after each simulation tick.
type StepResult struct {
	Snapshot Snapshot
	Finished *Result // Set on the step the average went up
	Aborted  bool    // Set on the step a false start ended the game
}

// Game adapts the Controller to the platform's tick-driven game loop.
type Game struct {
	ctrl     *Controller
	timing   Timing
	config   core.RuntimeConfig
	tick     uint64
	observer func(Transition)

	// Outcome of the current step, filled by the transition observer.
	finished *Result
	aborted  bool
}

// New creates a new game with the given timing.
func New(timing Timing) *Game {
	return &Game{timing: timing}
}

// TimingFromConfig converts configured thresholds to controller timing.
func TimingFromConfig(cfg config.TimingConfig) Timing {
	return Timing{
		ReadyTimeout:   cfg.ReadyTimeout,
		RunningTimeout: cfg.RunningTimeout,
		ResultHold:     cfg.ResultHold,
		AverageHold:    cfg.AverageHold,
		DelayMin:       cfg.DelayMin,
		DelayMax:       cfg.DelayMax,
	}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "reaction"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Reaction Machine"
}

// OnTransition registers a callback for every controller state change.
func (g *Game) OnTransition(fn func(Transition)) {
	g.observer = fn
}

// Reset powers the cabinet on with a fresh random source.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.config = cfg
	g.tick = 0
	g.finished = nil
	g.aborted = false
	g.ctrl = NewController(nil, NewRandom(cfg.Seed),
		WithTiming(g.timing),
		WithObserver(g.observe),
	)
	g.ctrl.Init()
}

// Step applies the frame's coin and button events, in that order, then one tick.
func (g *Game) Step(in core.InputFrame) StepResult {
	g.finished = nil
	g.aborted = false

	if in.Has(core.ActionCoin) {
		g.ctrl.CoinInserted()
	}
	if in.Has(core.ActionGoStop) {
		g.ctrl.GoStopPressed()
	}
	g.ctrl.Tick()
	g.tick++

	return StepResult{
		Snapshot: g.Snapshot(),
		Finished: g.finished,
		Aborted:  g.aborted,
	}
}

// Display returns the text currently on the cabinet display.
func (g *Game) Display() string {
	return g.ctrl.Text()
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	s := g.ctrl.Session()
	return Snapshot{
		Tick:     g.tick,
		State:    s.State,
		Round:    s.Round,
		Ticks:    s.Ticks,
		Delay:    s.RandomDelay,
		Times:    s.Times,
		Cheated:  s.Cheated,
		TimedOut: s.TimedOut,
		Display:  g.ctrl.Text(),
	}
}

func (g *Game) observe(tr Transition) {
	switch {
	case tr.To == StateAverage:
		s := g.ctrl.Session()
		g.finished = &Result{
			Times:    s.Times,
			Recorded: s.Recorded(),
			Rounds:   s.Round,
			Average:  s.Average(),
			TimedOut: s.TimedOut,
		}
	case tr.From == StateWaiting && tr.To == StateIdle:
		g.aborted = true
	}

	if g.observer != nil {
		g.observer(tr)
	}
}
