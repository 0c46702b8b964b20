// Package reaction implements the coin-operated reaction-time game.
//
// The Controller is a six-state machine driven by three events: a coin being
// inserted, the GO/STOP button being pressed, and a fixed-rate timer tick.
// All timing is counted in ticks; the caller is responsible for delivering
// ticks at TicksPerSecond.
package reaction

import (
	"fmt"
	"time"
)

// TicksPerSecond is the nominal tick rate the controller converts from.
const TicksPerSecond = 100.0

// Display texts.
const (
	TextInsertCoin = "Insert coin"
	TextPressGo    = "Press GO!"
	TextWait       = "Wait..."
)

// Timing holds the tick thresholds that drive each state.
type Timing struct {
	ReadyTimeout   int // Ticks in Ready before the credit is dropped
	RunningTimeout int // Ticks in Running before the round times out
	ResultHold     int // Ticks a round result stays up before auto-advance
	AverageHold    int // Ticks the average stays up before returning to Idle
	DelayMin       int // Shortest cue delay, inclusive
	DelayMax       int // Longest cue delay, inclusive
}

// DefaultTiming returns the standard cabinet timing at 100 Hz.
func DefaultTiming() Timing {
	return Timing{
		ReadyTimeout:   1000,
		RunningTimeout: 200,
		ResultHold:     300,
		AverageHold:    500,
		DelayMin:       100,
		DelayMax:       250,
	}
}

// Controller owns the game session and dispatches events to the active state.
// It is not safe for concurrent use; events must be delivered one at a time.
type Controller struct {
	display  Display
	rng      Random
	timing   Timing
	observer func(Transition)
	session  Session
	text     string // Last text sent to the display
}

// Option configures a Controller.
type Option func(*Controller)

// WithTiming overrides the default thresholds.
func WithTiming(t Timing) Option {
	return func(c *Controller) {
		c.timing = t
	}
}

// WithObserver registers a callback invoked after every state change.
func WithObserver(fn func(Transition)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// NewController creates a controller bound to the given collaborators.
// Init must be called before delivering events.
func NewController(display Display, rng Random, opts ...Option) *Controller {
	c := &Controller{
		timing: DefaultTiming(),
	}
	c.Connect(display, rng)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect rebinds the display and random source.
// A nil display discards text; a nil random source is replaced by a time-seeded one.
func (c *Controller) Connect(display Display, rng Random) {
	if display == nil {
		display = DisplayFunc(func(string) {})
	}
	if rng == nil {
		rng = NewRandom(time.Now().UnixNano())
	}
	c.display = display
	c.rng = rng
}

// Init resets the session to power-on values and shows the attract text.
func (c *Controller) Init() {
	c.session.reset()
	c.show(TextInsertCoin)
}

// CoinInserted delivers a coin event to the active state.
func (c *Controller) CoinInserted() {
	switch c.session.State {
	case StateIdle:
		c.idleCoin()
	}
}

// GoStopPressed delivers a button press to the active state.
func (c *Controller) GoStopPressed() {
	switch c.session.State {
	case StateReady:
		c.readyPress()
	case StateWaiting:
		c.waitingPress()
	case StateRunning:
		c.runningPress()
	case StateResult:
		c.resultPress()
	case StateAverage:
		c.averagePress()
	}
}

// Tick delivers one timer interval to the active state.
func (c *Controller) Tick() {
	switch c.session.State {
	case StateReady:
		c.readyTick()
	case StateWaiting:
		c.waitingTick()
	case StateRunning:
		c.runningTick()
	case StateResult:
		c.resultTick()
	case StateAverage:
		c.averageTick()
	}
}

// State returns the active state.
func (c *Controller) State() State {
	return c.session.State
}

// Session returns a copy of the current session.
func (c *Controller) Session() Session {
	return c.session
}

// Text returns the last text sent to the display.
func (c *Controller) Text() string {
	return c.text
}

// transition switches state, updates the display, then notifies the observer.
func (c *Controller) transition(to State, ev Event, text string) {
	from := c.session.State
	c.session.State = to
	c.show(text)
	if c.observer != nil {
		c.observer(Transition{From: from, To: to, Event: ev})
	}
}

func (c *Controller) show(text string) {
	c.text = text
	c.display.SetDisplay(text)
}

// FormatSeconds renders a time the way the cabinet display shows it.
func FormatSeconds(seconds float64) string {
	return fmt.Sprintf("%.2f", seconds)
}

// FormatAverage renders the final score line.
func FormatAverage(avg float64) string {
	return "Average = " + FormatSeconds(avg)
}

// ticksToSeconds converts a tick count to seconds.
func ticksToSeconds(ticks int) float64 {
	return float64(ticks) / TicksPerSecond
}
