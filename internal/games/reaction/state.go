package reaction

// State identifies which phase of the game the controller is in.
type State int

const (
	StateIdle    State = iota // No game in progress, waiting for a coin
	StateReady                // Coin accepted, waiting for the first press
	StateWaiting              // Cue scheduled, pressing now is a false start
	StateRunning              // Cue fired, timing the player
	StateResult               // Round time on display
	StateAverage              // Final average on display
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateReady:
		return "Ready"
	case StateWaiting:
		return "Waiting"
	case StateRunning:
		return "Running"
	case StateResult:
		return "Result"
	case StateAverage:
		return "Average"
	default:
		return "Unknown"
	}
}

// Event is one of the three stimuli the controller reacts to.
type Event int

const (
	EventCoin Event = iota
	EventGoStop
	EventTick
)

// String returns a human-readable name for the event.
func (e Event) String() string {
	switch e {
	case EventCoin:
		return "Coin"
	case EventGoStop:
		return "GoStop"
	case EventTick:
		return "Tick"
	default:
		return "Unknown"
	}
}

// Transition describes a completed state change.
type Transition struct {
	From  State
	To    State
	Event Event
}
