package reaction

import "fmt"

// Rounds is the number of timed attempts in one game.
const Rounds = 3

// Session holds all mutable game state owned by the controller.
type Session struct {
	State       State
	Ticks       int // Ticks since the current state (or sub-phase) was entered
	RandomDelay int // Ticks until the cue fires; meaningful only in Waiting
	Times       [Rounds]float64
	Round       int // 1-based; 0 before the first coin
	Cheated     bool
	TimedOut    bool
}

// reset clears the session to its power-on values.
func (s *Session) reset() {
	*s = Session{State: StateIdle}
}

// newGame prepares the session for a freshly paid game.
func (s *Session) newGame() {
	s.Round = 1
	s.Ticks = 0
	s.Cheated = false
	s.TimedOut = false
	s.RandomDelay = 0
	s.Times = [Rounds]float64{}
}

// record stores the time for the current round.
// A round index outside [1, Rounds] means the transition logic is broken.
func (s *Session) record(seconds float64) {
	if s.Round < 1 || s.Round > Rounds {
		panic(fmt.Sprintf("reaction: round %d out of range [1,%d]", s.Round, Rounds))
	}
	s.Times[s.Round-1] = seconds
}

// Average returns the mean of the recorded rounds so far.
// Rounds at or after the current one, and zero entries, are ignored.
func (s Session) Average() float64 {
	sum := 0.0
	valid := 0
	for i := 0; i < s.Round && i < Rounds; i++ {
		if s.Times[i] > 0 {
			sum += s.Times[i]
			valid++
		}
	}
	if valid == 0 {
		return 0
	}
	return sum / float64(valid)
}

// Recorded returns the valid round times in round order.
func (s Session) Recorded() []float64 {
	out := make([]float64, 0, Rounds)
	for i := 0; i < s.Round && i < Rounds; i++ {
		if s.Times[i] > 0 {
			out = append(out, s.Times[i])
		}
	}
	return out
}
