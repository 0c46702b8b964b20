package reaction

import (
	"math/rand"
	"testing"
)

// scriptedRandom returns queued delays in order, then falls back to low.
type scriptedRandom struct {
	values []int
	calls  [][2]int
}

func (r *scriptedRandom) Between(low, high int) int {
	r.calls = append(r.calls, [2]int{low, high})
	if len(r.values) == 0 {
		return low
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v
}

// recordingDisplay keeps every text the controller sent.
type recordingDisplay struct {
	texts []string
}

func (d *recordingDisplay) SetDisplay(text string) {
	d.texts = append(d.texts, text)
}

func (d *recordingDisplay) last() string {
	if len(d.texts) == 0 {
		return ""
	}
	return d.texts[len(d.texts)-1]
}

func newTestController(delays ...int) (*Controller, *scriptedRandom, *recordingDisplay) {
	rng := &scriptedRandom{values: delays}
	disp := &recordingDisplay{}
	c := NewController(disp, rng)
	c.Init()
	return c, rng, disp
}

func tickN(c *Controller, n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

// startRunning takes a fresh controller from Idle to the moment the cue fires.
func startRunning(t *testing.T, c *Controller, delay int) {
	t.Helper()
	c.CoinInserted()
	c.GoStopPressed()
	tickN(c, delay)
	if c.State() != StateRunning {
		t.Fatalf("expected Running after %d ticks, got %v", delay, c.State())
	}
}

// playRound runs one round from Running, pressing after the given ticks.
func playRound(t *testing.T, c *Controller, ticks int) {
	t.Helper()
	tickN(c, ticks)
	c.GoStopPressed()
	if c.State() != StateResult {
		t.Fatalf("expected Result after press, got %v", c.State())
	}
}

func TestInit(t *testing.T) {
	c, _, disp := newTestController()

	if c.State() != StateIdle {
		t.Errorf("State() = %v, expected Idle", c.State())
	}
	if disp.last() != TextInsertCoin {
		t.Errorf("display = %q, expected %q", disp.last(), TextInsertCoin)
	}
	if s := c.Session(); s != (Session{State: StateIdle}) {
		t.Errorf("Init should zero the session, got %+v", s)
	}

	// Init is idempotent, even mid-game.
	c.CoinInserted()
	c.Init()
	c.Init()
	if s := c.Session(); s != (Session{State: StateIdle}) {
		t.Errorf("repeated Init should zero the session, got %+v", s)
	}
}

func TestNoopEventsDoNotTouchSessionOrDisplay(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Controller)
		event func(c *Controller)
	}{
		{"idle press", func(c *Controller) {}, (*Controller).GoStopPressed},
		{"idle tick", func(c *Controller) {}, (*Controller).Tick},
		{"ready coin", func(c *Controller) { c.CoinInserted() }, (*Controller).CoinInserted},
		{"waiting coin", func(c *Controller) {
			c.CoinInserted()
			c.GoStopPressed()
		}, (*Controller).CoinInserted},
		{"running coin", func(c *Controller) {
			c.CoinInserted()
			c.GoStopPressed()
			tickN(c, 120)
		}, (*Controller).CoinInserted},
		{"result coin", func(c *Controller) {
			c.CoinInserted()
			c.GoStopPressed()
			tickN(c, 120)
			c.GoStopPressed()
		}, (*Controller).CoinInserted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _, disp := newTestController(120)
			tc.setup(c)

			transitions := 0
			c.observer = func(Transition) { transitions++ }
			before := c.Session()
			calls := len(disp.texts)

			tc.event(c)

			if after := c.Session(); after != before {
				t.Errorf("session changed: before %+v, after %+v", before, after)
			}
			if len(disp.texts) != calls {
				t.Errorf("display updated on a no-op: %v", disp.texts[calls:])
			}
			if transitions != 0 {
				t.Errorf("observer notified %d times on a no-op", transitions)
			}
		})
	}
}

func TestIdleCoinStartsGame(t *testing.T) {
	c, _, disp := newTestController()

	c.CoinInserted()

	s := c.Session()
	if s.State != StateReady {
		t.Errorf("State = %v, expected Ready", s.State)
	}
	if s.Round != 1 {
		t.Errorf("Round = %d, expected 1", s.Round)
	}
	if s.Cheated || s.TimedOut {
		t.Errorf("flags should be clear, got cheated=%v timedOut=%v", s.Cheated, s.TimedOut)
	}
	if disp.last() != TextPressGo {
		t.Errorf("display = %q, expected %q", disp.last(), TextPressGo)
	}
}

func TestCoinClearsPreviousCheat(t *testing.T) {
	c, _, _ := newTestController(150)
	c.CoinInserted()
	c.GoStopPressed()
	c.GoStopPressed() // false start

	if !c.Session().Cheated {
		t.Fatal("expected Cheated after false start")
	}

	c.CoinInserted()
	s := c.Session()
	if s.Cheated {
		t.Error("coin should clear Cheated")
	}
	if s.Round != 1 || s.Times != [Rounds]float64{} {
		t.Errorf("coin should reset the game, got %+v", s)
	}
}

func TestReadyTimeout(t *testing.T) {
	c, _, disp := newTestController()
	c.CoinInserted()

	tickN(c, 999)
	if c.State() != StateReady {
		t.Fatalf("after 999 ticks State = %v, expected Ready", c.State())
	}
	if disp.last() != TextPressGo {
		t.Errorf("Ready ticks should not update display, got %q", disp.last())
	}

	c.Tick()
	if c.State() != StateIdle {
		t.Fatalf("after 1000 ticks State = %v, expected Idle", c.State())
	}
	if disp.last() != TextInsertCoin {
		t.Errorf("display = %q, expected %q", disp.last(), TextInsertCoin)
	}
}

func TestReadyPressDrawsDelay(t *testing.T) {
	c, rng, disp := newTestController(173)
	c.CoinInserted()
	tickN(c, 40)

	c.GoStopPressed()

	s := c.Session()
	if s.State != StateWaiting {
		t.Fatalf("State = %v, expected Waiting", s.State)
	}
	if s.RandomDelay != 173 {
		t.Errorf("RandomDelay = %d, expected 173", s.RandomDelay)
	}
	if s.Ticks != 0 {
		t.Errorf("Ticks = %d, expected reset to 0", s.Ticks)
	}
	if len(rng.calls) != 1 || rng.calls[0] != [2]int{100, 250} {
		t.Errorf("random calls = %v, expected one call with [100 250]", rng.calls)
	}
	if disp.last() != TextWait {
		t.Errorf("display = %q, expected %q", disp.last(), TextWait)
	}
}

func TestWaitingCueFiresOnExactDelay(t *testing.T) {
	for _, delay := range []int{100, 150, 250} {
		c, _, disp := newTestController(delay)
		c.CoinInserted()
		c.GoStopPressed()
		calls := len(disp.texts)

		tickN(c, delay-1)
		if c.State() != StateWaiting {
			t.Fatalf("delay %d: after %d ticks State = %v, expected Waiting", delay, delay-1, c.State())
		}
		if len(disp.texts) != calls {
			t.Errorf("delay %d: Waiting ticks should not update display", delay)
		}

		c.Tick()
		s := c.Session()
		if s.State != StateRunning {
			t.Fatalf("delay %d: after %d ticks State = %v, expected Running", delay, delay, s.State)
		}
		if s.Ticks != 0 {
			t.Errorf("delay %d: Ticks = %d, expected 0 on cue", delay, s.Ticks)
		}
		if disp.last() != "0.00" {
			t.Errorf("delay %d: display = %q, expected 0.00", delay, disp.last())
		}
	}
}

func TestWaitingFalseStartAbortsGame(t *testing.T) {
	c, _, disp := newTestController(200)
	var seen []State
	c.observer = func(tr Transition) { seen = append(seen, tr.To) }

	c.CoinInserted()
	c.GoStopPressed()
	tickN(c, 50)
	c.GoStopPressed()

	s := c.Session()
	if !s.Cheated {
		t.Error("false start should set Cheated")
	}
	if s.State != StateIdle {
		t.Fatalf("State = %v, expected Idle", s.State)
	}
	if disp.last() != TextInsertCoin {
		t.Errorf("display = %q, expected %q", disp.last(), TextInsertCoin)
	}

	// The game is over; ticking on never reaches Result or Average.
	tickN(c, 2000)
	for _, st := range seen {
		if st == StateResult || st == StateAverage {
			t.Errorf("aborted game reached %v", st)
		}
	}
}

func TestRunningPressRecordsTime(t *testing.T) {
	tests := []struct {
		ticks    int
		expected float64
		display  string
	}{
		{1, 0.01, "0.01"},
		{37, 0.37, "0.37"},
		{100, 1.00, "1.00"},
		{199, 1.99, "1.99"},
	}

	for _, tc := range tests {
		c, _, disp := newTestController(120)
		startRunning(t, c, 120)

		playRound(t, c, tc.ticks)

		s := c.Session()
		if s.Times[0] != tc.expected {
			t.Errorf("%d ticks: Times[0] = %v, expected %v", tc.ticks, s.Times[0], tc.expected)
		}
		if disp.last() != tc.display {
			t.Errorf("%d ticks: display = %q, expected %q", tc.ticks, disp.last(), tc.display)
		}
		if s.TimedOut {
			t.Errorf("%d ticks: TimedOut should be false on a press", tc.ticks)
		}
		if s.Ticks != 0 {
			t.Errorf("%d ticks: Ticks = %d, expected 0", tc.ticks, s.Ticks)
		}
	}
}

func TestRunningShowsLiveReadout(t *testing.T) {
	c, _, disp := newTestController(100)
	startRunning(t, c, 100)
	calls := len(disp.texts)

	tickN(c, 3)

	got := disp.texts[calls:]
	expected := []string{"0.01", "0.02", "0.03"}
	if len(got) != len(expected) {
		t.Fatalf("display calls = %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("readout[%d] = %q, expected %q", i, got[i], expected[i])
		}
	}
}

func TestRunningTimeout(t *testing.T) {
	c, _, disp := newTestController(100)
	startRunning(t, c, 100)

	tickN(c, 199)
	if c.State() != StateRunning {
		t.Fatalf("after 199 ticks State = %v, expected Running", c.State())
	}

	c.Tick()
	s := c.Session()
	if s.State != StateResult {
		t.Fatalf("after 200 ticks State = %v, expected Result", s.State)
	}
	if s.Times[0] != 2.0 {
		t.Errorf("Times[0] = %v, expected 2.00", s.Times[0])
	}
	if !s.TimedOut {
		t.Error("TimedOut should be set")
	}
	if disp.last() != "2.00" {
		t.Errorf("display = %q, expected 2.00", disp.last())
	}
}

func TestResultManualAdvance(t *testing.T) {
	c, rng, disp := newTestController(150, 110)
	startRunning(t, c, 150)
	playRound(t, c, 25)
	tickN(c, 40)

	c.GoStopPressed()

	s := c.Session()
	if s.State != StateWaiting {
		t.Fatalf("State = %v, expected Waiting", s.State)
	}
	if s.Round != 2 {
		t.Errorf("Round = %d, expected 2", s.Round)
	}
	if s.RandomDelay != 110 {
		t.Errorf("RandomDelay = %d, expected fresh draw 110", s.RandomDelay)
	}
	if s.Ticks != 0 {
		t.Errorf("Ticks = %d, expected 0", s.Ticks)
	}
	if len(rng.calls) != 2 {
		t.Errorf("expected 2 random draws, got %d", len(rng.calls))
	}
	if disp.last() != TextWait {
		t.Errorf("display = %q, expected %q", disp.last(), TextWait)
	}
}

func TestResultManualAdvanceIgnoresTimeout(t *testing.T) {
	// The manual path only checks round and cheat, so a timed-out round 1
	// still continues to round 2 when the player presses.
	c, _, _ := newTestController(100, 100)
	startRunning(t, c, 100)
	tickN(c, 200)
	if !c.Session().TimedOut {
		t.Fatal("expected timeout")
	}

	c.GoStopPressed()
	if c.State() != StateWaiting {
		t.Errorf("State = %v, expected Waiting", c.State())
	}
	if c.Session().Round != 2 {
		t.Errorf("Round = %d, expected 2", c.Session().Round)
	}
}

func TestThreeRoundsShowAverage(t *testing.T) {
	c, _, disp := newTestController(100, 130, 160)
	startRunning(t, c, 100)
	playRound(t, c, 37)

	c.GoStopPressed()
	tickN(c, 130)
	playRound(t, c, 25)

	c.GoStopPressed()
	tickN(c, 160)
	playRound(t, c, 31)

	if c.Session().Round != 3 {
		t.Fatalf("Round = %d, expected 3", c.Session().Round)
	}

	c.GoStopPressed()

	if c.State() != StateAverage {
		t.Fatalf("State = %v, expected Average", c.State())
	}
	if disp.last() != "Average = 0.31" {
		t.Errorf("display = %q, expected %q", disp.last(), "Average = 0.31")
	}
	if c.Session().Ticks != 0 {
		t.Errorf("Ticks = %d, expected 0 on Average entry", c.Session().Ticks)
	}
}

func TestResultAutoAdvance(t *testing.T) {
	c, _, disp := newTestController(100, 140)
	startRunning(t, c, 100)
	playRound(t, c, 50)

	tickN(c, 299)
	if c.State() != StateResult {
		t.Fatalf("after 299 ticks State = %v, expected Result", c.State())
	}

	c.Tick()
	s := c.Session()
	if s.State != StateWaiting {
		t.Fatalf("after 300 ticks State = %v, expected Waiting", s.State)
	}
	if s.Round != 2 || s.RandomDelay != 140 || s.Ticks != 0 {
		t.Errorf("unexpected session after auto-advance: %+v", s)
	}
	if disp.last() != TextWait {
		t.Errorf("display = %q, expected %q", disp.last(), TextWait)
	}
}

func TestResultAutoAdvanceFinishesAfterTimeout(t *testing.T) {
	c, _, disp := newTestController(100)
	startRunning(t, c, 100)
	tickN(c, 200) // timeout in round 1

	tickN(c, 300)

	if c.State() != StateAverage {
		t.Fatalf("State = %v, expected Average", c.State())
	}
	if c.Session().Round != 1 {
		t.Errorf("Round = %d, expected 1", c.Session().Round)
	}
	if disp.last() != "Average = 2.00" {
		t.Errorf("display = %q, expected %q", disp.last(), "Average = 2.00")
	}
}

func TestResultAutoAdvanceFinishesAfterThirdRound(t *testing.T) {
	c, _, disp := newTestController(100, 100, 100)
	startRunning(t, c, 100)
	for round := 1; round <= 3; round++ {
		playRound(t, c, 20*round)
		tickN(c, 300)
		if round < 3 {
			tickN(c, 100)
		}
	}

	if c.State() != StateAverage {
		t.Fatalf("State = %v, expected Average", c.State())
	}
	if disp.last() != "Average = 0.40" {
		t.Errorf("display = %q, expected %q", disp.last(), "Average = 0.40")
	}
}

func TestAverageAutoDismiss(t *testing.T) {
	c, _, disp := newTestController(100)
	startRunning(t, c, 100)
	tickN(c, 200)
	tickN(c, 300)
	if c.State() != StateAverage {
		t.Fatalf("State = %v, expected Average", c.State())
	}

	tickN(c, 499)
	if c.State() != StateAverage {
		t.Fatalf("after 499 ticks State = %v, expected Average", c.State())
	}

	c.Tick()
	if c.State() != StateIdle {
		t.Fatalf("after 500 ticks State = %v, expected Idle", c.State())
	}
	if disp.last() != TextInsertCoin {
		t.Errorf("display = %q, expected %q", disp.last(), TextInsertCoin)
	}
}

func TestAveragePressDismiss(t *testing.T) {
	c, _, disp := newTestController(100)
	startRunning(t, c, 100)
	tickN(c, 200)
	tickN(c, 300)
	tickN(c, 120)
	c.GoStopPressed()

	if c.State() != StateIdle {
		t.Fatalf("State = %v, expected Idle", c.State())
	}
	if disp.last() != TextInsertCoin {
		t.Errorf("display = %q, expected %q", disp.last(), TextInsertCoin)
	}
}

func TestAverageSkipsZeroTimes(t *testing.T) {
	c, _, disp := newTestController(100, 100)
	startRunning(t, c, 100)
	c.GoStopPressed() // pressed on the cue tick: 0.00, not counted

	if got := c.Session().Times[0]; got != 0 {
		t.Fatalf("Times[0] = %v, expected 0", got)
	}

	c.GoStopPressed()
	tickN(c, 100)
	playRound(t, c, 44)
	tickN(c, 300)
	tickN(c, 100)
	tickN(c, 200) // round 3 times out at 2.00
	tickN(c, 300)

	if c.State() != StateAverage {
		t.Fatalf("State = %v, expected Average", c.State())
	}
	// Mean of 0.44 and 2.00; the zero from round 1 is ignored.
	if disp.last() != "Average = 1.22" {
		t.Errorf("display = %q, expected %q", disp.last(), "Average = 1.22")
	}
}

func TestEndToEndScenario(t *testing.T) {
	c, _, disp := newTestController(150, 180)

	c.CoinInserted()
	c.GoStopPressed()
	tickN(c, 150)

	s := c.Session()
	if s.State != StateRunning || s.Ticks != 0 {
		t.Fatalf("expected Running with 0 ticks, got %v/%d", s.State, s.Ticks)
	}

	tickN(c, 37)
	c.GoStopPressed()

	s = c.Session()
	if s.Times[0] != 0.37 {
		t.Errorf("Times[0] = %v, expected 0.37", s.Times[0])
	}
	if s.State != StateResult {
		t.Fatalf("State = %v, expected Result", s.State)
	}
	if disp.last() != "0.37" {
		t.Errorf("display = %q, expected 0.37", disp.last())
	}

	c.GoStopPressed()
	s = c.Session()
	if s.State != StateWaiting || s.Round != 2 {
		t.Errorf("expected Waiting in round 2, got %v round %d", s.State, s.Round)
	}
}

func TestRandomEventSequencesStayValid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := NewController(&recordingDisplay{}, NewRandom(99))
	c.Init()

	events := []func(){c.CoinInserted, c.GoStopPressed, c.Tick}
	for i := 0; i < 200000; i++ {
		// Ticks dominate, as they do on a real cabinet.
		n := rng.Intn(100)
		switch {
		case n < 2:
			events[0]()
		case n < 5:
			events[1]()
		default:
			events[2]()
		}

		s := c.Session()
		if s.State < StateIdle || s.State > StateAverage {
			t.Fatalf("step %d: invalid state %d", i, s.State)
		}
		if s.Round < 0 || s.Round > Rounds {
			t.Fatalf("step %d: round %d out of range", i, s.Round)
		}
		if s.Ticks < 0 {
			t.Fatalf("step %d: negative ticks", i)
		}
	}
}

func TestRecordPanicsOutsideRounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("record with round 4 should panic")
		}
	}()

	s := Session{Round: Rounds + 1}
	s.record(0.5)
}

func TestSessionAverage(t *testing.T) {
	tests := []struct {
		name     string
		session  Session
		expected float64
	}{
		{"no rounds", Session{}, 0},
		{"only current round recorded", Session{Round: 1, Times: [Rounds]float64{0.5}}, 0.5},
		{"ignores rounds beyond current", Session{Round: 1, Times: [Rounds]float64{0.5, 0.9, 0.9}}, 0.5},
		{"ignores zeros", Session{Round: 3, Times: [Rounds]float64{0, 0.4, 0.6}}, 0.5},
		{"all zero", Session{Round: 2}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.session.Average(); got != tc.expected {
				t.Errorf("Average() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestSessionRecorded(t *testing.T) {
	tests := []struct {
		name     string
		session  Session
		expected []float64
	}{
		{"no rounds", Session{}, []float64{}},
		{"skips zero and future rounds", Session{Round: 2, Times: [Rounds]float64{0, 0.4, 0.9}}, []float64{0.4}},
		{"all rounds", Session{Round: 3, Times: [Rounds]float64{0.3, 0.4, 0.5}}, []float64{0.3, 0.4, 0.5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.session.Recorded()
			if len(got) != len(tc.expected) {
				t.Fatalf("Recorded() = %v, expected %v", got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("Recorded()[%d] = %v, expected %v", i, got[i], tc.expected[i])
				}
			}
		})
	}
}

func TestNilRandomGetsDefaultSource(t *testing.T) {
	c := NewController(nil, nil)
	c.Init()
	c.CoinInserted()
	c.GoStopPressed()

	if c.State() != StateWaiting {
		t.Fatalf("State = %v, expected Waiting", c.State())
	}
	timing := DefaultTiming()
	if d := c.Session().RandomDelay; d < timing.DelayMin || d > timing.DelayMax {
		t.Errorf("RandomDelay = %d, outside [%d, %d]", d, timing.DelayMin, timing.DelayMax)
	}
}

func TestSeededRandomRange(t *testing.T) {
	r := NewRandom(42)
	sawLow, sawHigh := false, false

	for i := 0; i < 20000; i++ {
		v := r.Between(100, 250)
		if v < 100 || v > 250 {
			t.Fatalf("Between(100, 250) = %d, out of range", v)
		}
		sawLow = sawLow || v == 100
		sawHigh = sawHigh || v == 250
	}
	if !sawLow || !sawHigh {
		t.Errorf("expected both ends to be drawn, low=%v high=%v", sawLow, sawHigh)
	}

	if v := r.Between(5, 5); v != 5 {
		t.Errorf("Between(5, 5) = %d, expected 5", v)
	}
}

func TestCustomTiming(t *testing.T) {
	timing := DefaultTiming()
	timing.ReadyTimeout = 10
	rng := &scriptedRandom{}
	c := NewController(nil, rng, WithTiming(timing))
	c.Init()
	c.CoinInserted()

	tickN(c, 10)
	if c.State() != StateIdle {
		t.Errorf("State = %v, expected Idle after custom ready timeout", c.State())
	}
	if c.Text() != TextInsertCoin {
		t.Errorf("Text() = %q, expected %q", c.Text(), TextInsertCoin)
	}
}

func TestStateString(t *testing.T) {
	names := map[State]string{
		StateIdle:    "Idle",
		StateReady:   "Ready",
		StateWaiting: "Waiting",
		StateRunning: "Running",
		StateResult:  "Result",
		StateAverage: "Average",
		State(42):    "Unknown",
	}
	for st, want := range names {
		if got := st.String(); got != want {
			t.Errorf("State(%d).String() = %q, expected %q", st, got, want)
		}
	}
}
