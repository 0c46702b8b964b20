package reaction

// Idle

func (c *Controller) idleCoin() {
	c.session.newGame()
	c.transition(StateReady, EventCoin, TextPressGo)
}

// Ready

func (c *Controller) readyPress() {
	c.enterWaiting(EventGoStop)
}

func (c *Controller) readyTick() {
	c.session.Ticks++
	if c.session.Ticks >= c.timing.ReadyTimeout {
		c.enterIdle(EventTick)
	}
}

// Waiting

func (c *Controller) waitingPress() {
	// False start aborts the whole game.
	c.session.Cheated = true
	c.enterIdle(EventGoStop)
}

func (c *Controller) waitingTick() {
	c.session.Ticks++
	if c.session.Ticks == c.session.RandomDelay {
		c.session.Ticks = 0
		c.transition(StateRunning, EventTick, FormatSeconds(0))
	}
}

// Running

func (c *Controller) runningPress() {
	c.finishRound(EventGoStop, false)
}

func (c *Controller) runningTick() {
	c.session.Ticks++
	c.show(FormatSeconds(ticksToSeconds(c.session.Ticks)))
	if c.session.Ticks >= c.timing.RunningTimeout {
		c.finishRound(EventTick, true)
	}
}

// finishRound records the current tick count as the round time and shows it.
func (c *Controller) finishRound(ev Event, timedOut bool) {
	seconds := ticksToSeconds(c.session.Ticks)
	c.session.record(seconds)
	c.session.Ticks = 0
	c.session.TimedOut = timedOut
	c.transition(StateResult, ev, FormatSeconds(seconds))
}

// Result

func (c *Controller) resultPress() {
	c.session.Ticks = 0
	if c.session.Round < Rounds && !c.session.Cheated {
		c.session.Round++
		c.enterWaiting(EventGoStop)
		return
	}
	c.enterAverage(EventGoStop)
}

func (c *Controller) resultTick() {
	c.session.Ticks++
	if c.session.Ticks < c.timing.ResultHold {
		return
	}
	if c.session.TimedOut || c.session.Cheated || c.session.Round >= Rounds {
		c.enterAverage(EventTick)
		return
	}
	c.session.Round++
	c.enterWaiting(EventTick)
}

// Average

func (c *Controller) averagePress() {
	c.enterIdle(EventGoStop)
}

func (c *Controller) averageTick() {
	c.session.Ticks++
	if c.session.Ticks >= c.timing.AverageHold {
		c.enterIdle(EventTick)
	}
}

// State entry helpers.

// enterIdle leaves the rest of the session untouched; the next coin clears it.
func (c *Controller) enterIdle(ev Event) {
	c.session.Ticks = 0
	c.transition(StateIdle, ev, TextInsertCoin)
}

func (c *Controller) enterWaiting(ev Event) {
	c.session.RandomDelay = c.rng.Between(c.timing.DelayMin, c.timing.DelayMax)
	c.session.Ticks = 0
	c.transition(StateWaiting, ev, TextWait)
}

func (c *Controller) enterAverage(ev Event) {
	c.session.Ticks = 0
	c.transition(StateAverage, ev, FormatAverage(c.session.Average()))
}
