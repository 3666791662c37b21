package domain

// State of a Controller.
type State string

const (
	StateCountdown State = "countdown"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateDone      State = "done"
	StateStopped   State = "stopped"
)

// Cue tells the presentation layer what just happened on a tick.
type Cue string

const (
	CueNone       Cue = ""
	CueTick       Cue = "tick"
	CueStart      Cue = "start"
	CueTransition Cue = "transition"
	CueDone       Cue = "done"
)

// upNext is how many following steps a snapshot previews.
const upNext = 3

// Controller is the playback state machine. It holds no timers; the
// caller drives it with one Tick per second.
type Controller struct {
	steps     []Step
	total     int
	index     int
	remaining int
	countdown int
	state     State
	elapsed   int
	skipped   int
}

// NewController starts in the countdown state when countdown is positive.
// An empty timeline is done immediately.
func NewController(steps []Step, countdown int) *Controller {
	c := &Controller{steps: append([]Step(nil), steps...)}
	for _, s := range steps {
		c.total += s.Duration
	}
	switch {
	case len(steps) == 0:
		c.state = StateDone
	case countdown > 0:
		c.state = StateCountdown
		c.countdown = countdown
		c.remaining = steps[0].Duration
	default:
		c.begin()
	}
	return c
}

func (c *Controller) begin() {
	c.state = StateRunning
	c.countdown = 0
	c.enter(0)
}

// enter moves to step i, consuming zero-length steps on the way.
func (c *Controller) enter(i int) bool {
	for i < len(c.steps) && c.steps[i].Duration <= 0 {
		i++
	}
	if i >= len(c.steps) {
		c.index = len(c.steps) - 1
		c.remaining = 0
		c.state = StateDone
		return false
	}
	c.index = i
	c.remaining = c.steps[i].Duration
	return true
}

// Tick advances one second.
func (c *Controller) Tick() Cue {
	switch c.state {
	case StateCountdown:
		c.countdown--
		if c.countdown > 0 {
			if c.countdown <= 3 {
				return CueTick
			}
			return CueNone
		}
		c.begin()
		if c.state == StateDone {
			return CueDone
		}
		return CueTransition
	case StateRunning:
		c.elapsed++
		if c.remaining > 1 {
			c.remaining--
			if c.remaining <= 3 {
				return CueTick
			}
			return CueNone
		}
		return c.advance()
	default:
		return CueNone
	}
}

func (c *Controller) advance() Cue {
	prev := c.steps[c.index]
	if !c.enter(c.index + 1) {
		return CueDone
	}
	if c.steps[c.index].Type != prev.Type {
		return CueTransition
	}
	return CueStart
}

func (c *Controller) Pause() bool {
	if c.state != StateRunning {
		return false
	}
	c.state = StatePaused
	return true
}

func (c *Controller) Resume() bool {
	if c.state != StatePaused {
		return false
	}
	c.state = StateRunning
	return true
}

// Skip ends the countdown, or consumes the rest of the current step. A
// paused controller stays paused on the next step.
func (c *Controller) Skip() Cue {
	switch c.state {
	case StateCountdown:
		c.begin()
		if c.state == StateDone {
			return CueDone
		}
		return CueTransition
	case StateRunning, StatePaused:
		paused := c.state == StatePaused
		c.elapsed += c.remaining
		c.skipped++
		cue := c.advance()
		if paused && c.state == StateRunning {
			c.state = StatePaused
		}
		if cue == CueStart {
			cue = CueTransition
		}
		return cue
	default:
		return CueNone
	}
}

// Stop abandons playback. A finished controller stays done.
func (c *Controller) Stop() {
	if c.state != StateDone {
		c.state = StateStopped
	}
}

// Snapshot is a read-only view for rendering.
type Snapshot struct {
	State        State
	Index        int
	Count        int
	Current      Step
	Next         []Step
	Remaining    int
	Countdown    int
	Elapsed      int
	TotalSeconds int
	Skipped      int
}

// Progress is the fraction of total time already elapsed.
func (s Snapshot) Progress() float64 {
	if s.State == StateDone {
		return 1
	}
	if s.TotalSeconds <= 0 {
		return 0
	}
	p := float64(s.Elapsed) / float64(s.TotalSeconds)
	if p > 1 {
		return 1
	}
	return p
}

func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:        c.state,
		Index:        c.index,
		Count:        len(c.steps),
		Remaining:    c.remaining,
		Countdown:    c.countdown,
		Elapsed:      c.elapsed,
		TotalSeconds: c.total,
		Skipped:      c.skipped,
	}
	if len(c.steps) == 0 {
		return snap
	}
	snap.Current = c.steps[c.index]
	end := min(c.index+1+upNext, len(c.steps))
	if c.index+1 < end {
		snap.Next = append([]Step(nil), c.steps[c.index+1:end]...)
	}
	return snap
}

// Progress reports what to record for this run. A finished run completed
// every step; a stopped one completed the steps before the current one.
func (c *Controller) Progress() Progress {
	completed := c.index
	if c.state == StateDone {
		completed = len(c.steps)
	}
	return Progress{DurationSecs: c.elapsed, PhasesCompleted: completed}
}
