package domain

import "time"

// CountdownSecs is the get-ready delay before the first phase runs.
const CountdownSecs = 10

// Step is one playable phase of a built timeline.
type Step struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	Hint     string `json:"hint,omitempty"`
}

// ActiveSession is persisted between Start and Complete so a crash or a
// second terminal can see that a workout is in progress.
type ActiveSession struct {
	SessionID  string    `json:"session_id"`
	WorkoutID  string    `json:"workout_id"`
	Title      string    `json:"title"`
	Multiplier float64   `json:"multiplier"`
	StartedAt  time.Time `json:"started_at"`
	Steps      []Step    `json:"steps"`
}

func (a ActiveSession) TotalSeconds() int {
	total := 0
	for _, s := range a.Steps {
		total += s.Duration
	}
	return total
}

// Progress is what the player reports when a session ends.
type Progress struct {
	DurationSecs    int
	PhasesCompleted int
}

// Clamp bounds progress to what the session could have produced.
func (p Progress) Clamp(active ActiveSession) Progress {
	if p.DurationSecs < 0 {
		p.DurationSecs = 0
	}
	if p.PhasesCompleted < 0 {
		p.PhasesCompleted = 0
	}
	if p.PhasesCompleted > len(active.Steps) {
		p.PhasesCompleted = len(active.Steps)
	}
	return p
}
