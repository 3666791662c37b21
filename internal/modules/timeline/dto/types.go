package dto

type PhaseOutput struct {
	Name     string
	Type     string
	Duration int
	Hint     string
	Inserted bool
}

type TimelineOutput struct {
	WorkoutID      string
	Title          string
	Multiplier     float64
	RestMultiplier float64
	Announce       bool
	TotalSeconds   int
	Phases         []PhaseOutput
	Listing        string
}
