package dto

type RecordInput struct {
	WorkoutID       string
	Title           string
	DurationSecs    int
	PhasesCompleted int
	PhasesTotal     int
	Multiplier      float64
}

type EntryOutput struct {
	WorkoutID       string
	Title           string
	CompletedAt     string
	DurationSecs    int
	PhasesCompleted int
	PhasesTotal     int
	Multiplier      float64
}

type StatsOutput struct {
	Total    int
	Streak   int
	ThisWeek int
}
