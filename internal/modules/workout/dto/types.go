package dto

type PhaseInput struct {
	Name     string
	Type     string
	Duration int
	Hint     string
}

type WorkoutInput struct {
	Title       string
	Category    string
	Subtitle    string
	Description string
	Phases      []PhaseInput
}

type PhaseOutput struct {
	Name     string
	Type     string
	Duration int
	Hint     string
}

type WorkoutSummary struct {
	ID           string
	Title        string
	Subtitle     string
	Category     string
	Builtin      bool
	PhaseCount   int
	TotalSeconds int
}

type WorkoutOutput struct {
	ID          string
	Title       string
	Category    string
	Subtitle    string
	Description string
	Builtin     bool
	UpdatedAt   int64
	Phases      []PhaseOutput
}

type ShareOutput struct {
	WorkoutID string
	Code      string
}
