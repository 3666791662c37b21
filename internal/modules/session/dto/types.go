package dto

import "time"

type StartInput struct {
	WorkoutID string
}

type StepOutput struct {
	Name     string
	Type     string
	Duration int
	Hint     string
}

type StartOutput struct {
	SessionID    string
	WorkoutID    string
	Title        string
	StartedAt    time.Time
	TotalSeconds int
	Steps        []StepOutput
}

// CompleteInput carries player progress. A zero DurationSecs falls back
// to wall time since start; a negative PhasesCompleted means all.
type CompleteInput struct {
	SessionID       string
	DurationSecs    int
	PhasesCompleted int
}

type CompleteOutput struct {
	SessionID       string
	WorkoutID       string
	CompletedAt     string
	DurationSecs    int
	PhasesCompleted int
	PhasesTotal     int
	Synced          bool
	SyncReason      string
}

type ActiveSessionOutput struct {
	SessionID    string
	WorkoutID    string
	Title        string
	StartedAt    time.Time
	TotalSeconds int
	Steps        []StepOutput
}
