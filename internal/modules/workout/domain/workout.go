package domain

import (
	"fmt"
	"strings"

	apperrors "pajama/internal/platform/errors"
)

type PhaseType string

const (
	PhaseWork    PhaseType = "work"
	PhaseRest    PhaseType = "rest"
	PhaseStretch PhaseType = "stretch"
	PhaseYoga    PhaseType = "yoga"
)

func (t PhaseType) Valid() bool {
	switch t {
	case PhaseWork, PhaseRest, PhaseStretch, PhaseYoga:
		return true
	default:
		return false
	}
}

// Phase is one timed segment of a workout definition.
type Phase struct {
	Name     string    `json:"name" yaml:"name"`
	Type     PhaseType `json:"type" yaml:"type"`
	Duration int       `json:"duration" yaml:"duration"`
	Hint     string    `json:"hint" yaml:"hint"`
}

// Workout is the content of a definition, shared by built-in and
// user-authored workouts.
type Workout struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Category    string  `json:"category,omitempty" yaml:"category"`
	Subtitle    string  `json:"subtitle,omitempty" yaml:"subtitle"`
	Description string  `json:"description,omitempty" yaml:"description"`
	Phases      []Phase `json:"phases" yaml:"phases"`
}

// Validate enforces the phase contract at the input boundary.
func (w Workout) Validate() error {
	if strings.TrimSpace(w.Title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if len(w.Phases) == 0 {
		return fmt.Errorf("%w: at least one phase is required", apperrors.ErrInvalidInput)
	}
	for i, p := range w.Phases {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: phase %d has no name", apperrors.ErrInvalidInput, i+1)
		}
		if !p.Type.Valid() {
			return fmt.Errorf("%w: phase %q has unknown type %q", apperrors.ErrInvalidInput, p.Name, p.Type)
		}
		if p.Duration <= 0 {
			return fmt.Errorf("%w: phase %q needs a positive duration", apperrors.ErrInvalidInput, p.Name)
		}
	}
	return nil
}

// TotalSeconds sums raw phase durations.
func (w Workout) TotalSeconds() int {
	total := 0
	for _, p := range w.Phases {
		total += p.Duration
	}
	return total
}
