package usecase

import (
	"context"

	settingsin "pajama/internal/modules/settings/port/in"
	"pajama/internal/modules/timeline/domain"
	timelinedto "pajama/internal/modules/timeline/dto"
	timelinein "pajama/internal/modules/timeline/port/in"
	workoutdomain "pajama/internal/modules/workout/domain"
	workoutin "pajama/internal/modules/workout/port/in"
)

type Interactor struct {
	workouts workoutin.Usecase
	settings settingsin.Usecase
}

func NewInteractor(workouts workoutin.Usecase, settings settingsin.Usecase) timelinein.Usecase {
	return &Interactor{workouts: workouts, settings: settings}
}

// Build resolves the workout, drops hidden exercises and applies the
// current pacing settings.
func (i *Interactor) Build(ctx context.Context, workoutID string) (timelinedto.TimelineOutput, error) {
	workout, err := i.workouts.Get(ctx, workoutID)
	if err != nil {
		return timelinedto.TimelineOutput{}, err
	}
	names, err := i.workouts.Hidden(ctx, workout.ID)
	if err != nil {
		return timelinedto.TimelineOutput{}, err
	}
	prefs, err := i.settings.Get(ctx)
	if err != nil {
		return timelinedto.TimelineOutput{}, err
	}

	hidden := workoutdomain.HiddenSet{}
	for _, name := range names {
		hidden[workoutdomain.HiddenKey(workout.ID, name)] = true
	}
	raw := make([]workoutdomain.Phase, 0, len(workout.Phases))
	for _, p := range workout.Phases {
		raw = append(raw, workoutdomain.Phase{Name: p.Name, Type: workoutdomain.PhaseType(p.Type), Duration: p.Duration, Hint: p.Hint})
	}
	phases := domain.BuildPhases(domain.FilterHidden(workout.ID, raw, hidden), prefs.Multiplier, prefs.RestMultiplier, prefs.AnnounceHints)
	total, _ := domain.Summary(phases)

	out := timelinedto.TimelineOutput{
		WorkoutID:      workout.ID,
		Title:          workout.Title,
		Multiplier:     prefs.Multiplier,
		RestMultiplier: prefs.RestMultiplier,
		Announce:       prefs.AnnounceHints,
		TotalSeconds:   total,
		Phases:         make([]timelinedto.PhaseOutput, 0, len(phases)),
		Listing:        domain.Describe(phases),
	}
	for _, p := range phases {
		out.Phases = append(out.Phases, timelinedto.PhaseOutput{Name: p.Name, Type: string(p.Type), Duration: p.Duration, Hint: p.Hint, Inserted: p.Inserted})
	}
	return out, nil
}
