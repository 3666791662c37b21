package usecase

import (
	"context"
	"sort"
	"strings"

	"pajama/internal/modules/workout/domain"
	workoutdto "pajama/internal/modules/workout/dto"
	workoutin "pajama/internal/modules/workout/port/in"
	"pajama/internal/modules/workout/service"
)

type Interactor struct {
	svc *service.WorkoutService
}

func NewInteractor(svc *service.WorkoutService) workoutin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]workoutdto.WorkoutSummary, error) {
	listings, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]workoutdto.WorkoutSummary, 0, len(listings))
	for _, l := range listings {
		out = append(out, workoutdto.WorkoutSummary{
			ID:           l.Workout.ID,
			Title:        l.Workout.Title,
			Subtitle:     l.Workout.Subtitle,
			Category:     l.Workout.Category,
			Builtin:      l.Builtin,
			PhaseCount:   len(l.Workout.Phases),
			TotalSeconds: l.Workout.TotalSeconds(),
		})
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (workoutdto.WorkoutOutput, error) {
	listing, err := i.svc.Get(ctx, id)
	if err != nil {
		return workoutdto.WorkoutOutput{}, err
	}
	return toOutput(listing.Workout, listing.Builtin, listing.UpdatedAt), nil
}

func (i *Interactor) Create(ctx context.Context, input workoutdto.WorkoutInput) (workoutdto.WorkoutOutput, error) {
	record, err := i.svc.Create(ctx, fromInput(input))
	if err != nil {
		return workoutdto.WorkoutOutput{}, err
	}
	return toOutput(record.Workout, false, record.UpdatedAt), nil
}

func (i *Interactor) Update(ctx context.Context, id string, input workoutdto.WorkoutInput) (workoutdto.WorkoutOutput, error) {
	record, err := i.svc.Update(ctx, id, fromInput(input))
	if err != nil {
		return workoutdto.WorkoutOutput{}, err
	}
	return toOutput(record.Workout, false, record.UpdatedAt), nil
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	return i.svc.Delete(ctx, id)
}

func (i *Interactor) ImportFile(ctx context.Context, path string) (workoutdto.WorkoutOutput, error) {
	record, err := i.svc.ImportFile(ctx, path)
	if err != nil {
		return workoutdto.WorkoutOutput{}, err
	}
	return toOutput(record.Workout, false, record.UpdatedAt), nil
}

func (i *Interactor) Share(ctx context.Context, id string) (workoutdto.ShareOutput, error) {
	code, err := i.svc.Share(ctx, id)
	if err != nil {
		return workoutdto.ShareOutput{}, err
	}
	return workoutdto.ShareOutput{WorkoutID: id, Code: code}, nil
}

func (i *Interactor) ImportCode(ctx context.Context, code string) (workoutdto.WorkoutOutput, error) {
	record, err := i.svc.ImportCode(ctx, code)
	if err != nil {
		return workoutdto.WorkoutOutput{}, err
	}
	return toOutput(record.Workout, false, record.UpdatedAt), nil
}

func (i *Interactor) Hide(ctx context.Context, workoutID, exercise string) error {
	return i.svc.SetHidden(ctx, workoutID, exercise, true)
}

func (i *Interactor) Unhide(ctx context.Context, workoutID, exercise string) error {
	return i.svc.SetHidden(ctx, workoutID, exercise, false)
}

func (i *Interactor) Hidden(ctx context.Context, workoutID string) ([]string, error) {
	set, err := i.svc.Hidden(ctx)
	if err != nil {
		return nil, err
	}
	prefix := workoutID + ":"
	var names []string
	for key, hidden := range set {
		if hidden && strings.HasPrefix(key, prefix) {
			names = append(names, strings.TrimPrefix(key, prefix))
		}
	}
	sort.Strings(names)
	return names, nil
}

func fromInput(input workoutdto.WorkoutInput) domain.Workout {
	w := domain.Workout{
		Title:       strings.TrimSpace(input.Title),
		Category:    input.Category,
		Subtitle:    input.Subtitle,
		Description: input.Description,
	}
	for _, p := range input.Phases {
		w.Phases = append(w.Phases, domain.Phase{Name: p.Name, Type: domain.PhaseType(p.Type), Duration: p.Duration, Hint: p.Hint})
	}
	return w
}

func toOutput(w domain.Workout, builtin bool, updatedAt int64) workoutdto.WorkoutOutput {
	out := workoutdto.WorkoutOutput{
		ID:          w.ID,
		Title:       w.Title,
		Category:    w.Category,
		Subtitle:    w.Subtitle,
		Description: w.Description,
		Builtin:     builtin,
		UpdatedAt:   updatedAt,
	}
	for _, p := range w.Phases {
		out.Phases = append(out.Phases, workoutdto.PhaseOutput{Name: p.Name, Type: string(p.Type), Duration: p.Duration, Hint: p.Hint})
	}
	return out
}
