package in

import (
	"context"

	workoutdto "pajama/internal/modules/workout/dto"
	workoutin "pajama/internal/modules/workout/port/in"
)

type CLIHandler struct {
	usecase workoutin.Usecase
}

func NewCLIHandler(usecase workoutin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]workoutdto.WorkoutSummary, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Show(ctx context.Context, id string) (workoutdto.WorkoutOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Import(ctx context.Context, path string) (workoutdto.WorkoutOutput, error) {
	return h.usecase.ImportFile(ctx, path)
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) Share(ctx context.Context, id string) (workoutdto.ShareOutput, error) {
	return h.usecase.Share(ctx, id)
}

func (h CLIHandler) Receive(ctx context.Context, code string) (workoutdto.WorkoutOutput, error) {
	return h.usecase.ImportCode(ctx, code)
}

func (h CLIHandler) Hide(ctx context.Context, workoutID, exercise string) error {
	return h.usecase.Hide(ctx, workoutID, exercise)
}

func (h CLIHandler) Unhide(ctx context.Context, workoutID, exercise string) error {
	return h.usecase.Unhide(ctx, workoutID, exercise)
}

func (h CLIHandler) Hidden(ctx context.Context, workoutID string) ([]string, error) {
	return h.usecase.Hidden(ctx, workoutID)
}

// Rename keeps phases and metadata and replaces the title.
func (h CLIHandler) Rename(ctx context.Context, id, title string) (workoutdto.WorkoutOutput, error) {
	current, err := h.usecase.Get(ctx, id)
	if err != nil {
		return workoutdto.WorkoutOutput{}, err
	}
	input := workoutdto.WorkoutInput{
		Title:       title,
		Category:    current.Category,
		Subtitle:    current.Subtitle,
		Description: current.Description,
	}
	for _, p := range current.Phases {
		input.Phases = append(input.Phases, workoutdto.PhaseInput{Name: p.Name, Type: p.Type, Duration: p.Duration, Hint: p.Hint})
	}
	return h.usecase.Update(ctx, id, input)
}
