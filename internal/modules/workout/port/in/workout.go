package in

import (
	"context"

	"pajama/internal/modules/workout/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.WorkoutSummary, error)
	Get(ctx context.Context, id string) (dto.WorkoutOutput, error)
	Create(ctx context.Context, input dto.WorkoutInput) (dto.WorkoutOutput, error)
	Update(ctx context.Context, id string, input dto.WorkoutInput) (dto.WorkoutOutput, error)
	Delete(ctx context.Context, id string) error
	ImportFile(ctx context.Context, path string) (dto.WorkoutOutput, error)
	Share(ctx context.Context, id string) (dto.ShareOutput, error)
	ImportCode(ctx context.Context, code string) (dto.WorkoutOutput, error)
	Hide(ctx context.Context, workoutID, exercise string) error
	Unhide(ctx context.Context, workoutID, exercise string) error
	Hidden(ctx context.Context, workoutID string) ([]string, error)
}
