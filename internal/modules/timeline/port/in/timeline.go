package in

import (
	"context"

	"pajama/internal/modules/timeline/dto"
)

type Usecase interface {
	Build(ctx context.Context, workoutID string) (dto.TimelineOutput, error)
}
