package in

import (
	"context"

	timelinedto "pajama/internal/modules/timeline/dto"
	timelinein "pajama/internal/modules/timeline/port/in"
)

type CLIHandler struct {
	usecase timelinein.Usecase
}

func NewCLIHandler(usecase timelinein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context, workoutID string) (timelinedto.TimelineOutput, error) {
	return h.usecase.Build(ctx, workoutID)
}
