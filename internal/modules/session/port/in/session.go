package in

import (
	"context"

	"pajama/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Complete(ctx context.Context, input dto.CompleteInput) (dto.CompleteOutput, error)
	Abandon(ctx context.Context) error
	GetActive(ctx context.Context) (dto.ActiveSessionOutput, error)
}
