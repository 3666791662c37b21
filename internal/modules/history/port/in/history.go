package in

import (
	"context"

	"pajama/internal/modules/history/dto"
)

type Usecase interface {
	Record(ctx context.Context, input dto.RecordInput) (dto.EntryOutput, error)
	List(ctx context.Context) ([]dto.EntryOutput, error)
	Stats(ctx context.Context) (dto.StatsOutput, error)
	Clear(ctx context.Context) error
}
