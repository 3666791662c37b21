package in

import (
	"context"

	"pajama/internal/modules/replica/dto"
)

type Usecase interface {
	Sync(ctx context.Context) dto.SyncOutput
	Status(ctx context.Context) (dto.StatusOutput, error)
	SignIn(ctx context.Context, token string) (dto.SignInOutput, error)
	SignOut(ctx context.Context) error
}
