package in

import (
	"context"

	replicadto "pajama/internal/modules/replica/dto"
	replicain "pajama/internal/modules/replica/port/in"
)

type CLIHandler struct {
	usecase replicain.Usecase
}

func NewCLIHandler(usecase replicain.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Sync(ctx context.Context) replicadto.SyncOutput {
	return h.usecase.Sync(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (replicadto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) SignIn(ctx context.Context, token string) (replicadto.SignInOutput, error) {
	return h.usecase.SignIn(ctx, token)
}

func (h CLIHandler) SignOut(ctx context.Context) error {
	return h.usecase.SignOut(ctx)
}
