package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	replicadto "pajama/internal/modules/replica/dto"
	replicain "pajama/internal/modules/replica/port/in"
	replicaout "pajama/internal/modules/replica/port/out"
	"pajama/internal/modules/replica/service"
	"pajama/internal/platform/clock"
	apperrors "pajama/internal/platform/errors"
)

type Interactor struct {
	syncer *service.Syncer
	creds  replicaout.CredentialStore
	parser replicaout.TokenParser
	clock  clock.Clock
}

func NewInteractor(syncer *service.Syncer, creds replicaout.CredentialStore, parser replicaout.TokenParser, clock clock.Clock) replicain.Usecase {
	return &Interactor{syncer: syncer, creds: creds, parser: parser, clock: clock}
}

// Sync never returns an error; failures are reported in the output.
func (i *Interactor) Sync(ctx context.Context) replicadto.SyncOutput {
	result := i.syncer.Sync(ctx)
	return replicadto.SyncOutput{
		OK:       result.OK,
		Reason:   string(result.Reason),
		Entries:  result.Counts.Entries,
		Workouts: result.Counts.Workouts,
		Settings: result.Counts.Settings,
	}
}

func (i *Interactor) Status(ctx context.Context) (replicadto.StatusOutput, error) {
	out := replicadto.StatusOutput{}
	credential, found, err := i.creds.Load(ctx)
	if err != nil {
		return out, err
	}
	if found && credential.Token != "" {
		out.SignedIn = true
		out.Subject = credential.Subject
		out.ExpiresAt = credential.ExpiresAt
		out.Expired = service.Expired(credential, i.clock.Now())
	}
	state, err := i.syncer.State(ctx)
	if err != nil {
		return out, err
	}
	if state.LastSyncedAt > 0 {
		out.LastSyncedAt = time.UnixMilli(state.LastSyncedAt).UTC()
	}
	out.LastOK = state.LastOK
	out.LastReason = state.LastReason
	return out, nil
}

// SignIn stores a bearer token after reading its claims. Tokens that are
// already expired are refused.
func (i *Interactor) SignIn(ctx context.Context, token string) (replicadto.SignInOutput, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return replicadto.SignInOutput{}, fmt.Errorf("%w: token is required", apperrors.ErrInvalidInput)
	}
	credential, err := i.parser.Parse(token)
	if err != nil {
		return replicadto.SignInOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if service.Expired(credential, i.clock.Now()) {
		return replicadto.SignInOutput{}, apperrors.ErrAuthExpired
	}
	if err := i.creds.Save(ctx, credential); err != nil {
		return replicadto.SignInOutput{}, err
	}
	return replicadto.SignInOutput{Subject: credential.Subject, ExpiresAt: credential.ExpiresAt}, nil
}

func (i *Interactor) SignOut(ctx context.Context) error {
	return i.creds.Clear(ctx)
}
