package usecase

import (
	"context"
	"errors"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	historydto "pajama/internal/modules/history/dto"
	historyin "pajama/internal/modules/history/port/in"
	replicain "pajama/internal/modules/replica/port/in"
	"pajama/internal/modules/session/domain"
	sessiondto "pajama/internal/modules/session/dto"
	sessionin "pajama/internal/modules/session/port/in"
	sessionout "pajama/internal/modules/session/port/out"
	"pajama/internal/modules/session/service"
	timelinein "pajama/internal/modules/timeline/port/in"
	apperrors "pajama/internal/platform/errors"
)

type Interactor struct {
	svc         *service.SessionService
	timeline    timelinein.Usecase
	history     historyin.Usecase
	replica     replicain.Usecase
	activeStore sessionout.ActiveSessionStore
	logger      hclog.Logger
}

// NewInteractor wires the session lifecycle. replica may be nil when sync
// is not configured.
func NewInteractor(
	svc *service.SessionService,
	timeline timelinein.Usecase,
	history historyin.Usecase,
	replica replicain.Usecase,
	activeStore sessionout.ActiveSessionStore,
	logger hclog.Logger,
) sessionin.Usecase {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Interactor{svc: svc, timeline: timeline, history: history, replica: replica, activeStore: activeStore, logger: logger}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	_, err := i.activeStore.LoadActive(ctx)
	if err == nil {
		return sessiondto.StartOutput{}, apperrors.ErrActiveSessionExists
	}
	if !errors.Is(err, apperrors.ErrNoActiveSession) {
		return sessiondto.StartOutput{}, err
	}

	timeline, err := i.timeline.Build(ctx, input.WorkoutID)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	active, err := i.svc.Start(ctx, timeline)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	if err := i.activeStore.SaveActive(ctx, active); err != nil {
		return sessiondto.StartOutput{}, err
	}
	i.logger.Debug("session started", "session", active.SessionID, "workout", active.WorkoutID)
	return sessiondto.StartOutput{
		SessionID:    active.SessionID,
		WorkoutID:    active.WorkoutID,
		Title:        active.Title,
		StartedAt:    active.StartedAt,
		TotalSeconds: active.TotalSeconds(),
		Steps:        toSteps(active.Steps),
	}, nil
}

// Complete records the history entry and clears the active session. The
// follow-up sync is best effort: its outcome is reported, never returned
// as an error.
func (i *Interactor) Complete(ctx context.Context, input sessiondto.CompleteInput) (sessiondto.CompleteOutput, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return sessiondto.CompleteOutput{}, err
	}
	if input.SessionID != "" && input.SessionID != active.SessionID {
		return sessiondto.CompleteOutput{}, fmt.Errorf("%w: session id mismatch", apperrors.ErrInvalidInput)
	}

	progress := domain.Progress{DurationSecs: input.DurationSecs, PhasesCompleted: input.PhasesCompleted}
	if progress.DurationSecs == 0 {
		progress.DurationSecs = i.svc.Elapsed(active)
	}
	if progress.PhasesCompleted < 0 {
		progress.PhasesCompleted = len(active.Steps)
	}
	progress = progress.Clamp(active)

	entry, err := i.history.Record(ctx, historydto.RecordInput{
		WorkoutID:       active.WorkoutID,
		Title:           active.Title,
		DurationSecs:    progress.DurationSecs,
		PhasesCompleted: progress.PhasesCompleted,
		PhasesTotal:     len(active.Steps),
		Multiplier:      active.Multiplier,
	})
	if err != nil {
		return sessiondto.CompleteOutput{}, fmt.Errorf("record history: %w", err)
	}
	if err := i.activeStore.ClearActive(ctx); err != nil {
		return sessiondto.CompleteOutput{}, err
	}

	out := sessiondto.CompleteOutput{
		SessionID:       active.SessionID,
		WorkoutID:       entry.WorkoutID,
		CompletedAt:     entry.CompletedAt,
		DurationSecs:    entry.DurationSecs,
		PhasesCompleted: entry.PhasesCompleted,
		PhasesTotal:     entry.PhasesTotal,
	}
	if i.replica != nil {
		result := i.replica.Sync(ctx)
		out.Synced, out.SyncReason = result.OK, result.Reason
		if !result.OK {
			i.logger.Info("sync after completion skipped", "reason", result.Reason)
		}
	}
	return out, nil
}

func (i *Interactor) Abandon(ctx context.Context) error {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return err
	}
	i.logger.Debug("session abandoned", "session", active.SessionID)
	return i.activeStore.ClearActive(ctx)
}

func (i *Interactor) GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return sessiondto.ActiveSessionOutput{}, err
	}
	return sessiondto.ActiveSessionOutput{
		SessionID:    active.SessionID,
		WorkoutID:    active.WorkoutID,
		Title:        active.Title,
		StartedAt:    active.StartedAt,
		TotalSeconds: active.TotalSeconds(),
		Steps:        toSteps(active.Steps),
	}, nil
}

func toSteps(in []domain.Step) []sessiondto.StepOutput {
	out := make([]sessiondto.StepOutput, 0, len(in))
	for _, s := range in {
		out = append(out, sessiondto.StepOutput{Name: s.Name, Type: s.Type, Duration: s.Duration, Hint: s.Hint})
	}
	return out
}
