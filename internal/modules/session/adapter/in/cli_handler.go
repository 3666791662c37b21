package in

import (
	"context"

	sessiondto "pajama/internal/modules/session/dto"
	sessionin "pajama/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, workoutID string) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{WorkoutID: workoutID})
}

// Complete records the active session. A zero duration uses wall time and
// a negative phasesCompleted counts every phase.
func (h CLIHandler) Complete(ctx context.Context, sessionID string, durationSecs, phasesCompleted int) (sessiondto.CompleteOutput, error) {
	return h.usecase.Complete(ctx, sessiondto.CompleteInput{SessionID: sessionID, DurationSecs: durationSecs, PhasesCompleted: phasesCompleted})
}

func (h CLIHandler) Abandon(ctx context.Context) error {
	return h.usecase.Abandon(ctx)
}

func (h CLIHandler) GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error) {
	return h.usecase.GetActive(ctx)
}
