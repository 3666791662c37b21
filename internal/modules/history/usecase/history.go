package usecase

import (
	"context"

	"pajama/internal/modules/history/domain"
	historydto "pajama/internal/modules/history/dto"
	historyin "pajama/internal/modules/history/port/in"
	"pajama/internal/modules/history/service"
)

type Interactor struct {
	svc *service.HistoryService
}

func NewInteractor(svc *service.HistoryService) historyin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Record(ctx context.Context, input historydto.RecordInput) (historydto.EntryOutput, error) {
	entry, err := i.svc.Record(ctx, domain.Entry{
		WorkoutID:       input.WorkoutID,
		Title:           input.Title,
		DurationSecs:    input.DurationSecs,
		PhasesCompleted: input.PhasesCompleted,
		PhasesTotal:     input.PhasesTotal,
		Multiplier:      input.Multiplier,
	})
	if err != nil {
		return historydto.EntryOutput{}, err
	}
	return toOutput(entry), nil
}

func (i *Interactor) List(ctx context.Context) ([]historydto.EntryOutput, error) {
	entries, err := i.svc.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]historydto.EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, toOutput(e))
	}
	return out, nil
}

func (i *Interactor) Stats(ctx context.Context) (historydto.StatsOutput, error) {
	total, streak, week, err := i.svc.Stats(ctx)
	if err != nil {
		return historydto.StatsOutput{}, err
	}
	return historydto.StatsOutput{Total: total, Streak: streak, ThisWeek: week}, nil
}

func (i *Interactor) Clear(ctx context.Context) error {
	return i.svc.Clear(ctx)
}

func toOutput(e domain.Entry) historydto.EntryOutput {
	return historydto.EntryOutput{
		WorkoutID:       e.WorkoutID,
		Title:           e.Title,
		CompletedAt:     e.CompletedAt,
		DurationSecs:    e.DurationSecs,
		PhasesCompleted: e.PhasesCompleted,
		PhasesTotal:     e.PhasesTotal,
		Multiplier:      e.Multiplier,
	}
}
