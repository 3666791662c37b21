package service

import (
	"context"
	"fmt"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"pajama/internal/modules/history/domain"
	historyout "pajama/internal/modules/history/port/out"
	"pajama/internal/platform/clock"
	apperrors "pajama/internal/platform/errors"
)

type HistoryService struct {
	clock  clock.Clock
	store  historyout.EnvelopeStore
	logger hclog.Logger
}

func NewHistoryService(clock clock.Clock, store historyout.EnvelopeStore, logger hclog.Logger) *HistoryService {
	return &HistoryService{clock: clock, store: store, logger: logger.Named("history")}
}

// Record appends a completed session stamped with the current time. A
// failed write is logged and the entry is still returned.
func (s *HistoryService) Record(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	if strings.TrimSpace(entry.WorkoutID) == "" {
		return domain.Entry{}, fmt.Errorf("%w: workout id is required", apperrors.ErrInvalidInput)
	}
	if entry.DurationSecs < 0 || entry.PhasesCompleted < 0 || entry.PhasesTotal < 0 {
		return domain.Entry{}, fmt.Errorf("%w: counters must be non-negative", apperrors.ErrInvalidInput)
	}
	if entry.Title == "" {
		entry.Title = domain.DefaultTitle
	}
	if entry.Multiplier <= 0 {
		entry.Multiplier = 1
	}
	entry.CompletedAt = clock.ISO(s.clock.Now())

	env, err := s.store.Load(ctx)
	if err != nil {
		return domain.Entry{}, err
	}
	env.Entries = append(env.Entries, entry)
	env.Version = domain.CurrentSchemaVersion
	if err := s.store.Save(ctx, env); err != nil {
		s.logger.Warn("history write failed; entry kept in memory only", "completed_at", entry.CompletedAt, "error", err)
	}
	return entry, nil
}

func (s *HistoryService) All(ctx context.Context) ([]domain.Entry, error) {
	env, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SortNewestFirst(env.Entries), nil
}

// Stats evaluates streaks in the local time zone.
func (s *HistoryService) Stats(ctx context.Context) (total, streak, thisWeek int, err error) {
	env, err := s.store.Load(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	now := s.clock.Now().Local()
	return len(env.Entries), domain.Streak(env.Entries, now), domain.CountSince(env.Entries, domain.WeekStart(now)), nil
}

func (s *HistoryService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
