package service

import (
	"context"

	"pajama/internal/modules/settings/domain"
	settingsout "pajama/internal/modules/settings/port/out"
	"pajama/internal/platform/clock"
)

type SettingsService struct {
	clock clock.Clock
	store settingsout.Store
}

func NewSettingsService(clock clock.Clock, store settingsout.Store) *SettingsService {
	return &SettingsService{clock: clock, store: store}
}

// Current returns the stored record or defaults when none exists.
func (s *SettingsService) Current(ctx context.Context) (domain.Settings, bool, error) {
	stored, err := s.store.Load(ctx)
	if err != nil {
		return domain.Settings{}, false, err
	}
	if stored == nil {
		return domain.Defaults(), false, nil
	}
	return *stored, true, nil
}

// Mutate loads, applies fn, clamps, stamps SyncedAt and saves.
func (s *SettingsService) Mutate(ctx context.Context, fn func(domain.Settings) (domain.Settings, error)) (domain.Settings, error) {
	current, _, err := s.Current(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	next, err := fn(current)
	if err != nil {
		return domain.Settings{}, err
	}
	next = next.Clamp()
	next.SyncedAt = clock.EpochMillis(s.clock.Now())
	if err := s.store.Save(ctx, next); err != nil {
		return domain.Settings{}, err
	}
	return next, nil
}
