package usecase

import (
	"context"

	"pajama/internal/modules/settings/domain"
	settingsdto "pajama/internal/modules/settings/dto"
	settingsin "pajama/internal/modules/settings/port/in"
	"pajama/internal/modules/settings/service"
)

type Interactor struct {
	svc *service.SettingsService
}

func NewInteractor(svc *service.SettingsService) settingsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Get(ctx context.Context) (settingsdto.SettingsOutput, error) {
	s, _, err := i.svc.Current(ctx)
	if err != nil {
		return settingsdto.SettingsOutput{}, err
	}
	return toOutput(s), nil
}

func (i *Interactor) Update(ctx context.Context, patch settingsdto.Patch) (settingsdto.SettingsOutput, error) {
	s, err := i.svc.Mutate(ctx, func(s domain.Settings) (domain.Settings, error) {
		if patch.Multiplier != nil {
			s.Multiplier = *patch.Multiplier
		}
		if patch.RestMultiplier != nil {
			s.RestMultiplier = *patch.RestMultiplier
		}
		if patch.TTS != nil {
			s.TTS = *patch.TTS
		}
		if patch.AnnounceHints != nil {
			s.AnnounceHints = *patch.AnnounceHints
		}
		if patch.WeeklyGoal != nil {
			s.WeeklyGoal = *patch.WeeklyGoal
		}
		if patch.Sound != nil {
			s.Sound = *patch.Sound
		}
		return s, nil
	})
	if err != nil {
		return settingsdto.SettingsOutput{}, err
	}
	return toOutput(s), nil
}

func (i *Interactor) ApplyPreset(ctx context.Context, preset string) (settingsdto.SettingsOutput, error) {
	s, err := i.svc.Mutate(ctx, func(s domain.Settings) (domain.Settings, error) {
		return s.ApplyPreset(domain.ParsePreset(preset))
	})
	if err != nil {
		return settingsdto.SettingsOutput{}, err
	}
	return toOutput(s), nil
}

func (i *Interactor) CompleteOnboarding(ctx context.Context) (settingsdto.SettingsOutput, error) {
	s, err := i.svc.Mutate(ctx, func(s domain.Settings) (domain.Settings, error) {
		s.OnboardingDone = true
		return s, nil
	})
	if err != nil {
		return settingsdto.SettingsOutput{}, err
	}
	return toOutput(s), nil
}

// NeedsOnboarding is true until onboarding has been completed on some
// replica.
func (i *Interactor) NeedsOnboarding(ctx context.Context) (bool, error) {
	s, _, err := i.svc.Current(ctx)
	if err != nil {
		return false, err
	}
	return !s.OnboardingDone, nil
}

// Reset restores defaults but keeps the onboarding flag.
func (i *Interactor) Reset(ctx context.Context) (settingsdto.SettingsOutput, error) {
	s, err := i.svc.Mutate(ctx, func(s domain.Settings) (domain.Settings, error) {
		next := domain.Defaults()
		next.OnboardingDone = s.OnboardingDone
		return next, nil
	})
	if err != nil {
		return settingsdto.SettingsOutput{}, err
	}
	return toOutput(s), nil
}

func toOutput(s domain.Settings) settingsdto.SettingsOutput {
	return settingsdto.SettingsOutput{
		Multiplier:     s.Multiplier,
		RestMultiplier: s.RestMultiplier,
		TTS:            s.TTS,
		AnnounceHints:  s.AnnounceHints,
		WeeklyGoal:     s.WeeklyGoal,
		Sound:          s.Sound,
		OnboardingDone: s.OnboardingDone,
		SyncedAt:       s.SyncedAt,
	}
}
