package in

import (
	"context"

	"pajama/internal/modules/settings/dto"
)

type Usecase interface {
	Get(ctx context.Context) (dto.SettingsOutput, error)
	Update(ctx context.Context, patch dto.Patch) (dto.SettingsOutput, error)
	ApplyPreset(ctx context.Context, preset string) (dto.SettingsOutput, error)
	CompleteOnboarding(ctx context.Context) (dto.SettingsOutput, error)
	NeedsOnboarding(ctx context.Context) (bool, error)
	Reset(ctx context.Context) (dto.SettingsOutput, error)
}
