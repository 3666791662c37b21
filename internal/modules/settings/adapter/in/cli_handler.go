package in

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	settingsdto "pajama/internal/modules/settings/dto"
	settingsin "pajama/internal/modules/settings/port/in"
)

type CLIHandler struct {
	usecase settingsin.Usecase
}

func NewCLIHandler(usecase settingsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (settingsdto.SettingsOutput, error) {
	return h.usecase.Get(ctx)
}

func (h CLIHandler) Preset(ctx context.Context, name string) (settingsdto.SettingsOutput, error) {
	return h.usecase.ApplyPreset(ctx, name)
}

func (h CLIHandler) Onboard(ctx context.Context) (settingsdto.SettingsOutput, error) {
	return h.usecase.CompleteOnboarding(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) (settingsdto.SettingsOutput, error) {
	return h.usecase.Reset(ctx)
}

// Set parses a single key=value style update.
func (h CLIHandler) Set(ctx context.Context, key, value string) (settingsdto.SettingsOutput, error) {
	var patch settingsdto.Patch
	switch strings.ToLower(key) {
	case "multiplier", "pace":
		f, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64)
		if err != nil {
			return settingsdto.SettingsOutput{}, fmt.Errorf("parse %s: %w", key, err)
		}
		patch.Multiplier = &f
	case "rest-multiplier", "rest":
		f, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64)
		if err != nil {
			return settingsdto.SettingsOutput{}, fmt.Errorf("parse %s: %w", key, err)
		}
		patch.RestMultiplier = &f
	case "weekly-goal", "goal":
		n, err := strconv.Atoi(value)
		if err != nil {
			return settingsdto.SettingsOutput{}, fmt.Errorf("parse %s: %w", key, err)
		}
		patch.WeeklyGoal = &n
	case "tts", "announce-hints", "sound":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return settingsdto.SettingsOutput{}, fmt.Errorf("parse %s: %w", key, err)
		}
		switch strings.ToLower(key) {
		case "tts":
			patch.TTS = &b
		case "announce-hints":
			patch.AnnounceHints = &b
		default:
			patch.Sound = &b
		}
	default:
		return settingsdto.SettingsOutput{}, fmt.Errorf("unknown setting %q", key)
	}
	return h.usecase.Update(ctx, patch)
}
