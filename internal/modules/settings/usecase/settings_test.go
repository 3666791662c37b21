package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	settingsout "pajama/internal/modules/settings/adapter/out"
	"pajama/internal/modules/settings/domain"
	settingsdto "pajama/internal/modules/settings/dto"
	settingsin "pajama/internal/modules/settings/port/in"
	"pajama/internal/modules/settings/service"
	"pajama/internal/modules/settings/usecase"
	"pajama/internal/platform/clock"
	apperrors "pajama/internal/platform/errors"
	"pajama/internal/platform/kv"
)

func newUsecase(t *testing.T, at time.Time) settingsin.Usecase {
	t.Helper()
	docs, err := kv.Open(filepath.Join(t.TempDir(), "pajama.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = docs.Close() })
	return usecase.NewInteractor(service.NewSettingsService(clock.Fixed(at), settingsout.NewSQLiteSettingsStore(docs)))
}

func TestFreshInstallReturnsDefaults(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t, time.UnixMilli(5000))
	got, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Multiplier)
	assert.Equal(t, 3, got.WeeklyGoal)
	assert.Equal(t, int64(0), got.SyncedAt)

	needs, err := uc.NeedsOnboarding(context.Background())
	require.NoError(t, err)
	assert.True(t, needs)
}

func TestUpdateClampsAndStampsSyncedAt(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t, time.UnixMilli(1_700_000_000_000))
	big, goal := 10.0, 40
	got, err := uc.Update(context.Background(), settingsdto.Patch{Multiplier: &big, WeeklyGoal: &goal})
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Multiplier)
	assert.Equal(t, 14, got.WeeklyGoal)
	assert.Equal(t, int64(1_700_000_000_000), got.SyncedAt)

	again, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestPresetThenOnboarding(t *testing.T) {
	t.Parallel()
	uc := newUsecase(t, time.UnixMilli(42))
	guided, err := uc.ApplyPreset(context.Background(), "Guided")
	require.NoError(t, err)
	assert.Equal(t, 1.5, guided.RestMultiplier)
	assert.True(t, guided.AnnounceHints)

	done, err := uc.CompleteOnboarding(context.Background())
	require.NoError(t, err)
	assert.True(t, done.OnboardingDone)
	assert.True(t, done.TTS)

	reset, err := uc.Reset(context.Background())
	require.NoError(t, err)
	assert.True(t, reset.OnboardingDone)
	assert.False(t, reset.TTS)

	_, err = uc.ApplyPreset(context.Background(), "nope")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestCorruptRecordFallsBackToDefaults(t *testing.T) {
	t.Parallel()
	docs, err := kv.Open(filepath.Join(t.TempDir(), "pajama.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = docs.Close() })
	require.NoError(t, docs.Put(context.Background(), "settings", []byte(`"garbage"`)))

	uc := usecase.NewInteractor(service.NewSettingsService(clock.Fixed(time.UnixMilli(1)), settingsout.NewSQLiteSettingsStore(docs)))
	got, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Defaults().WeeklyGoal, got.WeeklyGoal)
}
