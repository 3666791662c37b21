package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	historydomain "pajama/internal/modules/history/domain"
	"pajama/internal/modules/replica/domain"
	settingsdomain "pajama/internal/modules/settings/domain"
	workoutdomain "pajama/internal/modules/workout/domain"
)

func live(title string, updatedAt int64) workoutdomain.CustomWorkout {
	return workoutdomain.CustomWorkout{Workout: workoutdomain.Workout{ID: "a", Title: title}, UpdatedAt: updatedAt}
}

func TestMergeEntriesFirstArgumentWinsCollision(t *testing.T) {
	t.Parallel()
	at := "2025-01-01T00:00:00Z"
	got := domain.MergeEntries(
		[]historydomain.Entry{{CompletedAt: at, Title: "Local"}},
		[]historydomain.Entry{{CompletedAt: at, Title: "Remote"}},
	)
	require.Len(t, got, 1)
	assert.Equal(t, "Local", got[0].Title)
}

func TestMergeEntriesIsASetUnion(t *testing.T) {
	t.Parallel()
	a := []historydomain.Entry{{CompletedAt: "2025-01-01"}, {CompletedAt: "2025-01-03"}}
	b := []historydomain.Entry{{CompletedAt: "2025-01-02"}, {CompletedAt: "2025-01-03"}}

	ab := domain.MergeEntries(a, b)
	ba := domain.MergeEntries(b, a)
	keys := func(es []historydomain.Entry) []string {
		out := []string{}
		for _, e := range es {
			out = append(out, e.CompletedAt)
		}
		return out
	}
	assert.Equal(t, []string{"2025-01-03", "2025-01-02", "2025-01-01"}, keys(ab))
	assert.Equal(t, keys(ab), keys(ba))
	assert.Equal(t, domain.MergeEntries(a, nil), domain.MergeEntries(a, a))
	assert.Empty(t, domain.MergeEntries(nil, nil))
}

func TestWorkoutTimestamp(t *testing.T) {
	t.Parallel()
	assert.Equal(t, int64(0), domain.WorkoutTimestamp(nil))
	assert.Equal(t, int64(500), domain.WorkoutTimestamp(workoutdomain.Tombstone{DeletedAt: 500}))
	assert.Equal(t, int64(100), domain.WorkoutTimestamp(live("Old", 100)))
	assert.Equal(t, int64(0), domain.WorkoutTimestamp(live("Legacy", 0)))
}

func TestTombstoneBeatsOlderLiveCopy(t *testing.T) {
	t.Parallel()
	got := domain.MergeCustomWorkouts(
		workoutdomain.Collection{"a": workoutdomain.Tombstone{DeletedAt: 500}},
		workoutdomain.Collection{"a": live("Old", 100)},
		domain.MergeOptions{},
	)
	assert.Equal(t, workoutdomain.Collection{"a": workoutdomain.Tombstone{DeletedAt: 500}}, got)

	again := domain.MergeCustomWorkouts(got, workoutdomain.Collection{"a": workoutdomain.Tombstone{DeletedAt: 499}}, domain.MergeOptions{})
	assert.Equal(t, got, again)
}

func TestRecreationOverridesDeletion(t *testing.T) {
	t.Parallel()
	got := domain.MergeCustomWorkouts(
		workoutdomain.Collection{"a": workoutdomain.Tombstone{DeletedAt: 500}},
		workoutdomain.Collection{"a": live("Back", 501)},
		domain.MergeOptions{},
	)
	assert.Equal(t, live("Back", 501), got["a"])
}

func TestWorkoutTiesGoToRemote(t *testing.T) {
	t.Parallel()
	got := domain.MergeCustomWorkouts(
		workoutdomain.Collection{"a": live("Local", 7)},
		workoutdomain.Collection{"a": live("Remote", 7)},
		domain.MergeOptions{},
	)
	assert.Equal(t, "Remote", got["a"].(workoutdomain.CustomWorkout).Title)
}

func TestSkipLegacyRemote(t *testing.T) {
	t.Parallel()
	remote := workoutdomain.Collection{
		"legacy":  live("Legacy", 0),
		"stamped": live("Stamped", 10),
		"gone":    workoutdomain.Tombstone{DeletedAt: 0},
	}
	kept := domain.MergeCustomWorkouts(workoutdomain.Collection{}, remote, domain.MergeOptions{})
	assert.Len(t, kept, 3)

	skipped := domain.MergeCustomWorkouts(workoutdomain.Collection{}, remote, domain.MergeOptions{SkipLegacyRemote: true})
	assert.Len(t, skipped, 2)
	assert.NotContains(t, skipped, "legacy")
	assert.Contains(t, skipped, "gone")

	local := workoutdomain.Collection{"legacy": live("Mine", 0)}
	both := domain.MergeCustomWorkouts(local, remote, domain.MergeOptions{SkipLegacyRemote: true})
	assert.Equal(t, "Legacy", both["legacy"].(workoutdomain.CustomWorkout).Title)
}

func TestMergeCustomWorkoutsIdempotent(t *testing.T) {
	t.Parallel()
	m := workoutdomain.Collection{"a": live("A", 1), "b": workoutdomain.Tombstone{DeletedAt: 2}}
	assert.Equal(t, m, domain.MergeCustomWorkouts(m, m, domain.MergeOptions{}))
}

func TestMergeSettings(t *testing.T) {
	t.Parallel()
	local := &settingsdomain.Settings{Multiplier: 1, SyncedAt: 1000}
	remote := &settingsdomain.Settings{Multiplier: 2, SyncedAt: 1000}
	assert.Equal(t, 2.0, domain.MergeSettings(local, remote).Multiplier)

	local.SyncedAt = 1001
	assert.Equal(t, 1.0, domain.MergeSettings(local, remote).Multiplier)

	assert.Equal(t, remote, domain.MergeSettings(nil, remote))
	assert.Equal(t, local, domain.MergeSettings(local, nil))
	assert.Nil(t, domain.MergeSettings(nil, nil))
	assert.Equal(t, local, domain.MergeSettings(local, local))
}

func TestDocumentRoundTripIsStable(t *testing.T) {
	t.Parallel()
	snap := domain.Snapshot{
		Entries:  []historydomain.Entry{{WorkoutID: "w", Title: "W", CompletedAt: "2025-01-01T00:00:00.000Z", Multiplier: 1}},
		Workouts: workoutdomain.Collection{"a": live("A", 3), "b": workoutdomain.Tombstone{DeletedAt: 4}},
		Settings: &settingsdomain.Settings{Multiplier: 1.5, RestMultiplier: 1, WeeklyGoal: 3, SyncedAt: 9},
	}
	raw, err := domain.EncodeDocument(snap)
	require.NoError(t, err)
	decoded := domain.DecodeDocument(raw)
	again, err := domain.EncodeDocument(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))
	assert.Equal(t, snap.Settings, decoded.Settings)
}

func TestDecodeDocumentFallsBackPerSection(t *testing.T) {
	t.Parallel()
	got := domain.DecodeDocument([]byte(`{"version":1,"entries":[{"completedAt":"x"}],"customWorkouts":"bad","settings":[]}`))
	require.Len(t, got.Entries, 1)
	assert.Equal(t, 1.0, got.Entries[0].Multiplier)
	assert.Empty(t, got.Workouts)
	assert.Nil(t, got.Settings)

	assert.Equal(t, domain.EmptySnapshot(), domain.DecodeDocument([]byte("nope")))
	assert.Equal(t, domain.EmptySnapshot(), domain.DecodeDocument(nil))
}

func TestReasonOf(t *testing.T) {
	t.Parallel()
	err := &domain.RemoteError{Reason: domain.RemoteErrorReason(14), Err: errors.New("unavailable")}
	assert.Equal(t, domain.Reason("remote_error_14"), domain.ReasonOf(err))
	assert.Equal(t, domain.Reason("remote_error_2"), domain.ReasonOf(errors.New("boom")))
	assert.Contains(t, err.Error(), "unavailable")
}
