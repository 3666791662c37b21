package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	historyoutadapter "pajama/internal/modules/history/adapter/out"
	historydomain "pajama/internal/modules/history/domain"
	replicaoutadapter "pajama/internal/modules/replica/adapter/out"
	"pajama/internal/modules/replica/domain"
	"pajama/internal/modules/replica/service"
	settingsoutadapter "pajama/internal/modules/settings/adapter/out"
	settingsdomain "pajama/internal/modules/settings/domain"
	workoutoutadapter "pajama/internal/modules/workout/adapter/out"
	workoutdomain "pajama/internal/modules/workout/domain"
	"pajama/internal/platform/clock"
	"pajama/internal/platform/kv"
	"pajama/internal/platform/logging"
)

func readDocs(t *testing.T, store *kv.Store) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, key := range []string{"history", "custom_workouts", "settings"} {
		raw, found, err := store.Get(context.Background(), key)
		require.NoError(t, err)
		require.True(t, found, key)
		out[key] = string(raw)
	}
	return out
}

func TestFailedRemoteWriteLeavesSQLiteReplicaUntouched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, err := kv.Open(filepath.Join(t.TempDir(), "pajama.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	envelopes := historyoutadapter.NewSQLiteEnvelopeStore(store, logging.Discard())
	custom := workoutoutadapter.NewSQLiteCustomStore(store)
	settings := settingsoutadapter.NewSQLiteSettingsStore(store)

	require.NoError(t, envelopes.Save(ctx, historydomain.Envelope{
		Version: historydomain.CurrentSchemaVersion,
		Entries: []historydomain.Entry{{WorkoutID: "w", Title: "Local", CompletedAt: "2025-01-02T00:00:00.000Z", Multiplier: 1}},
	}))
	require.NoError(t, custom.SaveCustom(ctx, workoutdomain.Collection{
		"mine": workoutdomain.CustomWorkout{Workout: workoutdomain.Workout{ID: "mine", Title: "Mine"}, UpdatedAt: 100},
	}))
	require.NoError(t, settings.Save(ctx, settingsdomain.Settings{Multiplier: 1, RestMultiplier: 1, WeeklyGoal: 3, SyncedAt: 1000}))

	remoteBlob, err := domain.EncodeDocument(domain.Snapshot{
		Entries: []historydomain.Entry{{WorkoutID: "w", Title: "Remote", CompletedAt: "2025-01-01T00:00:00.000Z", Multiplier: 1}},
		Workouts: workoutdomain.Collection{
			"theirs": workoutdomain.CustomWorkout{Workout: workoutdomain.Workout{ID: "theirs", Title: "Theirs"}, UpdatedAt: 200},
		},
		Settings: &settingsdomain.Settings{Multiplier: 1.5, RestMultiplier: 1, WeeklyGoal: 4, SyncedAt: 2000},
	})
	require.NoError(t, err)
	remote := &memoryRemote{
		blob:     remoteBlob,
		handle:   "doc-7",
		writeErr: &domain.RemoteError{Reason: domain.RemoteErrorReason(14), Err: errors.New("unavailable")},
	}
	local := replicaoutadapter.NewLocalReplica(envelopes, custom, settings, store)
	syncer := service.NewSyncer(clock.Fixed(now), store, local, remote, signedIn(), nil, logging.Discard())

	before := readDocs(t, store)
	result := syncer.Sync(ctx)
	assert.Equal(t, domain.Reason("remote_error_14"), result.Reason)
	assert.Equal(t, before, readDocs(t, store))
	assert.Equal(t, string(remoteBlob), string(remote.blob))
	assert.Zero(t, remote.writes)

	remote.writeErr = nil
	result = syncer.Sync(ctx)
	require.True(t, result.OK, string(result.Reason))

	env, err := envelopes.Load(ctx)
	require.NoError(t, err)
	require.Len(t, env.Entries, 2)
	assert.Equal(t, "Local", env.Entries[0].Title)

	collection, err := custom.LoadCustom(ctx)
	require.NoError(t, err)
	assert.Contains(t, collection, "mine")
	assert.Contains(t, collection, "theirs")

	got, err := settings.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1.5, got.Multiplier)

	snapshot, err := local.Snapshot(ctx)
	require.NoError(t, err)
	localBlob, err := domain.EncodeDocument(snapshot)
	require.NoError(t, err)
	assert.Equal(t, string(localBlob), string(remote.blob))
}
