package out

import (
	"context"
	"encoding/json"
	"fmt"

	historydomain "pajama/internal/modules/history/domain"
	historyout "pajama/internal/modules/history/port/out"
	"pajama/internal/modules/replica/domain"
	replicaout "pajama/internal/modules/replica/port/out"
	settingsout "pajama/internal/modules/settings/port/out"
	workoutdomain "pajama/internal/modules/workout/domain"
	workoutout "pajama/internal/modules/workout/port/out"
)

const syncStateKey = "sync_state"

type Documents interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// LocalReplica assembles the device copy from the per-document stores.
// Commit relies on the context carrying the caller's transaction.
type LocalReplica struct {
	history  historyout.EnvelopeStore
	workouts workoutout.CustomStore
	settings settingsout.Store
	docs     Documents
}

func NewLocalReplica(history historyout.EnvelopeStore, workouts workoutout.CustomStore, settings settingsout.Store, docs Documents) replicaout.LocalReplica {
	return &LocalReplica{history: history, workouts: workouts, settings: settings, docs: docs}
}

func (r *LocalReplica) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	env, err := r.history.Load(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	workouts, err := r.workouts.LoadCustom(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if workouts == nil {
		workouts = workoutdomain.Collection{}
	}
	settings, err := r.settings.Load(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{Entries: env.Entries, Workouts: workouts, Settings: settings}, nil
}

func (r *LocalReplica) Commit(ctx context.Context, snapshot domain.Snapshot) error {
	env := historydomain.Envelope{Version: historydomain.CurrentSchemaVersion, Entries: snapshot.Entries}
	if err := r.history.Save(ctx, env); err != nil {
		return err
	}
	if err := r.workouts.SaveCustom(ctx, snapshot.Workouts); err != nil {
		return err
	}
	if snapshot.Settings != nil {
		if err := r.settings.Save(ctx, *snapshot.Settings); err != nil {
			return err
		}
	}
	return nil
}

func (r *LocalReplica) SyncState(ctx context.Context) (domain.SyncState, error) {
	raw, found, err := r.docs.Get(ctx, syncStateKey)
	if err != nil {
		return domain.SyncState{}, fmt.Errorf("load sync state: %w", err)
	}
	var state domain.SyncState
	if !found || json.Unmarshal(raw, &state) != nil {
		return domain.SyncState{}, nil
	}
	return state, nil
}

func (r *LocalReplica) SaveSyncState(ctx context.Context, state domain.SyncState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal sync state: %w", err)
	}
	if err := r.docs.Put(ctx, syncStateKey, payload); err != nil {
		return fmt.Errorf("save sync state: %w", err)
	}
	return nil
}
