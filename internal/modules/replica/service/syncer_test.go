package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	historydomain "pajama/internal/modules/history/domain"
	"pajama/internal/modules/replica/domain"
	replicaout "pajama/internal/modules/replica/port/out"
	"pajama/internal/modules/replica/service"
	settingsdomain "pajama/internal/modules/settings/domain"
	workoutdomain "pajama/internal/modules/workout/domain"
	"pajama/internal/platform/clock"
	"pajama/internal/platform/logging"
	"pajama/internal/platform/tx"
)

var now = time.UnixMilli(1_700_000_000_000).UTC()

type memoryLocal struct {
	mu        sync.Mutex
	snap      domain.Snapshot
	state     domain.SyncState
	commitErr error
	commits   int
}

func (m *memoryLocal) Snapshot(context.Context) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.snap
	out.Entries = append([]historydomain.Entry(nil), m.snap.Entries...)
	out.Workouts = m.snap.Workouts.Clone()
	return out, nil
}

func (m *memoryLocal) Commit(_ context.Context, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.commitErr != nil {
		return m.commitErr
	}
	m.snap = snap
	m.commits++
	return nil
}

func (m *memoryLocal) SyncState(context.Context) (domain.SyncState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *memoryLocal) SaveSyncState(_ context.Context, state domain.SyncState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	return nil
}

type memoryRemote struct {
	mu       sync.Mutex
	blob     []byte
	handle   string
	writeErr error
	entered  chan struct{}
	release  chan struct{}
	writes   int
}

func (r *memoryRemote) Find(context.Context) (string, bool, error) {
	if r.entered != nil {
		r.entered <- struct{}{}
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handle, r.blob != nil, nil
}

func (r *memoryRemote) Read(context.Context, string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blob, nil
}

func (r *memoryRemote) Write(_ context.Context, handle string, blob []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return "", r.writeErr
	}
	if handle == "" {
		handle = "doc-1"
	}
	r.handle, r.blob = handle, blob
	r.writes++
	return handle, nil
}

type memoryCreds struct {
	credential replicaout.Credential
	found      bool
}

func (c *memoryCreds) Load(context.Context) (replicaout.Credential, bool, error) {
	return c.credential, c.found, nil
}

func (c *memoryCreds) Save(_ context.Context, credential replicaout.Credential) error {
	c.credential, c.found = credential, true
	return nil
}

func (c *memoryCreds) Clear(context.Context) error {
	c.credential, c.found = replicaout.Credential{}, false
	return nil
}

type recordingMetrics struct {
	mu      sync.Mutex
	results []domain.Result
}

func (m *recordingMetrics) ObserveSync(result domain.Result, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
}

func signedIn() *memoryCreds {
	return &memoryCreds{credential: replicaout.Credential{Token: "t", Subject: "acct", ExpiresAt: now.Add(time.Hour)}, found: true}
}

func newSyncer(local *memoryLocal, remote *memoryRemote, creds *memoryCreds, metrics *recordingMetrics) *service.Syncer {
	return service.NewSyncer(clock.Fixed(now), tx.NoopManager{}, local, remote, creds, metrics, logging.Discard())
}

func TestSyncRequiresCredential(t *testing.T) {
	t.Parallel()
	local, remote, metrics := &memoryLocal{snap: domain.EmptySnapshot()}, &memoryRemote{}, &recordingMetrics{}
	result := newSyncer(local, remote, &memoryCreds{}, metrics).Sync(context.Background())
	assert.False(t, result.OK)
	assert.Equal(t, domain.ReasonNotSignedIn, result.Reason)
	assert.Zero(t, remote.writes)
	assert.Equal(t, "not_signed_in", local.state.LastReason)
	require.Len(t, metrics.results, 1)
}

func TestSyncTreatsNearlyExpiredTokenAsExpired(t *testing.T) {
	t.Parallel()
	creds := signedIn()
	creds.credential.ExpiresAt = now.Add(30 * time.Second)
	result := newSyncer(&memoryLocal{snap: domain.EmptySnapshot()}, &memoryRemote{}, creds, &recordingMetrics{}).Sync(context.Background())
	assert.Equal(t, domain.ReasonAuthExpired, result.Reason)
}

func TestSyncConvergesLocalAndRemote(t *testing.T) {
	t.Parallel()
	local := &memoryLocal{snap: domain.Snapshot{
		Entries:  []historydomain.Entry{{WorkoutID: "w", Title: "Local", CompletedAt: "2025-01-02T00:00:00.000Z", Multiplier: 1}},
		Workouts: workoutdomain.Collection{"a": workoutdomain.Tombstone{DeletedAt: 500}},
		Settings: &settingsdomain.Settings{Multiplier: 1, RestMultiplier: 1, WeeklyGoal: 3, SyncedAt: 1000},
	}}
	remoteBlob, err := domain.EncodeDocument(domain.Snapshot{
		Entries: []historydomain.Entry{{WorkoutID: "w", Title: "Remote", CompletedAt: "2025-01-01T00:00:00.000Z", Multiplier: 1}},
		Workouts: workoutdomain.Collection{
			"a": workoutdomain.CustomWorkout{Workout: workoutdomain.Workout{ID: "a", Title: "Old"}, UpdatedAt: 100},
			"b": workoutdomain.CustomWorkout{Workout: workoutdomain.Workout{ID: "b", Title: "New"}, UpdatedAt: 200},
		},
		Settings: &settingsdomain.Settings{Multiplier: 2, RestMultiplier: 1, WeeklyGoal: 3, SyncedAt: 1000},
	})
	require.NoError(t, err)
	remote := &memoryRemote{blob: remoteBlob, handle: "doc-9"}
	local.state = domain.SyncState{LastSyncedAt: 1}

	result := newSyncer(local, remote, signedIn(), &recordingMetrics{}).Sync(context.Background())

	require.True(t, result.OK, string(result.Reason))
	assert.Equal(t, domain.Counts{Entries: 2, Workouts: 2, Settings: true}, result.Counts)
	assert.Equal(t, workoutdomain.Tombstone{DeletedAt: 500}, local.snap.Workouts["a"])
	assert.Equal(t, 2.0, local.snap.Settings.Multiplier)
	assert.Equal(t, "Local", local.snap.Entries[0].Title)

	localBlob, err := domain.EncodeDocument(local.snap)
	require.NoError(t, err)
	assert.Equal(t, string(localBlob), string(remote.blob))
	assert.Equal(t, now.UnixMilli(), local.state.LastSyncedAt)
	assert.True(t, local.state.LastOK)
}

func TestFirstSyncSkipsLegacyRemoteWorkouts(t *testing.T) {
	t.Parallel()
	legacy, err := domain.EncodeDocument(domain.Snapshot{Workouts: workoutdomain.Collection{
		"old": workoutdomain.CustomWorkout{Workout: workoutdomain.Workout{ID: "old", Title: "Legacy"}},
	}})
	require.NoError(t, err)
	local := &memoryLocal{snap: domain.EmptySnapshot()}
	remote := &memoryRemote{blob: legacy, handle: "doc-1"}
	syncer := newSyncer(local, remote, signedIn(), &recordingMetrics{})

	require.True(t, syncer.Sync(context.Background()).OK)
	assert.Empty(t, local.snap.Workouts)

	remote.blob = legacy
	require.True(t, syncer.Sync(context.Background()).OK)
	assert.Contains(t, local.snap.Workouts, "old")
}

func TestSyncCreatesRemoteDocumentWhenAbsent(t *testing.T) {
	t.Parallel()
	remote := &memoryRemote{}
	result := newSyncer(&memoryLocal{snap: domain.EmptySnapshot()}, remote, signedIn(), &recordingMetrics{}).Sync(context.Background())
	require.True(t, result.OK)
	assert.Equal(t, "doc-1", remote.handle)
	assert.JSONEq(t, `{"version":2,"entries":[],"customWorkouts":{}}`, string(remote.blob))
}

func TestSyncReportsRemoteAndLocalFailures(t *testing.T) {
	t.Parallel()
	remote := &memoryRemote{writeErr: &domain.RemoteError{Reason: domain.RemoteErrorReason(14), Err: errors.New("down")}}
	metrics := &recordingMetrics{}
	local := &memoryLocal{snap: domain.EmptySnapshot()}
	result := newSyncer(local, remote, signedIn(), metrics).Sync(context.Background())
	assert.Equal(t, domain.Reason("remote_error_14"), result.Reason)
	assert.Zero(t, local.state.LastSyncedAt)
	assert.Equal(t, "remote_error_14", local.state.LastReason)

	failing := &memoryLocal{snap: domain.EmptySnapshot(), commitErr: errors.New("disk full")}
	result = newSyncer(failing, &memoryRemote{}, signedIn(), metrics).Sync(context.Background())
	assert.Equal(t, domain.ReasonLocalWriteFailed, result.Reason)
	assert.Len(t, metrics.results, 2)
}

func TestOverlappingSyncIsDropped(t *testing.T) {
	t.Parallel()
	remote := &memoryRemote{entered: make(chan struct{}), release: make(chan struct{})}
	syncer := newSyncer(&memoryLocal{snap: domain.EmptySnapshot()}, remote, signedIn(), &recordingMetrics{})

	done := make(chan domain.Result)
	go func() { done <- syncer.Sync(context.Background()) }()
	<-remote.entered

	second := syncer.Sync(context.Background())
	assert.Equal(t, domain.ReasonInProgress, second.Reason)

	close(remote.release)
	first := <-done
	assert.True(t, first.OK)
}

func TestExpired(t *testing.T) {
	t.Parallel()
	assert.False(t, service.Expired(replicaout.Credential{}, now))
	assert.True(t, service.Expired(replicaout.Credential{ExpiresAt: now}, now))
	assert.True(t, service.Expired(replicaout.Credential{ExpiresAt: now.Add(59 * time.Second)}, now))
	assert.False(t, service.Expired(replicaout.Credential{ExpiresAt: now.Add(61 * time.Second)}, now))
}
