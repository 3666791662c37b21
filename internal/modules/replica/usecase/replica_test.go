package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	historyout "pajama/internal/modules/history/adapter/out"
	historydomain "pajama/internal/modules/history/domain"
	historyport "pajama/internal/modules/history/port/out"
	replicaadapter "pajama/internal/modules/replica/adapter/out"
	"pajama/internal/modules/replica/domain"
	replicain "pajama/internal/modules/replica/port/in"
	"pajama/internal/modules/replica/service"
	"pajama/internal/modules/replica/usecase"
	settingsout "pajama/internal/modules/settings/adapter/out"
	workoutout "pajama/internal/modules/workout/adapter/out"
	"pajama/internal/platform/clock"
	apperrors "pajama/internal/platform/errors"
	"pajama/internal/platform/kv"
	"pajama/internal/platform/logging"
)

var now = time.UnixMilli(1_700_000_000_000).UTC()

type scriptedRemote struct {
	blob     []byte
	writeErr error
}

func (r *scriptedRemote) Find(context.Context) (string, bool, error) {
	return "doc", r.blob != nil, nil
}

func (r *scriptedRemote) Read(context.Context, string) ([]byte, error) {
	return r.blob, nil
}

func (r *scriptedRemote) Write(_ context.Context, handle string, blob []byte) (string, error) {
	if r.writeErr != nil {
		return "", r.writeErr
	}
	r.blob = blob
	return handle, nil
}

type fixture struct {
	uc      replicain.Usecase
	history historyport.EnvelopeStore
	remote  *scriptedRemote
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	docs, err := kv.Open(filepath.Join(t.TempDir(), "pajama.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = docs.Close() })

	logger := logging.Discard()
	history := historyout.NewSQLiteEnvelopeStore(docs, logger)
	custom := workoutout.NewSQLiteCustomStore(docs)
	local := replicaadapter.NewLocalReplica(history, custom, settingsout.NewSQLiteSettingsStore(docs), docs)
	creds := replicaadapter.NewFileCredentialStore(filepath.Join(t.TempDir(), "token.json"))
	remote := &scriptedRemote{}
	syncer := service.NewSyncer(clock.Fixed(now), docs, local, remote, creds, nil, logger)
	return fixture{
		uc:      usecase.NewInteractor(syncer, creds, replicaadapter.JWTParser{}, clock.Fixed(now)),
		history: history,
		remote:  remote,
	}
}

func mintToken(t *testing.T, subject string, expires time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString([]byte("test-secret-test-secret"))
	require.NoError(t, err)
	return token
}

func TestSignInStatusSignOut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	out, err := f.uc.SignIn(ctx, mintToken(t, "acct-1", now.Add(24*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "acct-1", out.Subject)

	status, err := f.uc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.SignedIn)
	assert.False(t, status.Expired)
	assert.True(t, status.LastSyncedAt.IsZero())

	require.NoError(t, f.uc.SignOut(ctx))
	status, err = f.uc.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.SignedIn)
	assert.Equal(t, "not_signed_in", f.uc.Sync(ctx).Reason)
}

func TestSignInRejectsBadTokens(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, err := f.uc.SignIn(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = f.uc.SignIn(context.Background(), mintToken(t, "acct-1", now.Add(-time.Hour)))
	assert.ErrorIs(t, err, apperrors.ErrAuthExpired)
}

func TestRemoteFailureRollsBackLocalWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.uc.SignIn(ctx, mintToken(t, "acct-1", now.Add(time.Hour)))
	require.NoError(t, err)

	require.NoError(t, f.history.Save(ctx, historydomain.Envelope{
		Version: historydomain.CurrentSchemaVersion,
		Entries: []historydomain.Entry{{WorkoutID: "w", Title: "Local", CompletedAt: "2025-01-02T00:00:00.000Z", Multiplier: 1}},
	}))
	blob, err := domain.EncodeDocument(domain.Snapshot{Entries: []historydomain.Entry{
		{WorkoutID: "w", Title: "Remote", CompletedAt: "2025-01-01T00:00:00.000Z", Multiplier: 1},
	}})
	require.NoError(t, err)
	f.remote.blob = blob
	f.remote.writeErr = &domain.RemoteError{Reason: domain.RemoteErrorReason(14), Err: errors.New("unavailable")}

	out := f.uc.Sync(ctx)
	assert.False(t, out.OK)
	assert.Equal(t, "remote_error_14", out.Reason)

	env, err := f.history.Load(ctx)
	require.NoError(t, err)
	require.Len(t, env.Entries, 1)
	assert.Equal(t, "Local", env.Entries[0].Title)
	assert.Equal(t, blob, f.remote.blob)

	f.remote.writeErr = nil
	out = f.uc.Sync(ctx)
	require.True(t, out.OK, out.Reason)
	assert.Equal(t, 2, out.Entries)

	env, err = f.history.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, env.Entries, 2)

	status, err := f.uc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, now, status.LastSyncedAt)
	assert.True(t, status.LastOK)
}
