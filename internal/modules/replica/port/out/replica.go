package out

import (
	"context"
	"time"

	"pajama/internal/modules/replica/domain"
)

// RemoteStore locates and exchanges the single remote document. Write with
// an empty handle creates the document and returns its handle. Failures are
// *domain.RemoteError.
type RemoteStore interface {
	Find(ctx context.Context) (handle string, found bool, err error)
	Read(ctx context.Context, handle string) ([]byte, error)
	Write(ctx context.Context, handle string, blob []byte) (string, error)
}

// LocalReplica reads and writes the device copy of the replicated
// documents plus the per-device sync bookkeeping.
type LocalReplica interface {
	Snapshot(ctx context.Context) (domain.Snapshot, error)
	Commit(ctx context.Context, snapshot domain.Snapshot) error
	SyncState(ctx context.Context) (domain.SyncState, error)
	SaveSyncState(ctx context.Context, state domain.SyncState) error
}

// Credential is an opaque bearer token with the claims the client needs.
type Credential struct {
	Token     string
	Subject   string
	ExpiresAt time.Time
}

type CredentialStore interface {
	Load(ctx context.Context) (Credential, bool, error)
	Save(ctx context.Context, credential Credential) error
	Clear(ctx context.Context) error
}

// TokenParser reads claims from a token without verifying its signature.
type TokenParser interface {
	Parse(token string) (Credential, error)
}

type Metrics interface {
	ObserveSync(result domain.Result, elapsed time.Duration)
}
