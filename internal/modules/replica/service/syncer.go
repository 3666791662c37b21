package service

import (
	"context"
	"errors"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"pajama/internal/modules/replica/domain"
	replicaout "pajama/internal/modules/replica/port/out"
	"pajama/internal/platform/clock"
	"pajama/internal/platform/tx"
)

// ExpirySkew treats a token as expired slightly before its exp claim.
const ExpirySkew = time.Minute

// ReasonLocalReadFailed is reported when the device copy cannot be read.
const ReasonLocalReadFailed domain.Reason = "local_read_failed"

// Syncer converges the local replica and the remote document. At most one
// sync runs at a time; overlapping calls fail fast with sync_in_progress.
type Syncer struct {
	mu      sync.Mutex
	clock   clock.Clock
	tx      tx.Manager
	local   replicaout.LocalReplica
	remote  replicaout.RemoteStore
	creds   replicaout.CredentialStore
	metrics replicaout.Metrics
	logger  hclog.Logger
}

func NewSyncer(
	clock clock.Clock,
	txManager tx.Manager,
	local replicaout.LocalReplica,
	remote replicaout.RemoteStore,
	creds replicaout.CredentialStore,
	metrics replicaout.Metrics,
	logger hclog.Logger,
) *Syncer {
	if txManager == nil {
		txManager = tx.NoopManager{}
	}
	return &Syncer{
		clock:   clock,
		tx:      txManager,
		local:   local,
		remote:  remote,
		creds:   creds,
		metrics: metrics,
		logger:  logger.Named("sync"),
	}
}

// Expired reports whether credential should no longer be presented.
func Expired(credential replicaout.Credential, now time.Time) bool {
	if credential.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(credential.ExpiresAt.Add(-ExpirySkew))
}

func (s *Syncer) Sync(ctx context.Context) domain.Result {
	if !s.mu.TryLock() {
		s.logger.Debug("sync already running")
		return domain.Failed(domain.ReasonInProgress)
	}
	defer s.mu.Unlock()

	started := s.clock.Now()
	result := s.run(ctx)
	if s.metrics != nil {
		s.metrics.ObserveSync(result, s.clock.Now().Sub(started))
	}
	s.remember(ctx, result)
	if result.OK {
		s.logger.Info("sync complete", "entries", result.Counts.Entries, "workouts", result.Counts.Workouts, "settings", result.Counts.Settings)
	} else {
		s.logger.Warn("sync failed", "reason", result.Reason)
	}
	return result
}

func (s *Syncer) run(ctx context.Context) domain.Result {
	if s.remote == nil {
		return domain.Failed(domain.ReasonNotSignedIn)
	}
	credential, found, err := s.creds.Load(ctx)
	if err != nil {
		s.logger.Warn("load credential failed", "error", err)
		return domain.Failed(domain.ReasonNotSignedIn)
	}
	if !found || credential.Token == "" {
		return domain.Failed(domain.ReasonNotSignedIn)
	}
	if Expired(credential, s.clock.Now()) {
		return domain.Failed(domain.ReasonAuthExpired)
	}

	state, err := s.local.SyncState(ctx)
	if err != nil {
		s.logger.Warn("read sync state failed", "error", err)
		return domain.Failed(ReasonLocalReadFailed)
	}
	local, err := s.local.Snapshot(ctx)
	if err != nil {
		s.logger.Warn("read local replica failed", "error", err)
		return domain.Failed(ReasonLocalReadFailed)
	}

	handle, exists, err := s.remote.Find(ctx)
	if err != nil {
		return s.remoteFailure("find", err)
	}
	remote := domain.EmptySnapshot()
	if exists {
		raw, err := s.remote.Read(ctx, handle)
		if err != nil {
			return s.remoteFailure("read", err)
		}
		remote = domain.DecodeDocument(raw)
	}

	merged := domain.Snapshot{
		Entries:  domain.MergeEntries(local.Entries, remote.Entries),
		Workouts: domain.MergeCustomWorkouts(local.Workouts, remote.Workouts, domain.MergeOptions{SkipLegacyRemote: state.FirstSync()}),
		Settings: domain.MergeSettings(local.Settings, remote.Settings),
	}
	blob, err := domain.EncodeDocument(merged)
	if err != nil {
		s.logger.Error("encode merged document failed", "error", err)
		return domain.Failed(domain.ReasonLocalWriteFailed)
	}

	// The local write is staged in a transaction that only commits once
	// the remote write has succeeded.
	var remoteErr error
	err = s.tx.Within(ctx, func(ctx context.Context) error {
		if err := s.local.Commit(ctx, merged); err != nil {
			return err
		}
		if _, err := s.remote.Write(ctx, handle, blob); err != nil {
			remoteErr = err
			return err
		}
		return nil
	})
	switch {
	case remoteErr != nil:
		return s.remoteFailure("write", remoteErr)
	case err != nil:
		s.logger.Error("local commit failed", "error", err)
		return domain.Failed(domain.ReasonLocalWriteFailed)
	}
	return domain.Result{OK: true, Counts: domain.Counts{
		Entries:  len(merged.Entries),
		Workouts: len(merged.Workouts),
		Settings: merged.Settings != nil,
	}}
}

func (s *Syncer) remoteFailure(op string, err error) domain.Result {
	reason := domain.ReasonOf(err)
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("remote call timed out", "op", op)
	}
	s.logger.Debug("remote call failed", "op", op, "reason", reason, "error", err)
	return domain.Failed(reason)
}

func (s *Syncer) remember(ctx context.Context, result domain.Result) {
	if result.Reason == domain.ReasonInProgress {
		return
	}
	state, err := s.local.SyncState(ctx)
	if err != nil {
		state = domain.SyncState{}
	}
	state.LastOK = result.OK
	state.LastReason = string(result.Reason)
	if result.OK {
		state.LastSyncedAt = clock.EpochMillis(s.clock.Now())
	}
	if err := s.local.SaveSyncState(ctx, state); err != nil {
		s.logger.Warn("save sync state failed", "error", err)
	}
}

// State returns the persisted bookkeeping for status reporting.
func (s *Syncer) State(ctx context.Context) (domain.SyncState, error) {
	return s.local.SyncState(ctx)
}
