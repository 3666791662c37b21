package domain

import (
	"errors"
	"fmt"
)

// Reason is the machine-readable cause of a failed sync.
type Reason string

const (
	ReasonNotSignedIn      Reason = "not_signed_in"
	ReasonAuthExpired      Reason = "auth_expired"
	ReasonLocalWriteFailed Reason = "local_write_failed"
	ReasonInProgress       Reason = "sync_in_progress"
)

// RemoteErrorReason formats a transport status code, remote_error_<code>.
func RemoteErrorReason(code uint32) Reason {
	return Reason(fmt.Sprintf("remote_error_%d", code))
}

// reasonUnknown matches the gRPC Unknown status code.
var reasonUnknown = RemoteErrorReason(2)

type Counts struct {
	Entries  int
	Workouts int
	Settings bool
}

type Result struct {
	OK     bool
	Reason Reason
	Counts Counts
}

func Failed(reason Reason) Result {
	return Result{Reason: reason}
}

// RemoteError is returned by remote store adapters.
type RemoteError struct {
	Reason Reason
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ReasonOf extracts the reason carried by err, defaulting to an unknown
// remote error.
func ReasonOf(err error) Reason {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Reason != "" {
		return remote.Reason
	}
	return reasonUnknown
}

// SyncState is persisted per device.
type SyncState struct {
	LastSyncedAt int64  `json:"lastSyncedAt"`
	LastReason   string `json:"lastReason,omitempty"`
	LastOK       bool   `json:"lastOk"`
}

// FirstSync reports whether this device has never completed a sync.
func (s SyncState) FirstSync() bool {
	return s.LastSyncedAt == 0
}
