package dto

import "time"

type SyncOutput struct {
	OK       bool
	Reason   string
	Entries  int
	Workouts int
	Settings bool
}

type StatusOutput struct {
	SignedIn     bool
	Subject      string
	ExpiresAt    time.Time
	Expired      bool
	LastSyncedAt time.Time
	LastOK       bool
	LastReason   string
}

type SignInOutput struct {
	Subject   string
	ExpiresAt time.Time
}
