package dto

// Patch carries the fields a caller wants to change; nil fields are kept.
type Patch struct {
	Multiplier     *float64
	RestMultiplier *float64
	TTS            *bool
	AnnounceHints  *bool
	WeeklyGoal     *int
	Sound          *bool
}

type SettingsOutput struct {
	Multiplier     float64
	RestMultiplier float64
	TTS            bool
	AnnounceHints  bool
	WeeklyGoal     int
	Sound          bool
	OnboardingDone bool
	SyncedAt       int64
}
