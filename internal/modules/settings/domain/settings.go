package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "pajama/internal/platform/errors"
)

const (
	MinMultiplier = 0.5
	MaxMultiplier = 3.0
	MinWeeklyGoal = 1
	MaxWeeklyGoal = 14
)

// Settings is the single replicated preferences record. It moves between
// replicas as a whole; SyncedAt (epoch ms) is bumped on every local save.
type Settings struct {
	Multiplier     float64 `json:"multiplier"`
	RestMultiplier float64 `json:"restMultiplier"`
	TTS            bool    `json:"tts"`
	AnnounceHints  bool    `json:"announceHints"`
	WeeklyGoal     int     `json:"weeklyGoal"`
	Sound          bool    `json:"sound"`
	OnboardingDone bool    `json:"onboardingDone"`
	SyncedAt       int64   `json:"_syncedAt,omitempty"`
}

func Defaults() Settings {
	return Settings{Multiplier: 1, RestMultiplier: 1, WeeklyGoal: 3}
}

// Clamp keeps multipliers and the weekly goal inside their supported ranges.
func (s Settings) Clamp() Settings {
	s.Multiplier = clampFloat(s.Multiplier, MinMultiplier, MaxMultiplier)
	s.RestMultiplier = clampFloat(s.RestMultiplier, MinMultiplier, MaxMultiplier)
	if s.WeeklyGoal < MinWeeklyGoal {
		s.WeeklyGoal = MinWeeklyGoal
	}
	if s.WeeklyGoal > MaxWeeklyGoal {
		s.WeeklyGoal = MaxWeeklyGoal
	}
	return s
}

type Preset string

const (
	PresetGuided Preset = "guided"
	PresetQuick  Preset = "quick"
)

// ApplyPreset overwrites the pacing and voice fields for a named preset.
func (s Settings) ApplyPreset(p Preset) (Settings, error) {
	switch p {
	case PresetGuided:
		s.Multiplier, s.RestMultiplier = 1.5, 1.5
		s.TTS, s.AnnounceHints = true, true
	case PresetQuick:
		s.Multiplier, s.RestMultiplier = 1, 1
		s.TTS, s.AnnounceHints = false, false
	default:
		return s, fmt.Errorf("%w: unknown preset %q", apperrors.ErrInvalidInput, p)
	}
	return s, nil
}

// Decode reads a stored record. Missing fields take their defaults;
// anything that is not an object yields nil.
func Decode(raw []byte) *Settings {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	s := Defaults()
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil
	}
	return &s
}

// FormatMultiplier renders 1 as "1×" and 1.25 as "1.25×".
func FormatMultiplier(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64) + "×"
}

// ParsePreset is case-insensitive.
func ParsePreset(raw string) Preset {
	return Preset(strings.ToLower(strings.TrimSpace(raw)))
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	return math.Max(lo, math.Min(hi, v))
}
