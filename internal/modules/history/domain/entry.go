package domain

import (
	"bytes"
	"encoding/json"
)

// CurrentSchemaVersion is the envelope version written by this build.
const CurrentSchemaVersion = 2

const (
	UnknownWorkoutID = "unknown"
	DefaultTitle     = "Workout"
)

// Entry is one completed (or partially completed) workout. CompletedAt is
// the identity key: two entries with the same value are the same event.
type Entry struct {
	WorkoutID       string  `json:"workoutId"`
	Title           string  `json:"title"`
	CompletedAt     string  `json:"completedAt"`
	DurationSecs    int     `json:"durationSecs"`
	PhasesCompleted int     `json:"phasesCompleted"`
	PhasesTotal     int     `json:"phasesTotal"`
	Multiplier      float64 `json:"multiplier"`
}

type Envelope struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

func EmptyEnvelope() Envelope {
	return Envelope{Version: CurrentSchemaVersion, Entries: []Entry{}}
}

// RawEntry is the tolerant wire shape read from storage or the remote
// document. Absent fields stay nil so NormaliseEntry can default them.
type RawEntry struct {
	WorkoutID       *string  `json:"workoutId"`
	Title           *string  `json:"title"`
	CompletedAt     *string  `json:"completedAt"`
	DurationSecs    *float64 `json:"durationSecs"`
	PhasesCompleted *float64 `json:"phasesCompleted"`
	PhasesTotal     *float64 `json:"phasesTotal"`
	Multiplier      *float64 `json:"multiplier"`
}

// NormaliseEntry fills defaults so documents written by older versions
// never break newer code. ok is false when the entry has no identity.
func NormaliseEntry(raw RawEntry) (Entry, bool) {
	if raw.CompletedAt == nil || *raw.CompletedAt == "" {
		return Entry{}, false
	}
	entry := Entry{
		WorkoutID:       UnknownWorkoutID,
		Title:           DefaultTitle,
		CompletedAt:     *raw.CompletedAt,
		DurationSecs:    nonNegative(raw.DurationSecs),
		PhasesCompleted: nonNegative(raw.PhasesCompleted),
		PhasesTotal:     nonNegative(raw.PhasesTotal),
		Multiplier:      1,
	}
	if raw.WorkoutID != nil && *raw.WorkoutID != "" {
		entry.WorkoutID = *raw.WorkoutID
	}
	if raw.Title != nil && *raw.Title != "" {
		entry.Title = *raw.Title
	}
	if raw.Multiplier != nil && *raw.Multiplier > 0 {
		entry.Multiplier = *raw.Multiplier
	}
	return entry, true
}

func NormaliseEntries(raw []RawEntry) []Entry {
	out := make([]Entry, 0, len(raw))
	for _, r := range raw {
		if entry, ok := NormaliseEntry(r); ok {
			out = append(out, entry)
		}
	}
	return out
}

// Decode reads a stored history payload. It never fails: corrupt or
// mismatched data yields an empty envelope. needsPersist reports that the
// payload was upgraded and should be written back.
func Decode(raw []byte) (env Envelope, needsPersist bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return EmptyEnvelope(), false
	}
	switch trimmed[0] {
	case '[':
		var entries []RawEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return EmptyEnvelope(), false
		}
		legacy := Envelope{Version: 1, Entries: NormaliseEntries(entries)}
		return Migrate(legacy, CurrentSchemaVersion, Migrations), true
	case '{':
		var doc struct {
			Version *int       `json:"version"`
			Entries []RawEntry `json:"entries"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return EmptyEnvelope(), false
		}
		version := 1
		if doc.Version != nil && *doc.Version > 0 {
			version = *doc.Version
		}
		env := Envelope{Version: version, Entries: NormaliseEntries(doc.Entries)}
		if version >= CurrentSchemaVersion {
			return env, false
		}
		return Migrate(env, CurrentSchemaVersion, Migrations), true
	default:
		return EmptyEnvelope(), false
	}
}

func nonNegative(v *float64) int {
	if v == nil || *v < 0 {
		return 0
	}
	return int(*v)
}
