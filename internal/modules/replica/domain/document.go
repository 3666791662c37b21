package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	historydomain "pajama/internal/modules/history/domain"
	settingsdomain "pajama/internal/modules/settings/domain"
	workoutdomain "pajama/internal/modules/workout/domain"
)

// Snapshot is one replica's copy of the three replicated documents.
type Snapshot struct {
	Entries  []historydomain.Entry
	Workouts workoutdomain.Collection
	Settings *settingsdomain.Settings
}

func EmptySnapshot() Snapshot {
	return Snapshot{Entries: []historydomain.Entry{}, Workouts: workoutdomain.Collection{}}
}

type documentWire struct {
	Version  int                      `json:"version"`
	Entries  []historydomain.Entry    `json:"entries"`
	Workouts workoutdomain.Collection `json:"customWorkouts"`
	Settings *settingsdomain.Settings `json:"settings,omitempty"`
}

// EncodeDocument renders the remote blob. Output is deterministic for a
// given snapshot.
func EncodeDocument(s Snapshot) ([]byte, error) {
	wire := documentWire{
		Version:  historydomain.CurrentSchemaVersion,
		Entries:  s.Entries,
		Workouts: s.Workouts,
		Settings: s.Settings,
	}
	if wire.Entries == nil {
		wire.Entries = []historydomain.Entry{}
	}
	if wire.Workouts == nil {
		wire.Workouts = workoutdomain.Collection{}
	}
	raw, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return raw, nil
}

// DecodeDocument validates a remote blob. Each section that is missing or
// malformed falls back to its empty value independently.
func DecodeDocument(raw []byte) Snapshot {
	out := EmptySnapshot()
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return out
	}
	var wire struct {
		Version  *int            `json:"version"`
		Entries  json.RawMessage `json:"entries"`
		Workouts json.RawMessage `json:"customWorkouts"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return out
	}

	var entries []historydomain.RawEntry
	if len(wire.Entries) > 0 && json.Unmarshal(wire.Entries, &entries) == nil {
		version := 1
		if wire.Version != nil && *wire.Version > 0 {
			version = *wire.Version
		}
		env := historydomain.Envelope{Version: version, Entries: historydomain.NormaliseEntries(entries)}
		out.Entries = historydomain.Migrate(env, historydomain.CurrentSchemaVersion, historydomain.Migrations).Entries
	}
	if len(wire.Workouts) > 0 {
		out.Workouts = workoutdomain.DecodeCollection(wire.Workouts)
	}
	if len(wire.Settings) > 0 {
		out.Settings = settingsdomain.Decode(wire.Settings)
	}
	return out
}
