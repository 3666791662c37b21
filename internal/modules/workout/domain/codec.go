package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type liveWire struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category,omitempty"`
	Subtitle    string  `json:"subtitle,omitempty"`
	Description string  `json:"description,omitempty"`
	Phases      []Phase `json:"phases"`
	UpdatedAt   int64   `json:"_updatedAt,omitempty"`
}

type tombstoneWire struct {
	Deleted   bool  `json:"_deleted"`
	DeletedAt int64 `json:"_deletedAt"`
}

// MarshalJSON writes {id: {...fields, _updatedAt}} for live records and
// {id: {_deleted: true, _deletedAt}} for tombstones.
func (c Collection) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		var value any
		switch r := c[k].(type) {
		case CustomWorkout:
			phases := r.Phases
			if phases == nil {
				phases = []Phase{}
			}
			value = liveWire{ID: r.ID, Title: r.Title, Category: r.Category, Subtitle: r.Subtitle, Description: r.Description, Phases: phases, UpdatedAt: r.UpdatedAt}
		case Tombstone:
			value = tombstoneWire{Deleted: true, DeletedAt: r.DeletedAt}
		default:
			return nil, fmt.Errorf("marshal workout %s: unsupported record %T", k, r)
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal workout %s: %w", k, err)
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON requires an object at the top level. A record flagged
// _deleted stays a tombstone whatever else it carries. Non-object records
// and live records that do not decode or have no title are dropped.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Collection, len(raw))
	for key, msg := range raw {
		msg = bytes.TrimSpace(msg)
		if len(msg) == 0 || msg[0] != '{' {
			continue
		}
		if deletedAt, ok := decodeTombstone(msg); ok {
			out[key] = Tombstone{DeletedAt: deletedAt}
			continue
		}
		var w liveWire
		if err := json.Unmarshal(msg, &w); err != nil || strings.TrimSpace(w.Title) == "" {
			continue
		}
		id := w.ID
		if id == "" {
			id = key
		}
		out[key] = CustomWorkout{
			Workout: Workout{
				ID:          id,
				Title:       w.Title,
				Category:    w.Category,
				Subtitle:    w.Subtitle,
				Description: w.Description,
				Phases:      w.Phases,
			},
			UpdatedAt: w.UpdatedAt,
		}
	}
	*c = out
	return nil
}

// decodeTombstone reads only the deletion marker. A malformed _deletedAt
// keeps the tombstone at timestamp zero.
func decodeTombstone(msg json.RawMessage) (int64, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		return 0, false
	}
	var deleted bool
	if err := json.Unmarshal(fields["_deleted"], &deleted); err != nil || !deleted {
		return 0, false
	}
	var deletedAt float64
	if err := json.Unmarshal(fields["_deletedAt"], &deletedAt); err != nil || deletedAt < 0 {
		return 0, true
	}
	return int64(deletedAt), true
}

// DecodeCollection never fails: anything that is not an object decodes to
// an empty collection.
func DecodeCollection(raw []byte) Collection {
	var c Collection
	if err := json.Unmarshal(raw, &c); err != nil || c == nil {
		return Collection{}
	}
	return c
}
