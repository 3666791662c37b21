package domain

import (
	historydomain "pajama/internal/modules/history/domain"
	settingsdomain "pajama/internal/modules/settings/domain"
	workoutdomain "pajama/internal/modules/workout/domain"
)

// MergeEntries unions two histories keyed by CompletedAt. On collision the
// entry from a is kept. The result is ordered newest first.
func MergeEntries(a, b []historydomain.Entry) []historydomain.Entry {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]historydomain.Entry, 0, len(a)+len(b))
	for _, side := range [][]historydomain.Entry{a, b} {
		for _, e := range side {
			if _, ok := seen[e.CompletedAt]; ok {
				continue
			}
			seen[e.CompletedAt] = struct{}{}
			out = append(out, e)
		}
	}
	return historydomain.SortNewestFirst(out)
}

// WorkoutTimestamp is DeletedAt for tombstones, UpdatedAt for live records
// and 0 for a missing record.
func WorkoutTimestamp(r workoutdomain.Record) int64 {
	if r == nil {
		return 0
	}
	return r.Timestamp()
}

type MergeOptions struct {
	// SkipLegacyRemote drops remote-only live records that carry no
	// timestamp.
	SkipLegacyRemote bool
}

// MergeCustomWorkouts picks, per id, the record with the strictly greater
// timestamp. Ties go to remote.
func MergeCustomWorkouts(local, remote workoutdomain.Collection, opts MergeOptions) workoutdomain.Collection {
	out := make(workoutdomain.Collection, len(local)+len(remote))
	for id, l := range local {
		if l == nil {
			continue
		}
		r := remote[id]
		if r == nil || WorkoutTimestamp(l) > WorkoutTimestamp(r) {
			out[id] = l
			continue
		}
		out[id] = r
	}
	for id, r := range remote {
		if r == nil {
			continue
		}
		if l := local[id]; l != nil {
			continue
		}
		if opts.SkipLegacyRemote {
			if live, ok := r.(workoutdomain.CustomWorkout); ok && live.UpdatedAt == 0 {
				continue
			}
		}
		out[id] = r
	}
	return out
}

// MergeSettings is whole-record last-writer-wins on SyncedAt. Ties go to
// remote; a nil side yields the other.
func MergeSettings(local, remote *settingsdomain.Settings) *settingsdomain.Settings {
	switch {
	case local == nil && remote == nil:
		return nil
	case local == nil:
		return copySettings(remote)
	case remote == nil:
		return copySettings(local)
	case local.SyncedAt > remote.SyncedAt:
		return copySettings(local)
	default:
		return copySettings(remote)
	}
}

func copySettings(s *settingsdomain.Settings) *settingsdomain.Settings {
	c := *s
	return &c
}
