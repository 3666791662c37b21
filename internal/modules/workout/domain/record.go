package domain

// Record is a replicated custom-workout slot: either a live workout or a
// tombstone. The two cases never coexist.
type Record interface {
	Timestamp() int64
	isRecord()
}

// CustomWorkout is the live case. UpdatedAt is epoch milliseconds, zero for
// legacy records written before timestamps existed.
type CustomWorkout struct {
	Workout
	UpdatedAt int64
}

func (w CustomWorkout) Timestamp() int64 { return w.UpdatedAt }
func (CustomWorkout) isRecord()          {}

// Tombstone marks a deleted workout. It is kept so merges can outrank
// older live copies.
type Tombstone struct {
	DeletedAt int64
}

func (t Tombstone) Timestamp() int64 { return t.DeletedAt }
func (Tombstone) isRecord()          {}

// Collection is keyed by workout id.
type Collection map[string]Record

// Live returns the live workouts, skipping tombstones.
func (c Collection) Live() []CustomWorkout {
	out := make([]CustomWorkout, 0, len(c))
	for _, r := range c {
		if w, ok := r.(CustomWorkout); ok {
			out = append(out, w)
		}
	}
	return out
}

// Clone copies the map; records are values.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
