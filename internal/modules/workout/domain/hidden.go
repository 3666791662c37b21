package domain

// HiddenSet holds exercises the user skipped permanently, keyed by
// "workoutID:exerciseName". It is local to the device and never synced.
type HiddenSet map[string]bool

func HiddenKey(workoutID, exercise string) string {
	return workoutID + ":" + exercise
}

func (h HiddenSet) Contains(workoutID, exercise string) bool {
	return h[HiddenKey(workoutID, exercise)]
}
