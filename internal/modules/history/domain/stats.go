package domain

import (
	"sort"
	"time"
)

// SortNewestFirst returns a copy ordered by CompletedAt descending. Values
// that parse are compared as instants; the rest compare as strings.
func SortNewestFirst(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return newer(out[i].CompletedAt, out[j].CompletedAt)
	})
	return out
}

func newer(a, b string) bool {
	at, okA := parseCompletedAt(a)
	bt, okB := parseCompletedAt(b)
	if okA && okB && !at.Equal(bt) {
		return at.After(bt)
	}
	return a > b
}

// Streak counts consecutive calendar days in now's location, ending today,
// that hold at least one entry.
func Streak(entries []Entry, now time.Time) int {
	loc := now.Location()
	days := map[string]struct{}{}
	for _, e := range entries {
		at, ok := parseCompletedAt(e.CompletedAt)
		if !ok {
			continue
		}
		days[at.In(loc).Format(time.DateOnly)] = struct{}{}
	}
	count := 0
	cursor := startOfDay(now)
	for {
		if _, ok := days[cursor.Format(time.DateOnly)]; !ok {
			return count
		}
		count++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

// WeekStart is Monday 00:00 of the week containing now.
func WeekStart(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	return startOfDay(now).AddDate(0, 0, -offset)
}

func CountSince(entries []Entry, since time.Time) int {
	count := 0
	for _, e := range entries {
		at, ok := parseCompletedAt(e.CompletedAt)
		if ok && !at.Before(since) {
			count++
		}
	}
	return count
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func parseCompletedAt(value string) (time.Time, bool) {
	at, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
