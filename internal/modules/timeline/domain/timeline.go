package domain

import (
	"fmt"
	"math"
	"strings"

	workoutdomain "pajama/internal/modules/workout/domain"
)

// wordsPerSecond is the speaking rate assumed for announcements.
const wordsPerSecond = 2.5

// Phase is a playable segment. Inserted marks rests added to make room for
// a spoken hint.
type Phase struct {
	Name     string
	Type     workoutdomain.PhaseType
	Duration int
	Hint     string
	Inserted bool
}

// BuildPhases scales a definition by the pacing multipliers. With announce
// on, every hinted non-rest phase is preceded by a rest long enough to read
// "Next: <name>. <hint>" aloud.
func BuildPhases(raw []workoutdomain.Phase, workMult, restMult float64, announce bool) []Phase {
	out := make([]Phase, 0, len(raw))
	for _, p := range raw {
		mult := workMult
		if p.Type == workoutdomain.PhaseRest {
			mult = restMult
		}
		scaled := Phase{
			Name:     p.Name,
			Type:     p.Type,
			Duration: scale(p.Duration, mult),
			Hint:     p.Hint,
		}
		if announce && p.Type != workoutdomain.PhaseRest && p.Hint != "" {
			need := EstimatedSpeechSeconds(announcement(p.Name, p.Hint))
			if n := len(out); n > 0 && out[n-1].Type == workoutdomain.PhaseRest {
				if out[n-1].Duration < need {
					out[n-1].Duration = need
				}
			} else {
				out = append(out, Phase{Name: "Rest", Type: workoutdomain.PhaseRest, Duration: need, Inserted: true})
			}
		}
		out = append(out, scaled)
	}
	return out
}

// EstimatedSpeechSeconds approximates how long text takes to speak, plus a
// one second buffer. Blank text needs no time.
func EstimatedSpeechSeconds(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words)/wordsPerSecond)) + 1
}

// FilterHidden drops exercises hidden for workoutID and tidies the rests
// left behind: no two rests in a row and none at either end.
func FilterHidden(workoutID string, phases []workoutdomain.Phase, hidden workoutdomain.HiddenSet) []workoutdomain.Phase {
	kept := make([]workoutdomain.Phase, 0, len(phases))
	for _, p := range phases {
		if p.Type != workoutdomain.PhaseRest && hidden.Contains(workoutID, p.Name) {
			continue
		}
		if p.Type == workoutdomain.PhaseRest {
			if len(kept) == 0 || kept[len(kept)-1].Type == workoutdomain.PhaseRest {
				continue
			}
		}
		kept = append(kept, p)
	}
	for len(kept) > 0 && kept[len(kept)-1].Type == workoutdomain.PhaseRest {
		kept = kept[:len(kept)-1]
	}
	return kept
}

// Summary returns the total playing time and phase count.
func Summary(phases []Phase) (totalSecs, count int) {
	for _, p := range phases {
		totalSecs += p.Duration
	}
	return totalSecs, len(phases)
}

// FormatClock renders seconds as m:ss.
func FormatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Describe renders a plain-text listing, one phase per line.
func Describe(phases []Phase) string {
	var b strings.Builder
	for i, p := range phases {
		fmt.Fprintf(&b, "%02d %-7s %5s %s", i+1, p.Type, FormatClock(p.Duration), p.Name)
		if p.Inserted {
			b.WriteString(" (announce)")
		}
		if p.Hint != "" {
			b.WriteString(" | " + p.Hint)
		}
		b.WriteByte('\n')
	}
	total, count := Summary(phases)
	fmt.Fprintf(&b, "total %s across %d phases\n", FormatClock(total), count)
	return b.String()
}

func announcement(name, hint string) string {
	return "Next: " + name + ". " + hint
}

func scale(duration int, mult float64) int {
	v := math.Round(float64(duration) * mult)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return int(v)
}
