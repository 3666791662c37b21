package domain_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pajama/internal/modules/timeline/domain"
	workoutdomain "pajama/internal/modules/workout/domain"
)

func circuit() []workoutdomain.Phase {
	return []workoutdomain.Phase{
		{Name: "Squats", Type: workoutdomain.PhaseWork, Duration: 40, Hint: "Go deep"},
		{Name: "Rest", Type: workoutdomain.PhaseRest, Duration: 20},
		{Name: "Lunges", Type: workoutdomain.PhaseWork, Duration: 40, Hint: "Alternate legs"},
	}
}

func goldenFor(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestBuildPhasesScalesWorkAndRestSeparately(t *testing.T) {
	t.Parallel()
	got := domain.BuildPhases(circuit(), 1.5, 0.5, false)
	require.Len(t, got, 3)
	assert.Equal(t, 60, got[0].Duration)
	assert.Equal(t, 10, got[1].Duration)
	assert.Equal(t, 60, got[2].Duration)
	assert.Equal(t, "Go deep", got[0].Hint)
	assert.False(t, got[0].Inserted)
}

func TestBuildPhasesRoundsHalfUp(t *testing.T) {
	t.Parallel()
	got := domain.BuildPhases([]workoutdomain.Phase{{Name: "X", Type: workoutdomain.PhaseWork, Duration: 10}}, 0.75, 1, false)
	assert.Equal(t, 8, got[0].Duration)
}

func TestBuildPhasesEdgeInputs(t *testing.T) {
	t.Parallel()
	assert.Empty(t, domain.BuildPhases(nil, 1, 1, true))

	zero := domain.BuildPhases(circuit(), 0, 0, false)
	for _, p := range zero {
		assert.Equal(t, 0, p.Duration)
	}
	negative := domain.BuildPhases([]workoutdomain.Phase{{Name: "X", Type: workoutdomain.PhaseWork, Duration: -5}}, 1, 1, false)
	assert.Equal(t, 0, negative[0].Duration)
}

func TestBuildPhasesExtendsExistingRestForAnnouncement(t *testing.T) {
	t.Parallel()
	hint := "one two three four five six seven eight nine ten eleven twelve"
	got := domain.BuildPhases([]workoutdomain.Phase{
		{Name: "Rest", Type: workoutdomain.PhaseRest, Duration: 5},
		{Name: "Move", Type: workoutdomain.PhaseWork, Duration: 30, Hint: hint},
	}, 1, 1, true)
	require.Len(t, got, 2)
	assert.Equal(t, domain.EstimatedSpeechSeconds("Next: Move. "+hint), got[0].Duration)
	assert.Equal(t, 7, got[0].Duration)
	assert.False(t, got[0].Inserted)
}

func TestBuildPhasesLeavesUnhintedPhasesAlone(t *testing.T) {
	t.Parallel()
	got := domain.BuildPhases([]workoutdomain.Phase{
		{Name: "Squats", Type: workoutdomain.PhaseWork, Duration: 40},
		{Name: "Lunges", Type: workoutdomain.PhaseWork, Duration: 40},
	}, 1, 1, true)
	assert.Len(t, got, 2)
}

func TestBuildPhasesGolden(t *testing.T) {
	t.Parallel()
	g := goldenFor(t)
	g.Assert(t, "announced_circuit", []byte(domain.Describe(domain.BuildPhases(circuit(), 1.5, 0.5, true))))

	mobility := []workoutdomain.Phase{
		{Name: "Quad Stretch", Type: workoutdomain.PhaseStretch, Duration: 25, Hint: "Pull heel to glute"},
		{Name: "Mountain Pose", Type: workoutdomain.PhaseYoga, Duration: 20, Hint: "Stand tall"},
	}
	g.Assert(t, "announced_mobility", []byte(domain.Describe(domain.BuildPhases(mobility, 1, 1, true))))
}

func TestEstimatedSpeechSeconds(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, domain.EstimatedSpeechSeconds(""))
	assert.Equal(t, 0, domain.EstimatedSpeechSeconds("   \t"))
	assert.Equal(t, 2, domain.EstimatedSpeechSeconds("hello"))
	assert.Equal(t, 2, domain.EstimatedSpeechSeconds("hello world"))
	assert.Equal(t, 5, domain.EstimatedSpeechSeconds("a b c d e f g h i j"))
}

func TestFilterHidden(t *testing.T) {
	t.Parallel()
	phases := []workoutdomain.Phase{
		{Name: "Squats", Type: workoutdomain.PhaseWork, Duration: 40},
		{Name: "Rest", Type: workoutdomain.PhaseRest, Duration: 20},
		{Name: "Lunges", Type: workoutdomain.PhaseWork, Duration: 40},
		{Name: "Rest", Type: workoutdomain.PhaseRest, Duration: 20},
		{Name: "Plank", Type: workoutdomain.PhaseWork, Duration: 30},
	}
	names := func(ps []workoutdomain.Phase) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Len(t, domain.FilterHidden("wk1", phases, nil), 5)
	assert.Len(t, domain.FilterHidden("wk1", phases, workoutdomain.HiddenSet{"other:Squats": true}), 5)
	assert.Equal(t, []string{"Squats", "Rest", "Plank"},
		names(domain.FilterHidden("wk1", phases, workoutdomain.HiddenSet{"wk1:Lunges": true})))
	assert.Equal(t, []string{"Squats", "Rest", "Lunges"},
		names(domain.FilterHidden("wk1", phases, workoutdomain.HiddenSet{"wk1:Plank": true})))
	assert.Equal(t, []string{"Lunges", "Rest", "Plank"},
		names(domain.FilterHidden("wk1", phases, workoutdomain.HiddenSet{"wk1:Squats": true})))
	assert.Empty(t, domain.FilterHidden("wk1", phases, workoutdomain.HiddenSet{"wk1:Squats": true, "wk1:Lunges": true, "wk1:Plank": true}))
}

func TestFormatClockAndSummary(t *testing.T) {
	t.Parallel()
	for secs, want := range map[int]string{0: "0:00", 9: "0:09", 61: "1:01", 599: "9:59", 3600: "60:00"} {
		assert.Equal(t, want, domain.FormatClock(secs))
	}
	total, count := domain.Summary(domain.BuildPhases(circuit(), 1, 1, false))
	assert.Equal(t, 100, total)
	assert.Equal(t, 3, count)
}
