package slug_test

import (
	"testing"

	"pajama/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Morning Flow":          "morning-flow",
		"  Yoga — Café Stretch ": "yoga-cafe-stretch",
		"Child's Pose":          "child-s-pose",
		"🧘":                     "workout",
		"":                      "workout",
	}
	for input, want := range cases {
		if got := slug.Make(input); got != want {
			t.Fatalf("expected %q for %q, got %q", want, input, got)
		}
	}
}
