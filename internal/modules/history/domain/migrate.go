package domain

// Step upgrades an envelope by exactly one version. Steps must not mutate
// their input.
type Step func(Envelope) Envelope

// Migrations is keyed by the version each step produces.
var Migrations = map[int]Step{
	2: defaultMultiplier,
}

// Migrate applies steps while env.Version < target. A missing step ends the
// chain and the version is clamped to target.
func Migrate(env Envelope, target int, steps map[int]Step) Envelope {
	for env.Version < target {
		step, ok := steps[env.Version+1]
		if !ok {
			env.Version = target
			break
		}
		next := env.Version + 1
		env = step(env)
		env.Version = next
	}
	return env
}

// Version 1 predates the speed multiplier; every v1 session ran at 1×.
func defaultMultiplier(env Envelope) Envelope {
	entries := make([]Entry, len(env.Entries))
	for i, e := range env.Entries {
		if e.Multiplier <= 0 {
			e.Multiplier = 1
		}
		entries[i] = e
	}
	return Envelope{Version: env.Version, Entries: entries}
}
