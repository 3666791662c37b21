package out

import (
	"context"

	"pajama/internal/modules/workout/domain"
)

// CustomStore persists the replicated custom-workout collection.
type CustomStore interface {
	LoadCustom(ctx context.Context) (domain.Collection, error)
	SaveCustom(ctx context.Context, collection domain.Collection) error
}

// Catalog serves the read-only built-in workouts.
type Catalog interface {
	Builtins(ctx context.Context) ([]domain.Workout, error)
}

type HiddenStore interface {
	LoadHidden(ctx context.Context) (domain.HiddenSet, error)
	SaveHidden(ctx context.Context, hidden domain.HiddenSet) error
}

// DefinitionReader parses a workout definition file.
type DefinitionReader interface {
	ReadDefinition(ctx context.Context, path string) (domain.Workout, error)
}
