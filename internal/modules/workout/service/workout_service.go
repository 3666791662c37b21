package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pajama/internal/modules/workout/domain"
	workoutout "pajama/internal/modules/workout/port/out"
	"pajama/internal/platform/clock"
	apperrors "pajama/internal/platform/errors"
	"pajama/internal/platform/id"
	"pajama/internal/platform/slug"
)

// DefaultWorkoutID is played when no workout is named.
const DefaultWorkoutID = "pajama-classic"

type Listing struct {
	Workout   domain.Workout
	Builtin   bool
	UpdatedAt int64
}

type WorkoutService struct {
	clock   clock.Clock
	suffix  id.Generator
	catalog workoutout.Catalog
	custom  workoutout.CustomStore
	hidden  workoutout.HiddenStore
	files   workoutout.DefinitionReader
}

func NewWorkoutService(
	clock clock.Clock,
	suffix id.Generator,
	catalog workoutout.Catalog,
	custom workoutout.CustomStore,
	hidden workoutout.HiddenStore,
	files workoutout.DefinitionReader,
) *WorkoutService {
	return &WorkoutService{clock: clock, suffix: suffix, catalog: catalog, custom: custom, hidden: hidden, files: files}
}

// List returns built-ins in catalog order followed by live custom workouts
// sorted by title.
func (s *WorkoutService) List(ctx context.Context) ([]Listing, error) {
	builtins, err := s.catalog.Builtins(ctx)
	if err != nil {
		return nil, err
	}
	collection, err := s.custom.LoadCustom(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Listing, 0, len(builtins)+len(collection))
	for _, w := range builtins {
		out = append(out, Listing{Workout: w, Builtin: true})
	}
	live := collection.Live()
	sort.Slice(live, func(i, j int) bool {
		if live[i].Title == live[j].Title {
			return live[i].ID < live[j].ID
		}
		return live[i].Title < live[j].Title
	})
	for _, w := range live {
		out = append(out, Listing{Workout: w.Workout, UpdatedAt: w.UpdatedAt})
	}
	return out, nil
}

func (s *WorkoutService) Get(ctx context.Context, workoutID string) (Listing, error) {
	if strings.TrimSpace(workoutID) == "" {
		workoutID = DefaultWorkoutID
	}
	builtins, err := s.catalog.Builtins(ctx)
	if err != nil {
		return Listing{}, err
	}
	for _, w := range builtins {
		if w.ID == workoutID {
			return Listing{Workout: w, Builtin: true}, nil
		}
	}
	collection, err := s.custom.LoadCustom(ctx)
	if err != nil {
		return Listing{}, err
	}
	if live, ok := collection[workoutID].(domain.CustomWorkout); ok {
		return Listing{Workout: live.Workout, UpdatedAt: live.UpdatedAt}, nil
	}
	return Listing{}, fmt.Errorf("%w: workout %s", apperrors.ErrNotFound, workoutID)
}

func (s *WorkoutService) Create(ctx context.Context, w domain.Workout) (domain.CustomWorkout, error) {
	if err := w.Validate(); err != nil {
		return domain.CustomWorkout{}, err
	}
	collection, err := s.custom.LoadCustom(ctx)
	if err != nil {
		return domain.CustomWorkout{}, err
	}
	if collection == nil {
		collection = domain.Collection{}
	}
	w.ID = slug.Make(w.Title) + "-" + s.suffix.New()
	record := domain.CustomWorkout{Workout: w, UpdatedAt: clock.EpochMillis(s.clock.Now())}
	collection[w.ID] = record
	if err := s.custom.SaveCustom(ctx, collection); err != nil {
		return domain.CustomWorkout{}, err
	}
	return record, nil
}

func (s *WorkoutService) Update(ctx context.Context, workoutID string, w domain.Workout) (domain.CustomWorkout, error) {
	if err := w.Validate(); err != nil {
		return domain.CustomWorkout{}, err
	}
	collection, err := s.liveCustom(ctx, workoutID)
	if err != nil {
		return domain.CustomWorkout{}, err
	}
	w.ID = workoutID
	record := domain.CustomWorkout{Workout: w, UpdatedAt: clock.EpochMillis(s.clock.Now())}
	collection[workoutID] = record
	if err := s.custom.SaveCustom(ctx, collection); err != nil {
		return domain.CustomWorkout{}, err
	}
	return record, nil
}

// Delete replaces the record with a tombstone so the deletion survives
// merges with older live copies.
func (s *WorkoutService) Delete(ctx context.Context, workoutID string) error {
	collection, err := s.liveCustom(ctx, workoutID)
	if err != nil {
		return err
	}
	collection[workoutID] = domain.Tombstone{DeletedAt: clock.EpochMillis(s.clock.Now())}
	return s.custom.SaveCustom(ctx, collection)
}

func (s *WorkoutService) ImportFile(ctx context.Context, path string) (domain.CustomWorkout, error) {
	w, err := s.files.ReadDefinition(ctx, path)
	if err != nil {
		return domain.CustomWorkout{}, err
	}
	return s.Create(ctx, w)
}

func (s *WorkoutService) Share(ctx context.Context, workoutID string) (string, error) {
	listing, err := s.Get(ctx, workoutID)
	if err != nil {
		return "", err
	}
	return domain.EncodeShareCode(listing.Workout)
}

func (s *WorkoutService) ImportCode(ctx context.Context, code string) (domain.CustomWorkout, error) {
	w, err := domain.DecodeShareCode(code)
	if err != nil {
		return domain.CustomWorkout{}, err
	}
	return s.Create(ctx, w)
}

func (s *WorkoutService) SetHidden(ctx context.Context, workoutID, exercise string, hidden bool) error {
	if strings.TrimSpace(workoutID) == "" || strings.TrimSpace(exercise) == "" {
		return fmt.Errorf("%w: workout id and exercise are required", apperrors.ErrInvalidInput)
	}
	set, err := s.hidden.LoadHidden(ctx)
	if err != nil {
		return err
	}
	if set == nil {
		set = domain.HiddenSet{}
	}
	key := domain.HiddenKey(workoutID, exercise)
	if hidden {
		set[key] = true
	} else {
		delete(set, key)
	}
	return s.hidden.SaveHidden(ctx, set)
}

func (s *WorkoutService) Hidden(ctx context.Context) (domain.HiddenSet, error) {
	return s.hidden.LoadHidden(ctx)
}

func (s *WorkoutService) liveCustom(ctx context.Context, workoutID string) (domain.Collection, error) {
	builtins, err := s.catalog.Builtins(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range builtins {
		if w.ID == workoutID {
			return nil, fmt.Errorf("%w: built-in workout %s is read-only", apperrors.ErrInvalidInput, workoutID)
		}
	}
	collection, err := s.custom.LoadCustom(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := collection[workoutID].(domain.CustomWorkout); !ok {
		return nil, fmt.Errorf("%w: workout %s", apperrors.ErrNotFound, workoutID)
	}
	return collection, nil
}
