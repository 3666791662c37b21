package out

import (
	"context"
	"encoding/json"
	"fmt"

	"pajama/internal/modules/workout/domain"
	workoutout "pajama/internal/modules/workout/port/out"
)

const (
	customKey = "custom_workouts"
	hiddenKey = "hidden_exercises"
)

type Documents interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

type SQLiteCustomStore struct {
	docs Documents
}

func NewSQLiteCustomStore(docs Documents) *SQLiteCustomStore {
	return &SQLiteCustomStore{docs: docs}
}

var (
	_ workoutout.CustomStore = (*SQLiteCustomStore)(nil)
	_ workoutout.HiddenStore = (*SQLiteCustomStore)(nil)
)

func (s *SQLiteCustomStore) LoadCustom(ctx context.Context) (domain.Collection, error) {
	raw, found, err := s.docs.Get(ctx, customKey)
	if err != nil {
		return nil, fmt.Errorf("load custom workouts: %w", err)
	}
	if !found {
		return domain.Collection{}, nil
	}
	return domain.DecodeCollection(raw), nil
}

func (s *SQLiteCustomStore) SaveCustom(ctx context.Context, collection domain.Collection) error {
	payload, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("marshal custom workouts: %w", err)
	}
	if err := s.docs.Put(ctx, customKey, payload); err != nil {
		return fmt.Errorf("save custom workouts: %w", err)
	}
	return nil
}

func (s *SQLiteCustomStore) LoadHidden(ctx context.Context) (domain.HiddenSet, error) {
	raw, found, err := s.docs.Get(ctx, hiddenKey)
	if err != nil {
		return nil, fmt.Errorf("load hidden exercises: %w", err)
	}
	hidden := domain.HiddenSet{}
	if !found {
		return hidden, nil
	}
	if err := json.Unmarshal(raw, &hidden); err != nil {
		return domain.HiddenSet{}, nil
	}
	return hidden, nil
}

func (s *SQLiteCustomStore) SaveHidden(ctx context.Context, hidden domain.HiddenSet) error {
	payload, err := json.Marshal(hidden)
	if err != nil {
		return fmt.Errorf("marshal hidden exercises: %w", err)
	}
	if err := s.docs.Put(ctx, hiddenKey, payload); err != nil {
		return fmt.Errorf("save hidden exercises: %w", err)
	}
	return nil
}
