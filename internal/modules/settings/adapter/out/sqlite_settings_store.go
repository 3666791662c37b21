package out

import (
	"context"
	"encoding/json"
	"fmt"

	"pajama/internal/modules/settings/domain"
	settingsout "pajama/internal/modules/settings/port/out"
)

const settingsKey = "settings"

type Documents interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

type SQLiteSettingsStore struct {
	docs Documents
}

func NewSQLiteSettingsStore(docs Documents) settingsout.Store {
	return &SQLiteSettingsStore{docs: docs}
}

func (s *SQLiteSettingsStore) Load(ctx context.Context) (*domain.Settings, error) {
	raw, found, err := s.docs.Get(ctx, settingsKey)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if !found {
		return nil, nil
	}
	return domain.Decode(raw), nil
}

func (s *SQLiteSettingsStore) Save(ctx context.Context, settings domain.Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.docs.Put(ctx, settingsKey, payload); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
