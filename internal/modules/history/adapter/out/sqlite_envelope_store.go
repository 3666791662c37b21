package out

import (
	"context"
	"encoding/json"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"pajama/internal/modules/history/domain"
	historyout "pajama/internal/modules/history/port/out"
)

const historyKey = "history"

// Documents is the key-value medium the store writes to.
type Documents interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type SQLiteEnvelopeStore struct {
	docs   Documents
	logger hclog.Logger
}

func NewSQLiteEnvelopeStore(docs Documents, logger hclog.Logger) historyout.EnvelopeStore {
	return &SQLiteEnvelopeStore{docs: docs, logger: logger.Named("history-store")}
}

func (s *SQLiteEnvelopeStore) Load(ctx context.Context) (domain.Envelope, error) {
	raw, found, err := s.docs.Get(ctx, historyKey)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("load history: %w", err)
	}
	if !found {
		return domain.EmptyEnvelope(), nil
	}
	env, needsPersist := domain.Decode(raw)
	if needsPersist {
		if err := s.Save(ctx, env); err != nil {
			s.logger.Warn("re-persist upgraded history failed", "error", err)
		} else {
			s.logger.Info("upgraded history envelope", "version", env.Version, "entries", len(env.Entries))
		}
	}
	return env, nil
}

func (s *SQLiteEnvelopeStore) Save(ctx context.Context, env domain.Envelope) error {
	if env.Entries == nil {
		env.Entries = []domain.Entry{}
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := s.docs.Put(ctx, historyKey, payload); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (s *SQLiteEnvelopeStore) Clear(ctx context.Context) error {
	if err := s.docs.Delete(ctx, historyKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
