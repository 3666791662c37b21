package out

import (
	"context"

	"pajama/internal/modules/settings/domain"
)

// Store persists the settings record. Load returns nil when nothing has
// been saved yet.
type Store interface {
	Load(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}
