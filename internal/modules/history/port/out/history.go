package out

import (
	"context"

	"pajama/internal/modules/history/domain"
)

// EnvelopeStore persists the history envelope. Load never fails on
// malformed data; it returns an empty envelope instead.
type EnvelopeStore interface {
	Load(ctx context.Context) (domain.Envelope, error)
	Save(ctx context.Context, env domain.Envelope) error
	Clear(ctx context.Context) error
}
