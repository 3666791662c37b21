package tx

import "context"

// Manager wraps transactional boundaries for multi-adapter operations.
// Work done inside fn either commits as a whole or is rolled back when fn
// returns an error.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
