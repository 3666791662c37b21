package id

import (
	"strings"

	"github.com/google/uuid"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

// Short is a UUID trimmed to eight hex characters, used as a slug suffix.
type Short struct{}

func (Short) New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
