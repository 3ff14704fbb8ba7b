package storage

import (
	"context"
	"fmt"
	"strings"
)

// Package storage provides the durable key-value abstraction shared by the
// bookmark and preferences repositories and the theme manager. Callers treat
// backend failures as non-fatal: they log and keep their prior in-memory state.

// Store is the uniform get/set/remove contract over string keys. One
// implementation exists per deployment target, selected at startup.
type Store interface {
	Close() error
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", "memory":
		return newMemoryStore(), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path)
	case "sqlite":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("sqlite storage requires a path")
		}
		return openSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}
