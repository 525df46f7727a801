package backend

import (
	"context"

	"showroom/internal/session"
)

// CleanupFunc releases resources held by a store.
type CleanupFunc func() error

// Result contains the session store and its optional cleanup function.
type Result struct {
	Store   session.Store
	Cleanup CleanupFunc
}

// Factory creates session stores based on configuration.
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// Type selects the session store backend.
type Type string

const (
	MemoryBackend Type = "memory"
	RedisBackend  Type = "redis"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, RedisBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
