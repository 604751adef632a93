package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the key holds no value.
	ErrNotFound = errors.New("storage: key not found")
	// ErrQuotaExceeded means the backend rejected a write for size limits.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
	// ErrAccessDenied means the platform refused store access.
	ErrAccessDenied = errors.New("storage: access denied")
)

// KV is the platform persistence boundary: a flat key space of opaque
// serialized values. Implementations are safe for concurrent use and
// normalize driver errors into the sentinels above where recognizable.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Pinger is implemented by backends that can verify connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
