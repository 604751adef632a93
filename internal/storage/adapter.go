package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/pkg/outcome"
)

// Adapter wraps a KV backend with the record serialization contract:
// reads never fail (corrupt or null content is treated as absent) and
// write failures come back classified, never as panics. Failures are
// terminal per call; there are no retries.
type Adapter struct {
	kv     KV
	logger *zap.Logger
}

// NewAdapter builds an adapter over the given backend.
func NewAdapter(kv KV, logger *zap.Logger) *Adapter {
	return &Adapter{kv: kv, logger: logger}
}

// Get deserializes the value at key into out and reports whether a
// usable value was found. On a missing key, a stored JSON null, or
// malformed content it logs and leaves out untouched so the caller's
// default stands.
func (a *Adapter) Get(ctx context.Context, key string, out any) bool {
	raw, err := a.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Warn("store read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("undefined")) {
		return false
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		a.logger.Warn("corrupt store content ignored", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set serializes v and writes it whole-record under key. The returned
// failure is classified (quota, access, internal) and nil on success.
func (a *Adapter) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		a.logger.Error("store marshal failed", zap.String("key", key), zap.Error(err))
		return outcome.Internal(err)
	}
	if err := a.kv.Set(ctx, key, raw); err != nil {
		return a.classify("write", key, err)
	}
	return nil
}

// Remove deletes the value at key. Removing an absent key succeeds.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	if err := a.kv.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		return a.classify("remove", key, err)
	}
	return nil
}

// Clear removes every key.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.kv.Clear(ctx); err != nil {
		return a.classify("clear", "*", err)
	}
	return nil
}

// Keys lists the stored keys, empty on any failure.
func (a *Adapter) Keys(ctx context.Context) []string {
	keys, err := a.kv.Keys(ctx)
	if err != nil {
		a.logger.Warn("store key listing failed", zap.Error(err))
		return nil
	}
	return keys
}

// Ping verifies backend connectivity when the backend supports it.
func (a *Adapter) Ping(ctx context.Context) error {
	if p, ok := a.kv.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases backend resources.
func (a *Adapter) Close() error {
	return a.kv.Close()
}

func (a *Adapter) classify(op, key string, err error) error {
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		a.logger.Warn("store quota exceeded", zap.String("op", op), zap.String("key", key))
		return outcome.Quota(err)
	case errors.Is(err, ErrAccessDenied):
		a.logger.Warn("store access denied", zap.String("op", op), zap.String("key", key))
		return outcome.AccessDenied(err)
	default:
		a.logger.Error("store operation failed", zap.String("op", op), zap.String("key", key), zap.Error(err))
		return outcome.Internal(err)
	}
}
