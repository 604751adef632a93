package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/config"
)

// RedisKV stores records under a key prefix in a shared Redis
// instance. Sharing the instance across processes is what makes the
// cross-context change signal meaningful.
type RedisKV struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to Redis using the provided configuration.
func OpenRedis(cfg config.RedisConfig, logger *zap.Logger) *RedisKV {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &RedisKV{client: client, prefix: cfg.KeyPrefix}
}

// Client exposes the underlying connection for the event broadcaster.
func (r *RedisKV) Client() *redis.Client {
	return r.client
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classifyRedisError(err)
	}
	return value, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return classifyRedisError(r.client.Set(ctx, r.prefix+key, value, 0).Err())
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return classifyRedisError(r.client.Del(ctx, r.prefix+key).Err())
}

func (r *RedisKV) Clear(ctx context.Context) error {
	keys, err := r.prefixedKeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return classifyRedisError(r.client.Del(ctx, keys...).Err())
}

func (r *RedisKV) Keys(ctx context.Context) ([]string, error) {
	prefixed, err := r.prefixedKeys(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(prefixed))
	for _, key := range prefixed {
		keys = append(keys, strings.TrimPrefix(key, r.prefix))
	}
	return keys, nil
}

func (r *RedisKV) prefixedKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, classifyRedisError(err)
	}
	return keys, nil
}

func (r *RedisKV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}

func classifyRedisError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "OOM"):
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	case strings.HasPrefix(msg, "NOAUTH"), strings.HasPrefix(msg, "NOPERM"), strings.HasPrefix(msg, "WRONGPASS"):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	default:
		return err
	}
}
