package redis_utils

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tracker/src/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound is returned by Get when the key does not exist.
var ErrKeyNotFound = errors.New("key does not exist")

// RedisHandler encapsulates the Redis client and provides utility methods.
type RedisHandler struct {
	client *redis.Client
}

// NewRedisHandler initializes a new Redis handler and checks the connection.
func NewRedisHandler(ctx context.Context, cfg *config.RedisConfig) (*RedisHandler, error) {
	opts := &redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.Database,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisHandler{client: client}, nil
}

// Set stores value as JSON under key with an optional expiration.
func (r *RedisHandler) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

// Get retrieves and deserializes the value of key into result.
func (r *RedisHandler) Get(ctx context.Context, key string, result interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	} else if err != nil {
		return fmt.Errorf("failed to get key: %w", err)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to deserialize value: %w", err)
	}
	return nil
}

// ErrVersionChanged is returned by SetIfVersion when the guard key moved.
var ErrVersionChanged = errors.New("version changed")

// GetInt64 reads an integer key. A missing key reads as 0.
func (r *RedisHandler) GetInt64(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get key: %w", err)
	}
	return n, nil
}

// IncrAndDelete bumps versionKey and removes keys in one transaction.
func (r *RedisHandler) IncrAndDelete(ctx context.Context, versionKey string, keys ...string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		if len(keys) > 0 {
			pipe.Del(ctx, keys...)
		}
		return nil
	})
	return err
}

// SetIfVersion stores value under key only while versionKey still holds
// version. The check and the write run under WATCH.
func (r *RedisHandler) SetIfVersion(ctx context.Context, versionKey string, version int64, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if errors.Is(err, redis.Nil) {
			current = 0
		} else if err != nil {
			return err
		}
		if current != version {
			return ErrVersionChanged
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, expiration)
			return nil
		})
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrVersionChanged
	}
	return err
}

// Delete removes a key from Redis.
func (r *RedisHandler) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Exists checks if a key exists in Redis.
func (r *RedisHandler) Exists(ctx context.Context, key string) (bool, error) {
	count, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}
	return count > 0, nil
}

// GenerateKey derives a deterministic UUIDv5 key from the inputs.
func GenerateKey(inputs ...string) string {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(strings.Join(inputs, ":"))).String()
}

// Close closes the Redis client connection.
func (r *RedisHandler) Close() error {
	return r.client.Close()
}
