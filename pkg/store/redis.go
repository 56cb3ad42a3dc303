package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces layout keys in a shared Redis.
const DefaultRedisPrefix = "rangedeck:layout:"

// RedisBackend stores each document as a string value.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend connects to the Redis at url (redis://[:pass@]host:port/db)
// and pings it. An empty prefix selects DefaultRedisPrefix.
func NewRedisBackend(ctx context.Context, url, prefix string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisBackendFromClient(client, prefix), nil
}

// NewRedisBackendFromClient wraps an existing client.
func NewRedisBackendFromClient(client *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisBackend{client: client, prefix: prefix}
}

// Name returns "redis".
func (r *RedisBackend) Name() string { return "redis" }

// Get returns the value stored under the prefixed key.
func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, redisError(err)
	}
	return data, true, nil
}

// Set stores data without expiry.
func (r *RedisBackend) Set(ctx context.Context, key string, data []byte) error {
	return redisError(r.client.Set(ctx, r.prefix+key, data, 0).Err())
}

// Delete removes the prefixed key.
func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	return redisError(r.client.Del(ctx, r.prefix+key).Err())
}

// List scans for prefixed keys.
func (r *RedisBackend) List(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, redisError(err)
	}
	slices.Sort(keys)
	return keys, nil
}

// Close closes the client.
func (r *RedisBackend) Close() error { return r.client.Close() }

// redisError marks everything except cancellation as retryable; go-redis
// surfaces connection failures as plain errors.
func redisError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return Retryable(err)
}

var _ Backend = (*RedisBackend)(nil)
