package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pnl-projection-service/internal/domain"
)

// Redis is a ResultCache backed by a Redis server. Values are JSON; expiry
// is enforced server-side so entries survive process restarts but never
// outlive their TTL.
type Redis struct {
	client *redis.Client
	clock  func() time.Time
}

// RedisOptions contains configuration for creating a Redis cache.
type RedisOptions struct {
	// Addr is the host:port of the Redis server. Required.
	Addr string
	// Clock overrides the time source used to derive TTLs. Default: time.Now.
	Clock func() time.Time
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: opts.Addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Redis{client: client, clock: clock}, nil
}

// Compile-time interface check.
var _ ResultCache = (*Redis)(nil)

// Get returns the cached result, or ErrMiss if absent or expired.
func (r *Redis) Get(ctx context.Context, key Key) (*domain.ProjectionResult, error) {
	data, err := r.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var result domain.ProjectionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode cached projection: %w", err)
	}
	return &result, nil
}

// Set stores the result with a server-side TTL derived from CachedUntil.
// A result whose expiry has already passed is dropped silently.
func (r *Redis) Set(ctx context.Context, key Key, result *domain.ProjectionResult) error {
	ttl := result.CachedUntil.Sub(r.clock())
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode projection for cache: %w", err)
	}

	if err := r.client.Set(ctx, key.String(), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate removes an entry. Removing an absent key is not an error.
func (r *Redis) Invalidate(ctx context.Context, key Key) error {
	if err := r.client.Del(ctx, key.String()).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Name identifies the backend in metrics.
func (r *Redis) Name() string {
	return "redis"
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
