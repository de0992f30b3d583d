package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"linkbox/internal/config"
	"linkbox/internal/domain"
	"linkbox/internal/port"
)

const fileObjectKeyPrefix = "files:"

type redisFileObjectCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopFileObjectCache struct{}

// NewFileObjectCache returns a Redis-backed cache when cfg.Enabled is set and
// a no-op cache otherwise.
func NewFileObjectCache(ctx context.Context, cfg config.CacheConfig) (port.FileObjectCache, error) {
	if !cfg.Enabled {
		return NewNoopFileObjectCache(), nil
	}

	client, err := newRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisFileObjectCache(client, cfg.TTL), nil
}

// NewRedisFileObjectCache wraps an existing client. A non-positive ttl falls
// back to the default.
func NewRedisFileObjectCache(client *redis.Client, ttl time.Duration) port.FileObjectCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisFileObjectCache{client: client, ttl: ttl}
}

func NewNoopFileObjectCache() port.FileObjectCache {
	return noopFileObjectCache{}
}

func (c *redisFileObjectCache) Get(ctx context.Context, id string) (*domain.FileObject, bool, error) {
	payload, err := c.client.Get(ctx, fileObjectKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var obj domain.FileObject
	if err := json.Unmarshal(payload, &obj); err != nil {
		return nil, false, fmt.Errorf("decode file object cache: %w", err)
	}
	return &obj, true, nil
}

func (c *redisFileObjectCache) Set(ctx context.Context, obj *domain.FileObject) error {
	payload, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encode file object cache: %w", err)
	}
	if err := c.client.Set(ctx, fileObjectKeyPrefix+obj.ID, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (noopFileObjectCache) Get(context.Context, string) (*domain.FileObject, bool, error) {
	return nil, false, nil
}

func (noopFileObjectCache) Set(context.Context, *domain.FileObject) error {
	return nil
}
