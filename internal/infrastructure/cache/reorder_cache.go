package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Inventario-engine/internal/application/dto"
	"github.com/jhoicas/Inventario-engine/internal/application/inventory"
	"github.com/jhoicas/Inventario-engine/pkg/config"
)

const scanBatchSize = 100

var (
	_ inventory.ReorderCache = (*RedisReorderCache)(nil)
	_ inventory.ReorderCache = NoopReorderCache{}
)

// RedisReorderCache guarda el último barrido de reposición de cada empresa como JSON con TTL.
type RedisReorderCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewReorderCache devuelve la caché Redis si está habilitada; si no, una caché nula.
func NewReorderCache(ctx context.Context, cfg config.CacheConfig) (inventory.ReorderCache, func() error, error) {
	if !cfg.Enabled {
		return NoopReorderCache{}, func() error { return nil }, nil
	}
	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return NewRedisReorderCache(client, cfg.TTL, cfg.Prefix), client.Close, nil
}

// NewRedisReorderCache construye la caché sobre un cliente existente.
func NewRedisReorderCache(client *redis.Client, ttl time.Duration, prefix string) *RedisReorderCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if prefix == "" {
		prefix = "engine:reorder:"
	}
	return &RedisReorderCache{client: client, ttl: ttl, prefix: prefix}
}

func (c *RedisReorderCache) key(companyID string) string {
	return c.prefix + companyID
}

func (c *RedisReorderCache) Get(ctx context.Context, companyID string) (*dto.ReorderSweepDTO, error) {
	payload, err := c.client.Get(ctx, c.key(companyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var sweep dto.ReorderSweepDTO
	if err := json.Unmarshal(payload, &sweep); err != nil {
		return nil, fmt.Errorf("decode reorder sweep cache: %w", err)
	}
	return &sweep, nil
}

func (c *RedisReorderCache) Set(ctx context.Context, companyID string, sweep *dto.ReorderSweepDTO) error {
	payload, err := json.Marshal(sweep)
	if err != nil {
		return fmt.Errorf("encode reorder sweep cache: %w", err)
	}
	if err := c.client.Set(ctx, c.key(companyID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisReorderCache) Invalidate(ctx context.Context, companyID string) error {
	if err := c.client.Del(ctx, c.key(companyID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// InvalidateAll borra los barridos de todas las empresas.
func (c *RedisReorderCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, c.prefix, scanBatchSize)
}

// NoopReorderCache caché deshabilitada: nunca guarda nada.
type NoopReorderCache struct{}

func (NoopReorderCache) Get(context.Context, string) (*dto.ReorderSweepDTO, error) { return nil, nil }
func (NoopReorderCache) Set(context.Context, string, *dto.ReorderSweepDTO) error   { return nil }
func (NoopReorderCache) Invalidate(context.Context, string) error                  { return nil }
