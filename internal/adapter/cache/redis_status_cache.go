package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

// RedisStatusCache backs the storefront order-page polling loop.
type RedisStatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatusCache(rdb *redis.Client, ttl time.Duration) *RedisStatusCache {
	return &RedisStatusCache{rdb: rdb, ttl: ttl}
}

func statusKey(orderNumber string) string { return "order:status:" + orderNumber }

func (c *RedisStatusCache) SetStatus(ctx context.Context, orderNumber string, status domain.Status) error {
	return c.rdb.Set(ctx, statusKey(orderNumber), string(status), c.ttl).Err()
}

func (c *RedisStatusCache) GetStatus(ctx context.Context, orderNumber string) (domain.Status, bool, error) {
	val, err := c.rdb.Get(ctx, statusKey(orderNumber)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return domain.Status(val), true, nil
}

var _ usecase.StatusCache = (*RedisStatusCache)(nil)
