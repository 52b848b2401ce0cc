package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shopmesh/shopmesh/internal/domain"
)

const (
	keyOrderStatus = "order:status:%s"

	ttlStatusCache = 60 * time.Second
)

// StatusCache keeps the latest order status in redis for the poll endpoint.
// Writes are best-effort; postgres stays the source of truth.
type StatusCache struct {
	rdb *redis.Client
}

func NewStatusCache(rdb *redis.Client) *StatusCache {
	return &StatusCache{rdb: rdb}
}

func (c *StatusCache) SetStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	key := fmt.Sprintf(keyOrderStatus, orderID)

	if err := c.rdb.Set(ctx, key, string(status), ttlStatusCache).Err(); err != nil {
		return fmt.Errorf("rdb.Set: %w", err)
	}

	return nil
}

func (c *StatusCache) GetStatus(ctx context.Context, orderID uuid.UUID) (domain.OrderStatus, bool, error) {
	key := fmt.Sprintf(keyOrderStatus, orderID)

	value, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("rdb.Get: %w", err)
	}

	status, err := domain.ToOrderStatus(value)
	if err != nil {
		return "", false, nil // stale or corrupt entry, treat as a miss
	}

	return status, true, nil
}
